// Package xshift anonymizes the dates of text files by moving each of them by a random number of days.
//
// The dates are found using a strftime style format (see shift.ParseFormat). Every distinct date value
// gets its own offset, drawn uniformly from [-max_shift_days, +max_shift_days] by a seeded random source,
// so the same value is always shifted the same way and a run is reproducible from its seed.
// Everything which is not a date is kept byte for byte, in the original encoding of the file.
//
// The shift package implements the date shifting and the Engine which processes the inputs coming
// through a Tap. The taps package contains the taps for files, directories and watched directories.
// Check cmd/xshift to see them in action.
package xshift
