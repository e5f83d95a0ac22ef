package shift

import (
	"fmt"
)

// Report is the outcome of shifting the dates of a text
type Report struct {
	// Text the text with the dates shifted
	Text string
	// Matches the number of substrings which matched the date format
	Matches int
	// Distinct the number of distinct valid date values
	Distinct int
	// Shifted the number of dates which have been replaced
	Shifted int
	// Warnings the dates which have been left unchanged
	Warnings []Warning
}

// Shifter finds, shifts and rewrites the dates of a text.
//
// A Shifter owns its random source and is not safe for concurrent use,
// unless it is backed by a ShiftTable.
type Shifter struct {
	format       *Format
	maxShiftDays int
	policy       Policy
	rng          Source
	table        *ShiftTable
}

// NewShifter creates a shifter which draws a fresh set of offsets for every text it shifts
func NewShifter(format *Format, maxShiftDays int, policy Policy, rng Source) (*Shifter, error) {
	if format == nil {
		return nil, fmt.Errorf("%w: nil format", ErrEmptyFormat)
	}
	if maxShiftDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxShift, maxShiftDays)
	}
	if rng == nil {
		return nil, ErrNilSource
	}
	return &Shifter{
		format:       format,
		maxShiftDays: clampMaxShift(maxShiftDays),
		policy:       policy,
		rng:          rng,
	}, nil
}

// NewSharedShifter creates a shifter which takes the offsets from a shift table,
// so that the same date value gets the same offset in every text shifted through the table
func NewSharedShifter(format *Format, table *ShiftTable) (*Shifter, error) {
	if format == nil {
		return nil, fmt.Errorf("%w: nil format", ErrEmptyFormat)
	}
	if table == nil {
		return nil, ErrNilSource
	}
	return &Shifter{
		format:       format,
		maxShiftDays: table.maxShiftDays,
		policy:       table.policy,
		table:        table,
	}, nil
}

// Shift shifts all the dates of text
func (s *Shifter) Shift(text string) (*Report, error) {
	matches := Scan(text, s.format)

	var (
		shifts ShiftMap
		err    error
	)
	switch {
	case s.table != nil:
		shifts, err = s.table.Resolve(matches)
	case s.policy == RunWide:
		shifts, err = AssignUniformShift(matches, s.maxShiftDays, s.rng)
	default:
		shifts, err = AssignShifts(matches, s.maxShiftDays, s.rng)
	}
	if err != nil {
		return nil, err
	}

	out, warnings := Apply(text, matches, shifts, s.format)
	report := &Report{
		Text:     out,
		Warnings: warnings,
	}
	distinct := make(map[Date]struct{})
	for m := range matches {
		report.Matches++
		if m.Err == nil {
			distinct[m.Value] = struct{}{}
		}
	}
	report.Distinct = len(distinct)
	report.Shifted = report.Matches - len(warnings)
	return report, nil
}
