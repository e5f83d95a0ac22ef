package shift

import (
	"fmt"
	"iter"
	"strings"
)

// Warning reports a date which has been left unshifted
type Warning struct {
	Match DateMatch
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%q at offset %d left unshifted: %s", w.Match.Raw, w.Match.Start, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Apply replaces every valid match with its date moved by the assigned shift and rendered with the format.
// Everything outside of the matches is copied through byte for byte.
//
// Matches must be ordered by position, the ones overlapping a previous match are ignored.
// A match is left unchanged, and reported as a warning, if it is not a valid date, if it has no shift
// or if the shifted date cannot be represented.
func Apply(text string, matches iter.Seq[DateMatch], shifts ShiftMap, f *Format) (string, []Warning) {
	var (
		b        strings.Builder
		warnings []Warning
		cursor   int
	)

	for m := range matches {
		if m.Start < cursor || m.End > len(text) || m.Start > m.End {
			continue
		}
		b.WriteString(text[cursor:m.Start])
		cursor = m.End

		replacement, err := replace(m, shifts, f)
		if err != nil {
			warnings = append(warnings, Warning{Match: m, Err: err})
			b.WriteString(m.Raw)
			continue
		}
		b.WriteString(replacement)
	}

	if cursor == 0 {
		return text, warnings
	}
	b.WriteString(text[cursor:])
	return b.String(), warnings
}

func replace(m DateMatch, shifts ShiftMap, f *Format) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	days, ok := shifts[m.Value]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoShift, m.Value)
	}
	shifted, err := m.Value.AddDays(days)
	if err != nil {
		return "", err
	}

	// re-locate the groups, so the literal and time of day parts can be copied through
	loc := f.re.FindStringSubmatchIndex(m.Raw)
	if loc == nil || loc[0] != 0 || loc[1] != len(m.Raw) {
		return f.render(shifted, "", nil)
	}
	return f.render(shifted, m.Raw, loc)
}
