package shift

import (
	"errors"
	"testing"
	"time"
)

func TestApply(t *testing.T) {
	testCases := []struct {
		title            string
		pattern          string
		input            string
		shifts           ShiftMap
		expected         string
		expectedWarnings []error
	}{
		{
			title:    "no_dates_is_a_no_op",
			pattern:  DefaultFormat,
			input:    "hello world",
			expected: "hello world",
		},
		{
			title:    "empty_input",
			pattern:  DefaultFormat,
			input:    "",
			expected: "",
		},
		{
			title:    "repeated_values_are_shifted_identically",
			pattern:  DefaultFormat,
			input:    "2000-01-01 and again 2000-01-01",
			shifts:   ShiftMap{{2000, time.January, 1}: 5},
			expected: "2000-01-06 and again 2000-01-06",
		},
		{
			title:    "leap_day",
			pattern:  DefaultFormat,
			input:    "[2000-02-28]",
			shifts:   ShiftMap{{2000, time.February, 28}: 1},
			expected: "[2000-02-29]",
		},
		{
			title:    "year_rollover",
			pattern:  DefaultFormat,
			input:    "2000-12-31",
			shifts:   ShiftMap{{2000, time.December, 31}: 1},
			expected: "2001-01-01",
		},
		{
			title:    "negative_shift_into_february",
			pattern:  DefaultFormat,
			input:    "2001-03-01",
			shifts:   ShiftMap{{2001, time.March, 1}: -1},
			expected: "2001-02-28",
		},
		{
			title:    "single_digit_fields_are_zero_padded",
			pattern:  DefaultFormat,
			input:    "2000-1-5",
			shifts:   ShiftMap{{2000, time.January, 5}: 1},
			expected: "2000-01-06",
		},
		{
			title:            "invalid_dates_are_left_unshifted",
			pattern:          DefaultFormat,
			input:            "due 2023-02-30!",
			shifts:           ShiftMap{},
			expected:         "due 2023-02-30!",
			expectedWarnings: []error{ErrInvalidDate},
		},
		{
			title:            "overflow_is_left_unshifted",
			pattern:          DefaultFormat,
			input:            "9999-12-30 and 2000-01-01",
			shifts:           ShiftMap{{9999, time.December, 30}: 5, {2000, time.January, 1}: 1},
			expected:         "9999-12-30 and 2000-01-02",
			expectedWarnings: []error{ErrCalendarOverflow},
		},
		{
			title:            "two_digit_year_overflow",
			pattern:          "%d/%m/%y",
			input:            "31/12/68",
			shifts:           ShiftMap{{2068, time.December, 31}: 1},
			expected:         "31/12/68",
			expectedWarnings: []error{ErrCalendarOverflow},
		},
		{
			title:            "missing_shift",
			pattern:          DefaultFormat,
			input:            "2000-01-01",
			shifts:           ShiftMap{},
			expected:         "2000-01-01",
			expectedWarnings: []error{ErrNoShift},
		},
		{
			title:    "literals_and_time_of_day_are_kept",
			pattern:  "%Y-%m-%d %H:%M",
			input:    "at 2000-01-01   09:30!",
			shifts:   ShiftMap{{2000, time.January, 1}: 1},
			expected: "at 2000-01-02   09:30!",
		},
		{
			title:    "month_names",
			pattern:  "%d %b %Y",
			input:    "on 05 jan 2020.",
			shifts:   ShiftMap{{2020, time.January, 5}: 30},
			expected: "on 04 Feb 2020.",
		},
		{
			title:    "weekday_follows_the_date",
			pattern:  "%a %Y-%m-%d",
			input:    "Sat 2000-01-01",
			shifts:   ShiftMap{{2000, time.January, 1}: 2},
			expected: "Mon 2000-01-03",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			f := MustParseFormat(tc.pattern)
			actual, warnings := Apply(tc.input, Scan(tc.input, f), tc.shifts, f)
			if actual != tc.expected {
				t.Errorf("Expected %q, but received %q", tc.expected, actual)
			}
			if len(warnings) != len(tc.expectedWarnings) {
				t.Fatalf("Expected %d warning(s), but received %v", len(tc.expectedWarnings), warnings)
			}
			for i, w := range warnings {
				if !errors.Is(w, tc.expectedWarnings[i]) {
					t.Errorf("Expected warning '%v', but received '%v'", tc.expectedWarnings[i], w)
				}
			}
		})
	}
}

func TestApplyIgnoresOverlappingMatches(t *testing.T) {
	f := MustParseFormat(DefaultFormat)
	text := "2000-01-01"
	m := DateMatch{Raw: text, Value: Date{2000, time.January, 1}, Start: 0, End: len(text)}
	matches := func(yield func(DateMatch) bool) {
		if !yield(m) {
			return
		}
		yield(m)
	}
	actual, warnings := Apply(text, matches, ShiftMap{m.Value: 1}, f)
	if actual != "2000-01-02" {
		t.Errorf("Expected %q, but received %q", "2000-01-02", actual)
	}
	if len(warnings) != 0 {
		t.Errorf("No warning was expected, but received %v", warnings)
	}
}

func TestWarningError(t *testing.T) {
	w := Warning{Match: DateMatch{Raw: "2023-02-30", Start: 4}, Err: ErrInvalidDate}
	expected := `"2023-02-30" at offset 4 left unshifted: invalid calendar date`
	if w.Error() != expected {
		t.Errorf("Expected %q, but received %q", expected, w.Error())
	}
}
