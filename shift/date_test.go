package shift

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/xitonix/xshift/assert"
)

func TestDateAddDays(t *testing.T) {
	testCases := []struct {
		title         string
		date          Date
		days          int
		expected      Date
		expectedError error
	}{
		{
			title:    "zero_days_is_a_no_op",
			date:     Date{2000, time.January, 1},
			expected: Date{2000, time.January, 1},
		},
		{
			title:    "leap_day",
			date:     Date{2000, time.February, 28},
			days:     1,
			expected: Date{2000, time.February, 29},
		},
		{
			title:    "no_leap_day_in_a_non_leap_year",
			date:     Date{1999, time.February, 28},
			days:     1,
			expected: Date{1999, time.March, 1},
		},
		{
			title:    "no_leap_day_in_a_century_year",
			date:     Date{1900, time.February, 28},
			days:     1,
			expected: Date{1900, time.March, 1},
		},
		{
			title:    "year_rollover",
			date:     Date{1999, time.December, 31},
			days:     1,
			expected: Date{2000, time.January, 1},
		},
		{
			title:    "negative_shift_across_a_year",
			date:     Date{2000, time.January, 10},
			days:     -10,
			expected: Date{1999, time.December, 31},
		},
		{
			title:    "a_full_leap_year",
			date:     Date{2024, time.January, 1},
			days:     366,
			expected: Date{2025, time.January, 1},
		},
		{
			title:         "beyond_year_9999_must_overflow",
			date:          Date{9999, time.December, 31},
			days:          1,
			expectedError: ErrCalendarOverflow,
		},
		{
			title:         "before_year_1_must_overflow",
			date:          Date{1, time.January, 1},
			days:          -1,
			expectedError: ErrCalendarOverflow,
		},
		{
			title:    "the_whole_calendar_span",
			date:     Date{1, time.January, 1},
			days:     MaxSpanDays - 1,
			expected: Date{9999, time.December, 31},
		},
		{
			title:         "days_wrapping_the_clock_must_overflow",
			date:          Date{2000, time.January, 1},
			days:          1 << 58,
			expectedError: ErrCalendarOverflow,
		},
		{
			title:         "max_int_days_must_overflow",
			date:          Date{2000, time.January, 1},
			days:          math.MaxInt,
			expectedError: ErrCalendarOverflow,
		},
		{
			title:         "min_int_days_must_overflow",
			date:          Date{2000, time.January, 1},
			days:          math.MinInt,
			expectedError: ErrCalendarOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			actual, err := tc.date.AddDays(tc.days)
			if !assert.ErrorIs(t, tc.expectedError, err, assert.Fields{"date": tc.date, "days": tc.days}) {
				return
			}
			if actual != tc.expected {
				t.Errorf("Expected %s, but received %s", tc.expected, actual)
			}
			if diff := actual.DaysSince(tc.date); diff != tc.days {
				t.Errorf("Expected %d days between the dates, but received %d", tc.days, diff)
			}
		})
	}
}

func TestNewDate(t *testing.T) {
	testCases := []struct {
		title       string
		year        int
		month       time.Month
		day         int
		expectError bool
	}{
		{title: "valid_date", year: 2023, month: time.March, day: 31},
		{title: "leap_day", year: 2024, month: time.February, day: 29},
		{title: "february_30", year: 2023, month: time.February, day: 30, expectError: true},
		{title: "leap_day_in_a_non_leap_year", year: 2023, month: time.February, day: 29, expectError: true},
		{title: "april_31", year: 2023, month: time.April, day: 31, expectError: true},
		{title: "month_13", year: 2023, month: 13, day: 1, expectError: true},
		{title: "day_zero", year: 2023, month: time.January, day: 0, expectError: true},
		{title: "year_zero", year: 0, month: time.January, day: 1, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			_, err := NewDate(tc.year, tc.month, tc.day)
			if tc.expectError && !errors.Is(err, ErrInvalidDate) {
				t.Errorf("Expected '%v', but received '%v'", ErrInvalidDate, err)
			}
			if !tc.expectError && err != nil {
				t.Errorf("No error was expected, but received '%v'", err)
			}
		})
	}
}

func TestDateWeekdayAndYearDay(t *testing.T) {
	d := Date{2024, time.February, 29}
	if d.Weekday() != time.Thursday {
		t.Errorf("Expected %v, but received %v", time.Thursday, d.Weekday())
	}
	if d.YearDay() != 60 {
		t.Errorf("Expected day 60, but received %d", d.YearDay())
	}
	if d.String() != "2024-02-29" {
		t.Errorf("Expected 2024-02-29, but received %s", d)
	}
}
