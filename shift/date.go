package shift

import (
	"fmt"
	"time"
)

const (
	minYear = 1
	maxYear = 9999
	// MaxSpanDays the number of days between 0001-01-01 and 9999-12-31, plus one.
	// No shift larger than this can land inside the calendar.
	MaxSpanDays = 3652059
)

// Date is a proleptic Gregorian calendar date.
//
// Two dates are the same distinct value if their year, month and day match,
// regardless of the text they were parsed from. Date is comparable and can be used as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
// It returns ErrInvalidDate if the combination does not exist in the calendar.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return d, nil
}

// IsValid returns true if the date exists in the calendar and the year is within [1, 9999]
func (d Date) IsValid() bool {
	if d.Year < minYear || d.Year > maxYear {
		return false
	}
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= daysIn(d.Month, d.Year)
}

// AddDays returns the date n days after d (or before d if n is negative).
// It returns ErrCalendarOverflow if the result falls outside of years [1, 9999].
func (d Date) AddDays(n int) (Date, error) {
	if n > MaxSpanDays || n < -MaxSpanDays {
		return Date{}, fmt.Errorf("%w: %s %+d days", ErrCalendarOverflow, d, n)
	}
	t := d.time().AddDate(0, 0, n)
	r := Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	if r.Year < minYear || r.Year > maxYear {
		return Date{}, fmt.Errorf("%w: %s %+d days", ErrCalendarOverflow, d, n)
	}
	return r, nil
}

// DaysSince returns the number of days between other and d
func (d Date) DaysSince(other Date) int {
	const secondsPerDay = 24 * 60 * 60
	return int((d.time().Unix() - other.time().Unix()) / secondsPerDay)
}

// Weekday returns the day of the week of d
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// YearDay returns the day of the year of d, in the range [1,365] for non-leap years, and [1,366] in leap years
func (d Date) YearDay() int {
	return d.time().YearDay()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(month time.Month, year int) int {
	switch month {
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}
