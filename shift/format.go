package shift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultFormat is the date format used when none is configured
const DefaultFormat = "%Y-%m-%d"

const (
	// strptime maps two digit years below this pivot to the 21st century
	twoDigitYearPivot = 69
	// the year strptime assumes when the format does not carry one
	defaultYear = 1900
)

var (
	monthNames = []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// field patterns follow the ones strptime uses, so the same substrings are recognised
var fieldPatterns = map[byte]string{
	'Y': `[0-9]{4}`,
	'y': `[0-9]{2}`,
	'm': `1[0-2]|0[1-9]|[1-9]`,
	'd': `3[01]|[12][0-9]|0[1-9]|[1-9]| [1-9]`,
	'j': `36[0-6]|3[0-5][0-9]|[12][0-9][0-9]|0[1-9][0-9]|00[1-9]|[1-9][0-9]|0[1-9]|[1-9]`,
	'H': `2[0-3]|[0-1][0-9]|[0-9]`,
	'I': `1[0-2]|0[1-9]|[1-9]`,
	'M': `[0-5][0-9]|[0-9]`,
	'S': `6[0-1]|[0-5][0-9]|[0-9]`,
	'f': `[0-9]{1,6}`,
	'p': `(?i:am|pm)`,
	'b': namesPattern(monthNames, true),
	'h': namesPattern(monthNames, true),
	'B': namesPattern(monthNames, false),
	'a': namesPattern(dayNames, true),
	'A': namesPattern(dayNames, false),
}

// time of day fields are validated by their patterns and copied through verbatim
var timeDefaults = map[byte]string{
	'H': "00",
	'I': "12",
	'M': "00",
	'S': "00",
	'f': "000000",
	'p': "AM",
}

type token struct {
	// verb is the directive letter, or zero for a literal
	verb    byte
	literal string
}

// Format is a compiled strftime/strptime style date pattern such as "%Y-%m-%d" or "%d %b %Y".
//
// A Format is immutable and safe for concurrent use.
type Format struct {
	pattern string
	tokens  []token
	re      *regexp.Regexp

	hasYear, twoDigitYear bool
	hasMonth, hasDay      bool
	hasYearDay            bool
}

// ParseFormat compiles a date pattern.
//
// Supported directives are %Y %y %m %d %j %b %h %B %a %A %H %I %M %S %p %f and %%.
// A run of whitespace in the pattern matches any run of whitespace in the text.
func ParseFormat(pattern string) (*Format, error) {
	f := &Format{pattern: pattern}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			f.tokens = append(f.tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	var fields int
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("%w: trailing '%%' in %q", ErrUnsupportedDirective, pattern)
		}
		i++
		verb := pattern[i]
		if verb == '%' {
			lit.WriteByte('%')
			continue
		}
		if _, ok := fieldPatterns[verb]; !ok {
			return nil, fmt.Errorf("%w: %%%c in %q", ErrUnsupportedDirective, verb, pattern)
		}
		flush()
		f.tokens = append(f.tokens, token{verb: verb})
		fields++
		switch verb {
		case 'Y':
			f.hasYear = true
		case 'y':
			f.hasYear, f.twoDigitYear = true, true
		case 'm', 'b', 'h', 'B':
			f.hasMonth = true
		case 'd':
			f.hasDay = true
		case 'j':
			f.hasYearDay = true
		}
	}
	flush()

	if fields == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyFormat, pattern)
	}

	var expr strings.Builder
	for _, t := range f.tokens {
		expr.WriteByte('(')
		if t.verb == 0 {
			expr.WriteString(literalPattern(t.literal))
		} else {
			expr.WriteString(fieldPatterns[t.verb])
		}
		expr.WriteByte(')')
	}
	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrUnsupportedDirective, pattern, err)
	}
	f.re = re
	return f, nil
}

// MustParseFormat is like ParseFormat but panics if the pattern cannot be compiled
func MustParseFormat(pattern string) *Format {
	f, err := ParseFormat(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the pattern the format was compiled from
func (f *Format) String() string {
	return f.pattern
}

// Parse converts text, which must entirely match the format, into a date
func (f *Format) Parse(text string) (Date, error) {
	loc := f.re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 || loc[1] != len(text) {
		return Date{}, fmt.Errorf("%w: %q does not match %q", ErrFormatMismatch, text, f.pattern)
	}
	return f.date(text, loc)
}

// Format renders d using the pattern. Time of day fields are rendered as midnight.
// It returns ErrCalendarOverflow if the pattern cannot represent d.
func (f *Format) Format(d Date) (string, error) {
	return f.render(d, "", nil)
}

// date builds the date out of a regexp submatch index slice
func (f *Format) date(text string, loc []int) (Date, error) {
	year, month, day, yearDay := defaultYear, time.January, 1, 0
	for i, t := range f.tokens {
		if t.verb == 0 {
			continue
		}
		s := text[loc[2*(i+1)]:loc[2*(i+1)+1]]
		switch t.verb {
		case 'Y':
			year, _ = strconv.Atoi(s)
		case 'y':
			v, _ := strconv.Atoi(s)
			if v < twoDigitYearPivot {
				year = 2000 + v
			} else {
				year = 1900 + v
			}
		case 'm':
			v, _ := strconv.Atoi(s)
			month = time.Month(v)
		case 'b', 'h', 'B':
			month = time.Month(nameIndex(monthNames, s) + 1)
		case 'd':
			day, _ = strconv.Atoi(strings.TrimSpace(s))
		case 'j':
			yearDay, _ = strconv.Atoi(s)
		}
	}

	if yearDay > 0 && !f.hasMonth && !f.hasDay {
		jan1 := Date{Year: year, Month: time.January, Day: 1}
		if year < minYear || year > maxYear || yearDay > jan1.daysInYear() {
			return Date{}, fmt.Errorf("%w: day %d of year %d", ErrInvalidDate, yearDay, year)
		}
		return jan1.AddDays(yearDay - 1)
	}
	return NewDate(year, month, day)
}

// render formats d. When original is not empty, loc locates the match the date was parsed from
// and the literal and time of day parts of that match are copied through unchanged.
func (f *Format) render(d Date, original string, loc []int) (string, error) {
	if f.hasYear && f.twoDigitYear && (d.Year < 1900+twoDigitYearPivot || d.Year >= 2000+twoDigitYearPivot) {
		return "", fmt.Errorf("%w: %s cannot be written as a two digit year", ErrCalendarOverflow, d)
	}
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrCalendarOverflow, d)
	}

	var b strings.Builder
	for i, t := range f.tokens {
		var orig string
		hasOrig := loc != nil
		if hasOrig {
			orig = original[loc[2*(i+1)]:loc[2*(i+1)+1]]
		}
		switch t.verb {
		case 0:
			if hasOrig {
				b.WriteString(orig)
			} else {
				b.WriteString(t.literal)
			}
		case 'Y':
			fmt.Fprintf(&b, "%04d", d.Year)
		case 'y':
			fmt.Fprintf(&b, "%02d", d.Year%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(d.Month))
		case 'd':
			fmt.Fprintf(&b, "%02d", d.Day)
		case 'j':
			fmt.Fprintf(&b, "%03d", d.YearDay())
		case 'b', 'h':
			b.WriteString(monthNames[d.Month-1][:3])
		case 'B':
			b.WriteString(monthNames[d.Month-1])
		case 'a':
			b.WriteString(dayNames[d.Weekday()][:3])
		case 'A':
			b.WriteString(dayNames[d.Weekday()])
		default:
			if hasOrig {
				b.WriteString(orig)
			} else {
				b.WriteString(timeDefaults[t.verb])
			}
		}
	}
	return b.String(), nil
}

func (d Date) daysInYear() int {
	if isLeap(d.Year) {
		return 366
	}
	return 365
}

func literalPattern(lit string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range lit {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(`\s+`)
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

func namesPattern(names []string, abbreviated bool) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if abbreviated {
			n = n[:3]
		}
		parts[i] = strings.ToLower(n)
	}
	return `(?i:` + strings.Join(parts, "|") + `)`
}

func nameIndex(names []string, s string) int {
	for i, n := range names {
		if strings.EqualFold(n, s) || strings.EqualFold(n[:3], s) {
			return i
		}
	}
	return -1
}
