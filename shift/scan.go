package shift

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// DateMatch is an occurrence of the date format in a text.
type DateMatch struct {
	// Raw the matched substring
	Raw string
	// Value the parsed date. It is the zero Date if Err is not nil.
	Value Date
	// Start the byte offset of the first character of the match
	Start int
	// End the byte offset right after the last character of the match
	End int
	// Err is ErrInvalidDate if the substring has the shape of the format,
	// but does not represent a calendar date (ie. 2023-02-30)
	Err error
}

// Scan finds the occurrences of the format in text, from left to right.
//
// The returned sequence is lazy and restartable: every range over it scans the text again.
// Substrings which do not fit the format are skipped. So are the ones which are glued to
// a surrounding digit or letter (ie. "2023-01-01" inside "12023-01-01" is not a date).
func Scan(text string, f *Format) iter.Seq[DateMatch] {
	return func(yield func(DateMatch) bool) {
		pos := 0
		for pos < len(text) {
			loc := f.re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += pos
				}
			}
			start, end := loc[0], loc[1]
			if !isolated(text, start, end) {
				_, size := utf8.DecodeRuneInString(text[start:])
				pos = start + size
				continue
			}

			m := DateMatch{
				Raw:   text[start:end],
				Start: start,
				End:   end,
			}
			m.Value, m.Err = f.date(text, loc)
			if m.Err != nil {
				m.Value = Date{}
			}
			if !yield(m) {
				return
			}
			pos = end
		}
	}
}

// Matches collects all the occurrences of the format in text
func Matches(text string, f *Format) []DateMatch {
	var matches []DateMatch
	for m := range Scan(text, f) {
		matches = append(matches, m)
	}
	return matches
}

// isolated returns false if the match continues a number or a word of the surrounding text
func isolated(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:end])
		if glued(before, first) {
			return false
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[start:end])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if glued(last, after) {
			return false
		}
	}
	return true
}

func glued(a, b rune) bool {
	return (unicode.IsDigit(a) && unicode.IsDigit(b)) || (unicode.IsLetter(a) && unicode.IsLetter(b))
}
