// Package textenc detects the character encoding of raw input and converts it to and from Go strings.
package textenc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// UTF8 the canonical name of the UTF-8 encoding
const UTF8 = "utf-8"

// ErrUnknownEncoding raised if an encoding name is not recognised
var ErrUnknownEncoding = errors.New("unknown encoding")

// Codec decodes raw bytes into text and encodes the text back using the same encoding
type Codec struct {
	// Name the canonical (WHATWG) name of the encoding
	Name string
	enc  encoding.Encoding
}

// Lookup returns the codec of the named encoding. Names are matched the way browsers do,
// so labels such as "latin1", "UTF8" or "utf-16le" are all accepted.
func Lookup(name string) (Codec, error) {
	name = strings.TrimSpace(name)
	enc, err := htmlindex.Get(name)
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	return Codec{Name: canonical, enc: enc}, nil
}

// Detect guesses the encoding of raw input.
//
// A byte order mark wins. Otherwise valid UTF-8 (including plain ASCII) is reported as utf-8,
// anything else falls back to the sniffing rules of the HTML standard.
func Detect(raw []byte) string {
	_, name, certain := charset.DetermineEncoding(raw, "")
	if certain {
		return name
	}
	if utf8.Valid(raw) {
		return UTF8
	}
	return name
}

// Resolve returns the codec of the named encoding, or of the detected one if name is empty
func Resolve(raw []byte, name string) (Codec, error) {
	if strings.TrimSpace(name) == "" {
		name = Detect(raw)
	}
	return Lookup(name)
}

// Decode converts raw bytes to text. UTF-8 input is kept byte for byte; for other encodings
// the bytes which cannot be decoded are replaced with the Unicode replacement character.
func (c Codec) Decode(raw []byte) (string, error) {
	if c.enc == nil || c.Name == UTF8 {
		return string(raw), nil
	}
	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", c.Name, err)
	}
	return string(out), nil
}

// Encode converts text back to raw bytes. Characters the encoding cannot represent are
// replaced with the encoding's replacement character.
func (c Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil || c.Name == UTF8 {
		return []byte(text), nil
	}
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.Name, err)
	}
	return out, nil
}
