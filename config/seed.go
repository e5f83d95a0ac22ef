package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed the seed of the random offsets.
//
// Any 64 bit integer is accepted, signed or not. Negative values keep their two's complement
// bit pattern, so -1 and 18446744073709551615 seed the same run.
type Seed uint64

// ParseSeed parses a decimal seed
func ParseSeed(s string) (Seed, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return Seed(v), nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, err
	}
	return Seed(v), nil
}

// String returns the decimal representation of the seed
func (s *Seed) String() string {
	return strconv.FormatUint(uint64(*s), 10)
}

// Set implements pflag.Value
func (s *Seed) Set(value string) error {
	v, err := ParseSeed(value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type implements pflag.Value
func (s *Seed) Type() string {
	return "int"
}

// UnmarshalYAML implements yaml.Unmarshaler
func (s *Seed) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: seed must be an integer", value.Line)
	}
	v, err := ParseSeed(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid seed %q: %w", value.Line, value.Value, err)
	}
	*s = v
	return nil
}
