package shift

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/NebulousLabs/fastrand"
	"github.com/xitonix/xshift/hash"
)

// DefaultMaxShiftDays the default maximum number of days a date is moved by
const DefaultMaxShiftDays = 365

// Scope decides which inputs share their offsets
type Scope int8

const (
	// FileScope every input gets its own set of offsets. A date value appearing in two files
	// is, in general, shifted differently in each of them.
	FileScope Scope = iota
	// RunScope all the inputs processed by an engine share a single set of offsets
	RunScope
)

// String returns the string representation of the scope
func (s Scope) String() string {
	switch s {
	case FileScope:
		return "file"
	case RunScope:
		return "run"
	}
	return "unknown"
}

// ParseScope converts the string representation of a scope
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "file":
		return FileScope, nil
	case "run":
		return RunScope, nil
	}
	return FileScope, fmt.Errorf("unknown shift scope %q", s)
}

// Options the date shifting settings of an Engine
type Options struct {
	// MaxShiftDays the maximum number of days, in either direction, a date can be moved by
	MaxShiftDays int
	// Seed the seed of the random sources. If nil, a seed is drawn from the system's entropy.
	Seed *uint64
	// Format the date format (ie. "%Y-%m-%d")
	Format string
	// Encoding the encoding of the inputs. It's detected per input if empty.
	Encoding string
	Policy   Policy
	Scope    Scope
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		MaxShiftDays: DefaultMaxShiftDays,
		Format:       DefaultFormat,
	}
}

// Validate checks the options
func (o Options) Validate() error {
	if o.MaxShiftDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxShift, o.MaxShiftDays)
	}
	if _, err := ParseFormat(o.Format); err != nil {
		return err
	}
	return nil
}

// RandomSeed draws a seed from the system's entropy
func RandomSeed() uint64 {
	b := make([]byte, 8)
	fastrand.Read(b)
	return binary.BigEndian.Uint64(b)
}

// NewSource creates the random source of the named input.
// Sources created with the same seed and name produce the same sequence.
func NewSource(seed uint64, name string) *rand.Rand {
	return rand.New(rand.NewPCG(hash.Seed(seed, name)))
}
