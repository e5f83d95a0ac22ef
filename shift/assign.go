package shift

import (
	"fmt"
	"iter"
	"sync"
)

// Source is the random source shifts are drawn from. *math/rand/v2.Rand satisfies it.
//
// A Source is owned by a single caller and is not safe for concurrent use.
type Source interface {
	// IntN returns a uniform random number in [0,n). It panics if n <= 0.
	IntN(n int) int
}

// Policy decides how many offsets are drawn for the dates of an input
type Policy int8

const (
	// PerValue every distinct date value gets its own offset.
	// The order of the dates is roughly preserved, the intervals between them are not.
	PerValue Policy = iota
	// RunWide a single offset is drawn and applied to all the dates,
	// so every interval between two dates is preserved exactly.
	RunWide
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case PerValue:
		return "per-value"
	case RunWide:
		return "run-wide"
	}
	return "unknown"
}

// ParsePolicy converts the string representation of a policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "per-value":
		return PerValue, nil
	case "run-wide":
		return RunWide, nil
	}
	return PerValue, fmt.Errorf("unknown shift policy %q", s)
}

// ShiftMap maps a distinct date value to its shift in days
type ShiftMap map[Date]int

// AssignShifts draws one offset, uniformly from [-maxShiftDays, +maxShiftDays], for every distinct
// date value of the valid matches. Values are visited in the order of the sequence and an offset is
// only drawn the first time a value is seen, so the same source and matches always produce the same map.
func AssignShifts(matches iter.Seq[DateMatch], maxShiftDays int, rng Source) (ShiftMap, error) {
	shifts := make(ShiftMap)
	if err := assign(shifts, matches, maxShiftDays, PerValue, rng); err != nil {
		return nil, err
	}
	return shifts, nil
}

// AssignUniformShift draws a single offset from [-maxShiftDays, +maxShiftDays] and assigns it to every
// distinct date value of the valid matches. No offset is drawn if there is no valid match.
func AssignUniformShift(matches iter.Seq[DateMatch], maxShiftDays int, rng Source) (ShiftMap, error) {
	shifts := make(ShiftMap)
	if err := assign(shifts, matches, maxShiftDays, RunWide, rng); err != nil {
		return nil, err
	}
	return shifts, nil
}

func assign(shifts ShiftMap, matches iter.Seq[DateMatch], maxShiftDays int, policy Policy, rng Source) error {
	if maxShiftDays <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxShift, maxShiftDays)
	}
	if rng == nil {
		return ErrNilSource
	}
	maxShiftDays = clampMaxShift(maxShiftDays)

	uniform, drawn := 0, false
	if policy == RunWide {
		for _, s := range shifts {
			uniform, drawn = s, true
			break
		}
	}

	for m := range matches {
		if m.Err != nil {
			continue
		}
		if _, ok := shifts[m.Value]; ok {
			continue
		}
		if policy == PerValue {
			shifts[m.Value] = draw(rng, maxShiftDays)
			continue
		}
		if !drawn {
			uniform, drawn = draw(rng, maxShiftDays), true
		}
		shifts[m.Value] = uniform
	}
	return nil
}

// clampMaxShift caps the maximum shift to the span of the calendar, which keeps
// 2*maxShiftDays+1 from overflowing. Anything beyond the span overflows the calendar anyway.
func clampMaxShift(maxShiftDays int) int {
	return min(maxShiftDays, MaxSpanDays)
}

func draw(rng Source, maxShiftDays int) int {
	return rng.IntN(2*maxShiftDays+1) - maxShiftDays
}

// ShiftTable is a ShiftMap shared by several inputs, so that a date value gets the same shift in
// all of them. It is safe for concurrent use, although the offsets only stay reproducible if the
// inputs are resolved in the same order.
type ShiftTable struct {
	mux          sync.Mutex
	shifts       ShiftMap
	maxShiftDays int
	policy       Policy
	rng          Source
}

// NewShiftTable creates a new shift table drawing new offsets from rng
func NewShiftTable(maxShiftDays int, policy Policy, rng Source) (*ShiftTable, error) {
	if maxShiftDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxShift, maxShiftDays)
	}
	if rng == nil {
		return nil, ErrNilSource
	}
	return &ShiftTable{
		shifts:       make(ShiftMap),
		maxShiftDays: clampMaxShift(maxShiftDays),
		policy:       policy,
		rng:          rng,
	}, nil
}

// Resolve assigns offsets to the values of the matches which have not been seen before and
// returns a snapshot of the table
func (t *ShiftTable) Resolve(matches iter.Seq[DateMatch]) (ShiftMap, error) {
	t.mux.Lock()
	defer t.mux.Unlock()
	if err := assign(t.shifts, matches, t.maxShiftDays, t.policy, t.rng); err != nil {
		return nil, err
	}
	snapshot := make(ShiftMap, len(t.shifts))
	for k, v := range t.shifts {
		snapshot[k] = v
	}
	return snapshot, nil
}

// Len returns the number of distinct date values in the table
func (t *ShiftTable) Len() int {
	t.mux.Lock()
	defer t.mux.Unlock()
	return len(t.shifts)
}
