package search

import "math"

// MixedRadixEnumerator walks the cartesian product of N axes (sets of
// candidate values) as a mixed-radix counter, position 0 most
// significant. It never materializes the full product: only the state
// vector and the current digit per position are held.
type MixedRadixEnumerator struct {
	sets   [][]Value
	digits []int
	state  []Value
	total  uint64
}

// NewMixedRadixEnumerator builds an enumerator over sets, one non-empty
// value list per axis. Construction seeds the counter one step before
// the first candidate: digits[i] = len(sets[i])-1 and state[i] =
// sets[i][0], so that the first Advance(1) call lands on index 0 of
// every axis.
func NewMixedRadixEnumerator(sets [][]Value) (*MixedRadixEnumerator, error) {
	if len(sets) == 0 {
		return nil, SearchInternalf("mixed-radix enumerator built with zero axes")
	}

	logSum := 0.0
	for i, s := range sets {
		if len(s) == 0 {
			return nil, SearchConfigf("axis %d has an empty set of values", i)
		}
		logSum += math.Log2(float64(len(s)))
	}
	if logSum >= 64 {
		return nil, SearchConfigf("search space size overflows 64 bits (log2 total = %.2f)", logSum)
	}

	total := uint64(1)
	for _, s := range sets {
		total *= uint64(len(s))
	}

	digits := make([]int, len(sets))
	state := make([]Value, len(sets))
	for i, s := range sets {
		digits[i] = len(s) - 1
		state[i] = s[0]
	}

	return &MixedRadixEnumerator{sets: sets, digits: digits, state: state, total: total}, nil
}

// Total returns the cartesian product size, |S_0| * |S_1| * ... * |S_{N-1}|.
func (e *MixedRadixEnumerator) Total() uint64 {
	return e.total
}

// Advance moves the counter forward by offset positions in the product
// ordering and returns the resulting state vector. Carry propagates from
// the least significant (last) position toward position 0; positions
// whose digit doesn't change are left untouched. The returned slice is
// owned by the enumerator and must be copied by the caller before the
// next Advance call.
func (e *MixedRadixEnumerator) Advance(offset uint64) []Value {
	for i := len(e.digits) - 1; i >= 0 && offset > 0; i-- {
		base := uint64(len(e.sets[i]))
		total := uint64(e.digits[i]) + offset
		e.digits[i] = int(total % base)
		e.state[i] = e.sets[i][e.digits[i]]
		offset = total / base
	}
	return e.state
}

// Snapshot returns a fresh copy of the current state vector as a
// CandidateTuple.
func (e *MixedRadixEnumerator) Snapshot() CandidateTuple {
	out := make(CandidateTuple, len(e.state))
	copy(out, e.state)
	return out
}
