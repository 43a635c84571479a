package search

import (
	"math/rand"
	"sort"
)

// Iterator yields successive candidate tuples. Next returns (tuple, ok,
// err): ok is false once the iterator is exhausted, with no error.
type Iterator interface {
	Next() (CandidateTuple, bool, error)
	Total() uint64
}

// ExhaustiveIterator walks every point of the cartesian product exactly
// once, in mixed-radix order, advancing the underlying enumerator by 1
// each step (construction leaves the counter one step behind index 0,
// so the first call's single step lands on index 0).
type ExhaustiveIterator struct {
	enum    *MixedRadixEnumerator
	emitted uint64
}

// NewExhaustiveIterator wraps an already-built enumerator for grid
// search: emit every one of enum.Total() tuples in order.
func NewExhaustiveIterator(enum *MixedRadixEnumerator) *ExhaustiveIterator {
	return &ExhaustiveIterator{enum: enum}
}

func (it *ExhaustiveIterator) Total() uint64 {
	return it.enum.Total()
}

func (it *ExhaustiveIterator) Next() (CandidateTuple, bool, error) {
	if it.emitted >= it.enum.Total() {
		return nil, false, nil
	}
	it.enum.Advance(1)
	it.emitted++
	return it.enum.Snapshot(), true, nil
}

// SampledIterator draws K indices from [0, T) without replacement (or
// with replacement, when allowRepeat is set) and replays them through
// the same mixed-radix enumerator as deltas, so the two iterators share
// one code path for turning an index into a tuple.
//
// Selection policy (§4.C):
//   - K >= T and !allowRepeat: every point is visited once (K clamped to T).
//   - K/T > 0.7 and !allowRepeat: a full Fisher-Yates shuffle of [0, T),
//     truncated to K, is cheaper in expectation than rejection sampling
//     against an increasingly crowded visited set.
//   - otherwise: rejection sampling, redrawing on a collision when
//     !allowRepeat.
type SampledIterator struct {
	enum   *MixedRadixEnumerator
	deltas []uint64
	pos    int
}

// NewSampledIterator builds the K-index draw up front (deterministically,
// from seed) and returns an iterator that replays it as deltas against
// enum.
func NewSampledIterator(enum *MixedRadixEnumerator, k int, allowRepeat bool, seed int64) (*SampledIterator, error) {
	if k <= 0 {
		return nil, SearchConfigf("num_tries must be positive, got %d", k)
	}

	total := enum.Total()
	rng := rand.New(rand.NewSource(seed))

	var indices []uint64
	switch {
	case !allowRepeat && uint64(k) >= total:
		indices = make([]uint64, total)
		for i := range indices {
			indices[i] = uint64(i)
		}
	case !allowRepeat && float64(k)/float64(total) > 0.7:
		perm := rng.Perm(int(total))
		indices = make([]uint64, k)
		for i := 0; i < k; i++ {
			indices[i] = uint64(perm[i])
		}
	case allowRepeat:
		indices = make([]uint64, k)
		for i := 0; i < k; i++ {
			indices[i] = uint64(rng.Int63n(int64(total)))
		}
	default:
		seen := make(map[uint64]bool, k)
		indices = make([]uint64, 0, k)
		for len(indices) < k {
			candidate := uint64(rng.Int63n(int64(total)))
			if seen[candidate] {
				continue
			}
			seen[candidate] = true
			indices = append(indices, candidate)
		}
	}

	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	// The enumerator's counter starts one step behind absolute index 0
	// (see NewMixedRadixEnumerator), so the first delta must account for
	// that extra step; track the virtual previous position as -1.
	deltas := make([]uint64, len(indices))
	prev := int64(-1)
	for i, idx := range indices {
		deltas[i] = uint64(int64(idx) - prev)
		prev = int64(idx)
	}

	return &SampledIterator{enum: enum, deltas: deltas}, nil
}

func (it *SampledIterator) Total() uint64 {
	return uint64(len(it.deltas))
}

func (it *SampledIterator) Next() (CandidateTuple, bool, error) {
	if it.pos >= len(it.deltas) {
		return nil, false, nil
	}
	it.enum.Advance(it.deltas[it.pos])
	it.pos++
	return it.enum.Snapshot(), true, nil
}
