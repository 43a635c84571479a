package search

import (
	"testing"

	"github.com/i-spark/catboost/pkg/test"
)

type EnumeratorSuite struct {
	*test.Suite
}

func TestEnumeratorSuite(t *testing.T) {
	test.Run(t, &EnumeratorSuite{Suite: test.NewSuite()})
}

func (s *EnumeratorSuite) sets() [][]Value {
	return [][]Value{
		{int64(1), int64(2)},         // bin_count-like axis, size 2
		{"Uniform", "Median"},        // border_type-like axis, size 2
		{"Min", "Max", "Forbidden"},  // nan_mode-like axis, size 3
	}
}

func (s *EnumeratorSuite) TestTotalIsProductOfSizes() {
	enum, err := NewMixedRadixEnumerator(s.sets())
	s.Require().NoError(err)
	s.Equal(uint64(2*2*3), enum.Total())
}

func (s *EnumeratorSuite) TestEnumeratesEveryTupleExactlyOnce() {
	sets := s.sets()
	enum, err := NewMixedRadixEnumerator(sets)
	s.Require().NoError(err)

	seen := make(map[string]bool)
	var last []Value
	for i := uint64(0); i < enum.Total(); i++ {
		last = enum.Advance(1)
		tupleKey := ""
		for _, v := range last {
			tupleKey += s.toKeyPart(v)
		}
		s.False(seen[tupleKey], "tuple %v emitted twice", last)
		seen[tupleKey] = true
	}
	s.Len(seen, int(enum.Total()))
}

func (s *EnumeratorSuite) toKeyPart(v Value) string {
	switch t := v.(type) {
	case string:
		return "|" + t
	case int64:
		return "|i" + string(rune(t))
	default:
		return "|?"
	}
}

func (s *EnumeratorSuite) TestAdvanceByOffsetSkipsCorrectNumberOfTuples() {
	enum, err := NewMixedRadixEnumerator(s.sets())
	s.Require().NoError(err)

	// Position 0 most significant, base 2: advancing by the size of the
	// least-significant two axes (2*3=6) should roll position 0 over once.
	first := enum.Advance(1)
	s.Equal(int64(1), first[0])

	enum2, err := NewMixedRadixEnumerator(s.sets())
	s.Require().NoError(err)
	rolled := enum2.Advance(7) // 1 (to reach index 0) + 6 (one full roll of trailing axes)
	s.Equal(int64(2), rolled[0])
}

func (s *EnumeratorSuite) TestRejectsEmptyAxis() {
	_, err := NewMixedRadixEnumerator([][]Value{{int64(1)}, {}})
	s.Error(err)
}

func (s *EnumeratorSuite) TestRejectsOverflowingSpace() {
	huge := make([]Value, 1<<20)
	for i := range huge {
		huge[i] = int64(i)
	}
	sets := make([][]Value, 5)
	for i := range sets {
		sets[i] = huge
	}
	_, err := NewMixedRadixEnumerator(sets)
	s.Error(err)
}
