package search

import (
	"context"
	"fmt"
)

// fakeOptionsTree is a minimal OptionsTree for tests: it reports
// whatever flat map it was materialized from, split by Go's own dynamic
// type of each value.
type fakeOptionsTree struct {
	bools   map[string]bool
	ints    map[string]int64
	uints   map[string]uint64
	doubles map[string]float64
	strings map[string]string
}

func (t *fakeOptionsTree) BoolValues() map[string]bool      { return t.bools }
func (t *fakeOptionsTree) IntValues() map[string]int64      { return t.ints }
func (t *fakeOptionsTree) UintValues() map[string]uint64    { return t.uints }
func (t *fakeOptionsTree) DoubleValues() map[string]float64 { return t.doubles }
func (t *fakeOptionsTree) StringValues() map[string]string  { return t.strings }

type fakeOptionsBuilder struct {
	err error
}

func (b *fakeOptionsBuilder) Materialize(flat map[string]any) (OptionsTree, error) {
	if b.err != nil {
		return nil, b.err
	}
	tree := &fakeOptionsTree{
		bools:   map[string]bool{},
		ints:    map[string]int64{},
		uints:   map[string]uint64{},
		doubles: map[string]float64{},
		strings: map[string]string{},
	}
	for k, v := range flat {
		switch val := v.(type) {
		case bool:
			tree.bools[k] = val
		case int64:
			tree.ints[k] = val
		case uint64:
			tree.uints[k] = val
		case float64:
			tree.doubles[k] = val
		case string:
			tree.strings[k] = val
		default:
			return nil, fmt.Errorf("unhandled option type %T for %s", v, k)
		}
	}
	return tree, nil
}

type fakeQuantizer struct {
	calls int
	err   error
}

func (q *fakeQuantizer) Quantize(ctx context.Context, data TrainingData, opts QuantizationOptions) (QuantizedFeaturesHandle, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.calls++
	return opts, nil
}

type fakeSplitter struct {
	calls int
	err   error
}

func (s *fakeSplitter) Split(ctx context.Context, handle QuantizedFeaturesHandle, params SplitParams) (*SplitData, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls++
	return &SplitData{Handle: handle}, nil
}

// fakeTrainer returns metrics from a fixed sequence, one per call, in
// order; it errors if called more times than the sequence has entries.
type fakeTrainer struct {
	metrics []float64
	calls   int
	err     error
}

func (t *fakeTrainer) Train(ctx context.Context, opts OptionsTree, split *SplitData, numThreads int) (TrainResult, error) {
	if t.err != nil {
		return TrainResult{}, t.err
	}
	if t.calls >= len(t.metrics) {
		return TrainResult{}, fmt.Errorf("fakeTrainer called more times than it has metrics for")
	}
	m := t.metrics[t.calls]
	t.calls++
	return TrainResult{TestBestError: m}, nil
}

type fakeCVRunner struct {
	trajectories [][]float64
	calls        int
	err          error
}

func (c *fakeCVRunner) Run(ctx context.Context, opts OptionsTree, handle QuantizedFeaturesHandle, params CVParams, numThreads int) ([]CVFoldResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.calls >= len(c.trajectories) {
		return nil, fmt.Errorf("fakeCVRunner called more times than it has trajectories for")
	}
	traj := c.trajectories[c.calls]
	c.calls++
	return []CVFoldResult{{AverageTest: traj}}, nil
}

type fakeMetrics struct {
	direction MetricDirection
	err       error
}

func (m *fakeMetrics) BestValueKind(metricName string) (MetricDirection, error) {
	if m.err != nil {
		return DirectionUnknown, m.err
	}
	return m.direction, nil
}
