package search

import (
	"testing"

	"github.com/i-spark/catboost/pkg/test"
)

type EvaluatorSuite struct {
	*test.Suite
}

func TestEvaluatorSuite(t *testing.T) {
	test.Run(t, &EvaluatorSuite{Suite: test.NewSuite()})
}

func (s *EvaluatorSuite) newEvaluator(trainer Trainer, cv CVRunner, useTrainTest bool) (*candidateEvaluator, *fakeQuantizer) {
	quantizer := &fakeQuantizer{}
	cache := newQuantizationCache(quantizer, &fakeSplitter{}, useTrainTest)
	return newCandidateEvaluator(
		trainer, cv, &fakeOptionsBuilder{}, cache, GeneratorRegistry{},
		[]string{"learning_rate"}, map[string]any{"iterations": int64(100)},
		useTrainTest, SplitParams{TrainRatio: 0.8}, CVParams{FoldCount: 3},
		1, nil, 1, 0, nil,
	), quantizer
}

func (s *EvaluatorSuite) tuple(binCount int64, border, nan string, lr float64) CandidateTuple {
	return CandidateTuple{binCount, border, nan, lr}
}

func (s *EvaluatorSuite) TestFirstCandidateAlwaysBecomesBest() {
	trainer := &fakeTrainer{metrics: []float64{0.5}}
	eval, _ := s.newEvaluator(trainer, nil, true)

	candidate, err := eval.Evaluate(s.Ctx, 0, s.tuple(32, "Median", "Min", 0.1))
	s.Require().NoError(err)
	s.True(candidate.BestSoFar)
	s.Equal(0.5, eval.bestMetric)
}

func (s *EvaluatorSuite) TestMinDirectionPrefersLowerMetric() {
	trainer := &fakeTrainer{metrics: []float64{0.5, 0.3, 0.9}}
	eval, _ := s.newEvaluator(trainer, nil, true)

	c0, err := eval.Evaluate(s.Ctx, 0, s.tuple(32, "Median", "Min", 0.1))
	s.Require().NoError(err)
	c1, err := eval.Evaluate(s.Ctx, 1, s.tuple(32, "Median", "Min", 0.2))
	s.Require().NoError(err)
	c2, err := eval.Evaluate(s.Ctx, 2, s.tuple(32, "Median", "Min", 0.3))
	s.Require().NoError(err)

	s.True(c0.BestSoFar)
	s.True(c1.BestSoFar)
	s.False(c2.BestSoFar)
	s.Equal(0.3, eval.bestMetric)
}

func (s *EvaluatorSuite) TestQuantizationCacheReusedAcrossMatchingTriples() {
	trainer := &fakeTrainer{metrics: []float64{0.5, 0.4}}
	eval, quantizer := s.newEvaluator(trainer, nil, true)

	_, err := eval.Evaluate(s.Ctx, 0, s.tuple(32, "Median", "Min", 0.1))
	s.Require().NoError(err)
	_, err = eval.Evaluate(s.Ctx, 1, s.tuple(32, "Median", "Min", 0.2))
	s.Require().NoError(err)

	s.Equal(1, quantizer.calls)
}

func (s *EvaluatorSuite) TestQuantizationCacheMissesOnTripleChange() {
	trainer := &fakeTrainer{metrics: []float64{0.5, 0.4}}
	eval, quantizer := s.newEvaluator(trainer, nil, true)

	_, err := eval.Evaluate(s.Ctx, 0, s.tuple(32, "Median", "Min", 0.1))
	s.Require().NoError(err)
	_, err = eval.Evaluate(s.Ctx, 1, s.tuple(64, "Median", "Min", 0.1))
	s.Require().NoError(err)

	s.Equal(2, quantizer.calls)
}

func (s *EvaluatorSuite) TestCVModeUsesFinalIterationOfFoldZero() {
	cv := &fakeCVRunner{trajectories: [][]float64{{0.9, 0.7, 0.6}}}
	eval, _ := s.newEvaluator(nil, cv, false)

	candidate, err := eval.Evaluate(s.Ctx, 0, s.tuple(32, "Median", "Min", 0.1))
	s.Require().NoError(err)
	s.Equal(0.6, candidate.Metric)
}

func (s *EvaluatorSuite) TestRejectsWrongArityTuple() {
	eval, _ := s.newEvaluator(&fakeTrainer{metrics: []float64{0.1}}, nil, true)
	_, err := eval.Evaluate(s.Ctx, 0, CandidateTuple{int64(32), "Median"})
	s.Error(err)
}
