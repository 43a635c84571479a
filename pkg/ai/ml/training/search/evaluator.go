package search

import (
	"context"
	"log/slog"
)

// candidateEvaluator turns one CandidateTuple into a CandidateResult: it
// resolves deferred-random coordinates, builds the flat option map,
// materializes the trainer's typed options tree, drives quantization
// (through the shared cache) and either a train/test run or a CV run,
// and tracks the best candidate seen so far.
type candidateEvaluator struct {
	trainer        Trainer
	cv             CVRunner
	optionsBuilder OptionsBuilder
	cache          *quantizationCache
	registry       GeneratorRegistry

	otherNames   []string
	baseOptions  map[string]any
	useTrainTest bool
	splitParams  SplitParams
	cvParams     CVParams
	numThreads   int
	data         TrainingData

	sign    float64
	verbose int
	logger  *slog.Logger

	hasBest    bool
	bestMetric float64
	best       *CandidateResult
}

func newCandidateEvaluator(
	trainer Trainer,
	cv CVRunner,
	optionsBuilder OptionsBuilder,
	cache *quantizationCache,
	registry GeneratorRegistry,
	otherNames []string,
	baseOptions map[string]any,
	useTrainTest bool,
	splitParams SplitParams,
	cvParams CVParams,
	numThreads int,
	data TrainingData,
	sign float64,
	verbose int,
	logger *slog.Logger,
) *candidateEvaluator {
	return &candidateEvaluator{
		trainer:        trainer,
		cv:             cv,
		optionsBuilder: optionsBuilder,
		cache:          cache,
		registry:       registry,
		otherNames:     otherNames,
		baseOptions:    baseOptions,
		useTrainTest:   useTrainTest,
		splitParams:    splitParams,
		cvParams:       cvParams,
		numThreads:     numThreads,
		data:           data,
		sign:           sign,
		verbose:        verbose,
		logger:         logger,
	}
}

// Evaluate runs one candidate and updates the running best-so-far.
//
// The best-so-far seed (§4.G) is defined as first_metric + sign, so that
// comparing the first candidate against it with the very same rule used
// for every later candidate ("A beats B iff sign*metric(A) <
// sign*metric(B)") always accepts the first candidate — no special case
// needed once the seed identity holds.
func (e *candidateEvaluator) Evaluate(ctx context.Context, index int, tuple CandidateTuple) (*CandidateResult, error) {
	if len(tuple) != 3+len(e.otherNames) {
		return nil, SearchInternalf("candidate tuple has %d coordinates, expected %d", len(tuple), 3+len(e.otherNames))
	}

	resolved, err := resolveTuple(ctx, e.registry, tuple)
	if err != nil {
		return nil, err
	}

	triple, err := quantTripleFromTuple(resolved)
	if err != nil {
		return nil, err
	}

	flat := make(map[string]any, len(e.baseOptions)+len(e.otherNames))
	for k, v := range e.baseOptions {
		flat[k] = v
	}
	for i, name := range e.otherNames {
		flat[name] = resolved[3+i]
	}

	optsTree, err := e.optionsBuilder.Materialize(flat)
	if err != nil {
		return nil, SearchConfigf("materializing options for candidate %d: %v", index, err)
	}

	handle, split, err := e.cache.ensure(ctx, triple, e.data, e.splitParams)
	if err != nil {
		return nil, err
	}

	var metric float64
	var cvTrace []CVFoldResult
	if e.useTrainTest {
		result, err := e.trainer.Train(ctx, optsTree, split, e.numThreads)
		if err != nil {
			return nil, SearchTrainerf(err, "training failed for candidate %d", index)
		}
		metric = result.TestBestError
	} else {
		cvTrace, err = e.cv.Run(ctx, optsTree, handle, e.cvParams, e.numThreads)
		if err != nil {
			return nil, SearchTrainerf(err, "cross-validation failed for candidate %d", index)
		}
		if len(cvTrace) == 0 || len(cvTrace[0].AverageTest) == 0 {
			return nil, SearchTrainerf(nil, "cross-validation returned no folds for candidate %d", index)
		}
		// The CV metric for candidate selection is the final iteration's
		// fold-0 average test value, not the best-seen value over the
		// trajectory (§9, resolved open question).
		trajectory := cvTrace[0].AverageTest
		metric = trajectory[len(trajectory)-1]
	}

	candidate := &CandidateResult{
		Index:   index,
		Metric:  metric,
		Options: optsTree,
		Handle:  handle,
		CVTrace: cvTrace,
		Tuple:   resolved,
	}

	if !e.hasBest {
		seed := metric + e.sign
		if e.sign*metric < e.sign*seed {
			candidate.BestSoFar = true
			e.best = candidate
			e.bestMetric = metric
		}
		e.hasBest = true
	} else if e.sign*metric < e.sign*e.bestMetric {
		candidate.BestSoFar = true
		e.best = candidate
		e.bestMetric = metric
	}

	// Verbose levels per RunConfig.Verbose: 0 silent, 1 best-so-far
	// updates only, 2 every candidate.
	if e.logger != nil && ((e.verbose >= 2) || (e.verbose >= 1 && candidate.BestSoFar)) {
		e.logger.InfoContext(ctx, "candidate evaluated",
			slog.Int("index", index),
			slog.Float64("metric", metric),
			slog.Bool("best_so_far", candidate.BestSoFar))
	}

	return candidate, nil
}

// quantTripleFromTuple reads the first three (already-resolved)
// coordinates of a candidate tuple as a QuantTriple, coercing a
// resolved RandomRef sample (always float64) to an integer bin count.
func quantTripleFromTuple(resolved CandidateTuple) (QuantTriple, error) {
	if len(resolved) < 3 {
		return QuantTriple{}, SearchInternalf("resolved tuple has fewer than 3 coordinates")
	}

	binCount, err := toInt64(resolved[0])
	if err != nil {
		return QuantTriple{}, SearchInternalf("bin_count coordinate: %v", err)
	}
	borderType, ok := resolved[1].(string)
	if !ok {
		return QuantTriple{}, SearchInternalf("border_type coordinate resolved to non-string %v", resolved[1])
	}
	nanMode, ok := resolved[2].(string)
	if !ok {
		return QuantTriple{}, SearchInternalf("nan_mode coordinate resolved to non-string %v", resolved[2])
	}

	return QuantTriple{BinCount: binCount, BorderType: borderType, NanMode: nanMode}, nil
}

func toInt64(v Value) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n + 0.5), nil
	default:
		return 0, SearchConfigf("expected a numeric value, got %T", v)
	}
}
