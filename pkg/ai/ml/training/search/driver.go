package search

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/i-spark/catboost/pkg/logger"
	"github.com/i-spark/catboost/pkg/validator"
)

var runValidate = validator.New()

// RunConfig is the caller-facing knobs that apply to a whole search run,
// independent of the search space itself.
type RunConfig struct {
	NumThreads    int `validate:"gte=0"`
	Verbose       int `validate:"gte=0,lte=2"`
	UseTrainTest  bool
	ReturnCVStats bool
}

// searchOptions is the set of fields GridSearch and RandomizedSearch
// share; the two entry points differ only in how they build an Iterator
// from it.
type searchOptions struct {
	Grids          []RawSearchSpace
	BaseOptions    map[string]any
	SplitParams    SplitParams
	CVParams       CVParams
	Data           TrainingData
	Trainer        Trainer
	CV             CVRunner
	Quantizer      Quantizer
	Splitter       Splitter
	OptionsBuilder OptionsBuilder
	Metrics        MetricCatalog
	PrimaryMetric  string
	Registry       GeneratorRegistry
	Run            RunConfig
	Logger         *slog.Logger
}

// GridSearchOptions is the input to GridSearch: one or more grids,
// evaluated exhaustively, in order, keeping the single best candidate
// across all of them.
type GridSearchOptions struct {
	SearchSpace    []RawSearchSpace
	BaseOptions    map[string]any
	SplitParams    SplitParams
	CVParams       CVParams
	Data           TrainingData
	Trainer        Trainer
	CV             CVRunner
	Quantizer      Quantizer
	Splitter       Splitter
	OptionsBuilder OptionsBuilder
	Metrics        MetricCatalog
	PrimaryMetric  string
	Registry       GeneratorRegistry
	Run            RunConfig
	Logger         *slog.Logger
}

// RandomizedSearchOptions is the input to RandomizedSearch: a single
// grid, sampled NumTries times.
type RandomizedSearchOptions struct {
	SearchSpace    RawSearchSpace
	BaseOptions    map[string]any
	SplitParams    SplitParams
	CVParams       CVParams
	Data           TrainingData
	Trainer        Trainer
	CV             CVRunner
	Quantizer      Quantizer
	Splitter       Splitter
	OptionsBuilder OptionsBuilder
	Metrics        MetricCatalog
	PrimaryMetric  string
	Registry       GeneratorRegistry
	NumTries       int
	Seed           int64
	Run            RunConfig
	Logger         *slog.Logger
}

// GridSearch exhaustively evaluates every grid in opts.SearchSpace, in
// order, and returns the options of the single best candidate across
// all of them.
func GridSearch(ctx context.Context, opts GridSearchOptions) (*BestOptionValues, error) {
	common := searchOptions{
		Grids:          opts.SearchSpace,
		BaseOptions:    opts.BaseOptions,
		SplitParams:    opts.SplitParams,
		CVParams:       opts.CVParams,
		Data:           opts.Data,
		Trainer:        opts.Trainer,
		CV:             opts.CV,
		Quantizer:      opts.Quantizer,
		Splitter:       opts.Splitter,
		OptionsBuilder: opts.OptionsBuilder,
		Metrics:        opts.Metrics,
		PrimaryMetric:  opts.PrimaryMetric,
		Registry:       opts.Registry,
		Run:            opts.Run,
		Logger:         opts.Logger,
	}
	return run(ctx, common, func(enum *MixedRadixEnumerator) (Iterator, error) {
		return NewExhaustiveIterator(enum), nil
	})
}

// RandomizedSearch samples opts.NumTries candidates from a single grid
// and returns the options of the best one.
func RandomizedSearch(ctx context.Context, opts RandomizedSearchOptions) (*BestOptionValues, error) {
	if opts.NumTries <= 0 {
		return nil, SearchConfigf("num_tries must be positive, got %d", opts.NumTries)
	}
	common := searchOptions{
		Grids:          []RawSearchSpace{opts.SearchSpace},
		BaseOptions:    opts.BaseOptions,
		SplitParams:    opts.SplitParams,
		CVParams:       opts.CVParams,
		Data:           opts.Data,
		Trainer:        opts.Trainer,
		CV:             opts.CV,
		Quantizer:      opts.Quantizer,
		Splitter:       opts.Splitter,
		OptionsBuilder: opts.OptionsBuilder,
		Metrics:        opts.Metrics,
		PrimaryMetric:  opts.PrimaryMetric,
		Registry:       opts.Registry,
		Run:            opts.Run,
		Logger:         opts.Logger,
	}
	allowRepeat := len(opts.Registry) > 0
	return run(ctx, common, func(enum *MixedRadixEnumerator) (Iterator, error) {
		return NewSampledIterator(enum, opts.NumTries, allowRepeat, opts.Seed)
	})
}

// run carries out the grid-independent parts of a search: validation,
// logging setup, the registry, and the best-of-grids comparison. Each
// grid's Iterator is built from its enumerator by newIter, which is the
// only thing that differs between GridSearch and RandomizedSearch.
func run(ctx context.Context, opts searchOptions, newIter func(*MixedRadixEnumerator) (Iterator, error)) (*BestOptionValues, error) {
	if err := runValidate.ValidateStruct(opts.Run); err != nil {
		return nil, SearchConfigf("invalid run configuration: %v", err)
	}
	if err := runValidate.ValidateStruct(opts.SplitParams); err != nil {
		return nil, SearchConfigf("invalid split parameters: %v", err)
	}
	if err := runValidate.ValidateStruct(opts.CVParams); err != nil {
		return nil, SearchConfigf("invalid cross-validation parameters: %v", err)
	}
	if len(opts.Grids) == 0 {
		return nil, SearchConfigf("no search space grids supplied")
	}
	if snapshot, ok := opts.BaseOptions["save_snapshot"].(bool); ok && snapshot {
		return nil, SearchConfigf("base options enable snapshots, which the search driver does not support")
	}

	runID := uuid.New().String()

	log := opts.Logger
	if log == nil {
		log = logger.L()
	}
	log = log.With(slog.String("run_id", runID))
	// Per-candidate verbose lines carry materialized option values
	// straight from the caller's search space; route them through
	// RedactHandler so an option value that happens to look like a
	// secret (token/password/api_key/... by key name, or an email/card
	// pattern by content) never reaches the log sink verbatim.
	candidateLog := slog.New(logger.NewRedactHandler(log.Handler()))

	direction, err := opts.Metrics.BestValueKind(opts.PrimaryMetric)
	if err != nil {
		return nil, SearchConfigf("resolving direction of metric %q: %v", opts.PrimaryMetric, err)
	}
	sign, err := direction.Sign()
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(opts.Registry)

	cache := newQuantizationCache(opts.Quantizer, opts.Splitter, opts.Run.UseTrainTest)

	var globalBest *CandidateResult
	var globalBestSigned float64
	var globalAxes QuantizationAxesPresence
	var globalGrid int
	candidateIndex := 0

	for gridIdx, raw := range opts.Grids {
		parsed, err := ParseSpace(raw, opts.BaseOptions, registry)
		if err != nil {
			return nil, err
		}

		enum, err := NewMixedRadixEnumerator(parsed.Sets)
		if err != nil {
			return nil, err
		}
		iter, err := newIter(enum)
		if err != nil {
			return nil, err
		}

		evaluator := newCandidateEvaluator(
			opts.Trainer, opts.CV, opts.OptionsBuilder, cache, registry,
			parsed.OtherNames, opts.BaseOptions, opts.Run.UseTrainTest,
			opts.SplitParams, opts.CVParams, opts.Run.NumThreads, opts.Data,
			sign, opts.Run.Verbose, candidateLog,
		)

		log.InfoContext(ctx, "search grid starting", slog.Int("grid_index", gridIdx), slog.Uint64("total_candidates", iter.Total()))

		for {
			tuple, ok, err := iter.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			if _, err := evaluator.Evaluate(ctx, candidateIndex, tuple); err != nil {
				return nil, err
			}
			candidateIndex++
		}

		if evaluator.best != nil && (globalBest == nil || sign*evaluator.best.Metric < sign*globalBestSigned) {
			globalBest = evaluator.best
			globalBestSigned = evaluator.best.Metric
			globalAxes = parsed.Axes
			globalGrid = gridIdx
		}
	}

	if globalBest == nil {
		return nil, SearchInternalf("search completed with no candidates evaluated")
	}

	cvTrace := globalBest.CVTrace
	if opts.Run.ReturnCVStats && opts.Run.UseTrainTest {
		cvTrace, err = opts.CV.Run(ctx, globalBest.Options, globalBest.Handle, opts.CVParams, opts.Run.NumThreads)
		if err != nil {
			return nil, SearchTrainerf(err, "final cross-validation pass on best candidate failed")
		}
	}

	return &BestOptionValues{
		OptionsTree: globalBest.Options,
		RunID:       runID,
		GridIndex:   globalGrid,
		Axes:        globalAxes,
		CVTrace:     cvTrace,
		BestMetric:  globalBest.Metric,
	}, nil
}
