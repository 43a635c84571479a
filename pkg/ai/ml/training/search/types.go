package search

import "context"

// RandomRefSentinel is the reserved string prefix that marks a search-space
// value as a deferred-random placeholder instead of a concrete scalar.
const RandomRefSentinel = "CustomRandomDistributionGenerator"

// RandomRef is a search-space value that defers to a user-registered
// generator at evaluation time instead of carrying a concrete scalar. The
// full sentinel string is the registry lookup key.
type RandomRef string

// Value is one entry of a search-space axis: a bool, int64, float64,
// string, or a RandomRef. encoding/json decodes plain JSON into these
// shapes; ParseSpace normalizes and validates them.
type Value any

// CandidateTuple is the ordered coordinate set handed to one candidate
// evaluation: [bin_count, border_type, nan_mode, other_1, ..., other_M].
type CandidateTuple []Value

// MetricDirection is the "best value kind" a metric declares for itself.
type MetricDirection int

const (
	DirectionUnknown MetricDirection = iota
	DirectionMin
	DirectionMax
)

// Sign returns +1 for Min, -1 for Max. Comparison rule (§4.G): candidate A
// beats candidate B iff Sign*metric(A) < Sign*metric(B).
func (d MetricDirection) Sign() (float64, error) {
	switch d {
	case DirectionMin:
		return 1, nil
	case DirectionMax:
		return -1, nil
	default:
		return 0, SearchConfigf("metric direction %v is neither Min nor Max", d)
	}
}

// QuantizationAxesPresence records, per quantization axis, whether it was
// actually present in the grid and under which alias, so callers can tell
// a grid-supplied value from one defaulted out of the base options.
type QuantizationAxesPresence struct {
	BinCountInGrid   bool
	BinCountAlias    string
	BorderTypeInGrid bool
	BorderTypeAlias  string
	NanModeInGrid    bool
	NanModeAlias     string
}

// QuantizationOptions is the binarization configuration handed to the
// external Quantizer for one candidate's quantization triple.
type QuantizationOptions struct {
	BinCount   int64
	BorderType string
	NanMode    string
}

// QuantizedFeaturesHandle is opaque to the core; only the Quantizer,
// Splitter, Trainer and CVRunner collaborators know its concrete shape.
type QuantizedFeaturesHandle any

// TrainingData is opaque to the core; handed through unchanged to the
// Quantizer.
type TrainingData any

// SplitData is the opaque train/test split produced by the Splitter,
// reused across candidates whose quantization triple didn't change.
type SplitData struct {
	Handle QuantizedFeaturesHandle
}

// SplitParams configures the train/test splitter.
type SplitParams struct {
	PartitionRandSeed int64   `validate:"gte=0"`
	TrainRatio        float64 `validate:"gt=0,lt=1"`
}

// CVParams configures the cross-validation runner.
type CVParams struct {
	FoldCount         int   `validate:"gt=0"`
	PartitionRandSeed int64 `validate:"gte=0"`
	Shuffle           bool
}

// TrainResult is what the Trainer reports back for one train/test run.
type TrainResult struct {
	// TestBestError is the primary metric's best value over training
	// iterations on the test side (§4.G, train/test mode).
	TestBestError float64
}

// CVFoldResult is one fold's trajectory from the CVRunner.
type CVFoldResult struct {
	// AverageTest is the fold-averaged test-metric trajectory for the
	// primary metric, one entry per training iteration.
	AverageTest []float64
}

// OptionsTree is the trainer's typed options tree, as produced by the
// external OptionsBuilder from a flat option map. It also backs
// BestOptionValues: the five typed maps a caller reads the winning
// candidate's options from.
type OptionsTree interface {
	BoolValues() map[string]bool
	IntValues() map[string]int64
	UintValues() map[string]uint64
	DoubleValues() map[string]float64
	StringValues() map[string]string
}

// OptionsBuilder converts a flat option map (names to scalars) into the
// trainer's typed options tree. Out of scope per spec §1; consumed here
// only through this interface.
type OptionsBuilder interface {
	Materialize(flat map[string]any) (OptionsTree, error)
}

// MetricCatalog answers which direction (Min/Max) a metric name optimizes
// toward. Out of scope per spec §1; consumed here only through this
// interface.
type MetricCatalog interface {
	BestValueKind(metricName string) (MetricDirection, error)
}

// Quantizer re-quantizes raw training data into binned form under the
// given binarization options. Out of scope per spec §1.
type Quantizer interface {
	Quantize(ctx context.Context, data TrainingData, opts QuantizationOptions) (QuantizedFeaturesHandle, error)
}

// Splitter partitions quantized data into a train/test split. Out of
// scope per spec §1; only exercised in train/test evaluation mode.
type Splitter interface {
	Split(ctx context.Context, handle QuantizedFeaturesHandle, params SplitParams) (*SplitData, error)
}

// Trainer drives one train/test gradient-boosting run. Out of scope per
// spec §1.
type Trainer interface {
	Train(ctx context.Context, opts OptionsTree, split *SplitData, numThreads int) (TrainResult, error)
}

// CVRunner drives one cross-validation run over quantized data. Out of
// scope per spec §1.
type CVRunner interface {
	Run(ctx context.Context, opts OptionsTree, handle QuantizedFeaturesHandle, params CVParams, numThreads int) ([]CVFoldResult, error)
}

// CandidateResult is what one candidate evaluation produces: the metric,
// whether it became the new best-so-far, its materialized options, and
// the quantized-features handle used to produce it (kept so the driver
// can run a final CV pass on the winner without re-quantizing).
type CandidateResult struct {
	Index      int
	Metric     float64
	BestSoFar  bool
	Options    OptionsTree
	Handle     QuantizedFeaturesHandle
	CVTrace    []CVFoldResult
	Tuple      CandidateTuple
}

// BestOptionValues is the public result of a search: the typed option
// maps for the winning candidate, plus bookkeeping a caller needs to
// interpret them.
type BestOptionValues struct {
	OptionsTree
	RunID      string
	GridIndex  int
	Axes       QuantizationAxesPresence
	CVTrace    []CVFoldResult
	BestMetric float64
}

// RawSearchSpace is the JSON-decoded shape of a single grid: a map from
// parameter name to its ordered, non-empty list of candidate values.
type RawSearchSpace map[string][]Value
