package search

import (
	"fmt"

	apperrors "github.com/i-spark/catboost/pkg/errors"
)

// SearchConfigf wraps a formatted message as a ConfigError (malformed
// search space, bad run configuration, unknown value types, references
// to unregistered random distributions).
func SearchConfigf(format string, args ...any) error {
	return apperrors.SearchConfig(fmt.Sprintf(format, args...), nil)
}

// SearchDataf wraps a formatted message as a DataError, for failures
// propagated unchanged from the quantizer or splitter.
func SearchDataf(err error, format string, args ...any) error {
	return apperrors.SearchData(fmt.Sprintf(format, args...), err)
}

// SearchTrainerf wraps a formatted message as a TrainerError. The search
// aborts entirely on this error with no partial result (§4.G).
func SearchTrainerf(err error, format string, args ...any) error {
	return apperrors.SearchTrainer(fmt.Sprintf(format, args...), err)
}

// SearchInternalf wraps a formatted message as an InternalError: a core
// invariant was violated (wrong tuple arity, a resolved quantization
// coordinate of the wrong type). Indicates a bug in the core, not bad
// caller input.
func SearchInternalf(format string, args ...any) error {
	return apperrors.SearchInternal(fmt.Sprintf(format, args...), nil)
}
