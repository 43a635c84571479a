package errors

import (
	"errors"
	"fmt"
)

// Standard error codes
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"

	// Search-engine error codes. Distinct catchable categories for the
	// hyperparameter search driver; see pkg/ai/ml/training/search.
	CodeSearchConfig   = "SEARCH_CONFIG"
	CodeSearchData     = "SEARCH_DATA"
	CodeSearchTrainer  = "SEARCH_TRAINER"
	CodeSearchInternal = "SEARCH_INTERNAL"
)

// AppError is a custom error type that includes an error code, message, and underlying error.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors

func NotFound(msg string, err error) *AppError {
	if msg == "" {
		msg = "resource not found"
	}
	return New(CodeNotFound, msg, err)
}

func InvalidArgument(msg string, err error) *AppError {
	if msg == "" {
		msg = "invalid argument"
	}
	return New(CodeInvalidArgument, msg, err)
}

func Internal(msg string, err error) *AppError {
	if msg == "" {
		msg = "internal server error"
	}
	return New(CodeInternal, msg, err)
}

func Unauthorized(msg string, err error) *AppError {
	if msg == "" {
		msg = "unauthorized"
	}
	return New(CodeUnauthorized, msg, err)
}

func Forbidden(msg string, err error) *AppError {
	if msg == "" {
		msg = "forbidden"
	}
	return New(CodeForbidden, msg, err)
}

func Conflict(msg string, err error) *AppError {
	if msg == "" {
		msg = "conflict"
	}
	return New(CodeConflict, msg, err)
}

// SearchConfig wraps a malformed-search-space or configuration failure.
func SearchConfig(msg string, err error) *AppError {
	if msg == "" {
		msg = "invalid search configuration"
	}
	return New(CodeSearchConfig, msg, err)
}

// SearchData wraps a training-data precondition failure propagated
// unchanged from a collaborator (splitter, quantizer).
func SearchData(msg string, err error) *AppError {
	if msg == "" {
		msg = "invalid training data"
	}
	return New(CodeSearchData, msg, err)
}

// SearchTrainer wraps a failure raised by the trainer or CV runner.
// It aborts the entire search with no partial result.
func SearchTrainer(msg string, err error) *AppError {
	if msg == "" {
		msg = "trainer or cross-validation run failed"
	}
	return New(CodeSearchTrainer, msg, err)
}

// SearchInternal wraps an invariant violation inside the search core
// (e.g. a tuple of the wrong arity reaching the evaluator) — it
// indicates a bug in the core, not bad user input.
func SearchInternal(msg string, err error) *AppError {
	if msg == "" {
		msg = "internal search engine invariant violated"
	}
	return New(CodeSearchInternal, msg, err)
}

// Wrap is a utility to wrap an error with a message
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}
