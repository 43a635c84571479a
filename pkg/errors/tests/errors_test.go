package errors_test

import (
	"errors"
	"testing"

	appErrors "github.com/i-spark/catboost/pkg/errors"
	"github.com/i-spark/catboost/pkg/test"
)

type ErrorsSuite struct {
	*test.Suite
}

func TestErrorsSuite(t *testing.T) {
	test.Run(t, &ErrorsSuite{Suite: test.NewSuite()})
}

func (s *ErrorsSuite) TestMoreHelpers() {
	err := errors.New("oops")

	unauth := appErrors.Unauthorized("Unauth", err)
	s.Equal(appErrors.CodeUnauthorized, unauth.Code)

	forbidden := appErrors.Forbidden("Forbidden", err)
	s.Equal(appErrors.CodeForbidden, forbidden.Code)

	conflict := appErrors.Conflict("Conflict", err)
	s.Equal(appErrors.CodeConflict, conflict.Code)

	internal := appErrors.Internal("Internal", err)
	s.Equal(appErrors.CodeInternal, internal.Code)
}

func (s *ErrorsSuite) TestWrap() {
	original := errors.New("root cause")
	wrapped := appErrors.Wrap(original, "context")

	s.Contains(wrapped.Error(), "context: root cause")
	s.Equal(original, errors.Unwrap(wrapped))
}

func (s *ErrorsSuite) TestSearchErrorChain() {
	root := errors.New("quantizer rejected NaN mode")
	wrapped := appErrors.SearchConfig("bad nan_mode", root)

	var appErr *appErrors.AppError
	s.True(errors.As(wrapped, &appErr))
	s.Equal(appErrors.CodeSearchConfig, appErr.Code)
	s.Equal(root, errors.Unwrap(wrapped))
}
