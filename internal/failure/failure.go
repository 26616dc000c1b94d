// Package failure defines the two error kinds surfaced by expectations.
//
// An AssertionError means an expectation did not hold. It is routine: the
// negation layer converts it into a passing outcome. A UsageError means the
// expectation itself was built incorrectly (for example negating an
// assertion that has no well-defined negation). Usage errors are never
// converted into outcomes and always reach the caller.
//
// Both types unwrap to a sentinel so callers match them with errors.Is:
//
//	if errors.Is(err, failure.ErrAssertion) { ... }
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching.
var (
	ErrAssertion = errors.New("assertion failed")
	ErrUsage     = errors.New("invalid expectation")
)

// AssertionError reports an expectation that did not hold.
type AssertionError struct {
	Message string
}

// Assertionf builds an AssertionError from a format string.
func Assertionf(format string, args ...any) *AssertionError {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	if e == nil || e.Message == "" {
		return ErrAssertion.Error()
	}
	return e.Message
}

// Unwrap returns ErrAssertion.
func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}

// UsageError reports an expectation chain that cannot be evaluated.
//
// Methods names the chain that triggered it, e.g. ["Not", "ToOnlyDependOn"].
type UsageError struct {
	Methods []string
	Reason  string
}

// InvalidMethods builds a UsageError for an incompatible method chain.
func InvalidMethods(methods ...string) *UsageError {
	return &UsageError{Methods: methods}
}

// Usagef builds a UsageError that is not tied to a method chain.
func Usagef(format string, args ...any) *UsageError {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e == nil {
		return ErrUsage.Error()
	}
	if len(e.Methods) > 0 {
		return fmt.Sprintf("expectation [%s] is not valid", strings.Join(e.Methods, "."))
	}
	if e.Reason != "" {
		return ErrUsage.Error() + ": " + e.Reason
	}
	return ErrUsage.Error()
}

// Unwrap returns ErrUsage.
func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// IsAssertion reports whether err is (or wraps) an assertion failure.
func IsAssertion(err error) bool {
	return errors.Is(err, ErrAssertion)
}

// IsUsage reports whether err is (or wraps) a usage error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}
