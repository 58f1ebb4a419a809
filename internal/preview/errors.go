package preview

import (
	"errors"
	"fmt"

	"github.com/JakeFAU/linkpreview/internal/resolver"
)

// Kind classifies a request-level failure.
type Kind string

// Failure kinds surfaced to callers.
const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindFetchFailure Kind = "fetch_failure"
	KindParseFailure Kind = "parse_failure"
)

// Causes that callers can match with errors.Is.
var (
	ErrMissingURL     = errors.New("url is required")
	ErrNotAbsolute    = resolver.ErrNotAbsolute
	ErrUpstreamStatus = errors.New("upstream returned a non-success status")
)

// Error carries a failure kind alongside the underlying cause.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func newError(kind Kind, rawURL string, err error) *Error {
	return &Error{Kind: kind, URL: rawURL, Err: err}
}
