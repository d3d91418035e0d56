package sos

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField marks a response that lacks a key the flattening expects.
	ErrMissingField = errors.New("missing field")
	// ErrNotAvailable marks a filter value absent from the data-availability index.
	ErrNotAvailable = errors.New("not available")
	// ErrInvalidTimestamp marks a time value that is not ISO-8601.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrDecode marks a response body that is not valid JSON.
	ErrDecode = errors.New("decode response")
	// ErrMissingArgument marks a call without one of its mandatory arguments.
	ErrMissingArgument = errors.New("missing argument")
)

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}

// ValidationError reports a filter argument rejected against the
// data-availability index.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s does not exist", e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrNotAvailable
}

// TransportError carries a failed exchange with the service: either the
// request never completed (Err is set) or it returned a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status %s from %s", e.Status, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
