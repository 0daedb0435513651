package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleResult is returned when a filtering call finishes after a
	// newer one was issued for the same view. Its result is discarded.
	ErrStaleResult = errors.New("result superseded by a newer request")
	// ErrViewInactive is returned when a result arrives for a view that is
	// no longer the active one.
	ErrViewInactive = errors.New("view is not active")
	// ErrViewNotReady is returned by operations that need a view to be
	// opened first.
	ErrViewNotReady = errors.New("view is not ready")
	// ErrNoFilterer is returned by gateways that cannot filter records.
	ErrNoFilterer = errors.New("no filterer configured")
	// ErrNotFound is returned when there is no saved configuration for a
	// view.
	ErrNotFound = errors.New("not found")
	// ErrTargetNil is returned when a nil target is given to a decoder.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when a non-pointer target is given to a
	// decoder.
	ErrNonPointer = errors.New("target is not a pointer")
)

// ErrTransport is a failure talking to the remote gateway. These errors are
// recoverable by retrying the operation.
type ErrTransport struct {
	Op   string
	View string
	Err  error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.View, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrHTTPStatus is wrapped by [ErrTransport] when the gateway answers with a
// non successful status code.
type ErrHTTPStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrHTTPStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ErrDecode is a URL parameter that could not be decoded. It is never fatal:
// the parameter is treated as absent.
type ErrDecode struct {
	Param string
	Value string
	Err   error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode parameter %q: %s", e.Param, e.Err)
}

func (e *ErrDecode) Unwrap() error { return e.Err }

// ErrValidation describes a condition that is not fully specified. Such
// conditions make their group non-effective instead of being rejected.
type ErrValidation struct {
	Condition Condition
	Reason    string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid condition on field %q (%s): %s", e.Condition.Field, e.Condition.Operator, e.Reason)
}
