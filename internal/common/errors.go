// Package common provides shared utilities used across all features
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmationTimeout means submission succeeded but finality was not
	// observed within the budget. The transaction may still land later; this
	// is reported distinctly from a failed submission.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")

	ErrNonceNotCached = errors.New("nonce account not cached, call Refresh first")
	ErrNonceInUse     = errors.New("nonce account is held by a concurrent trade")
	ErrUnknownTier    = errors.New("unknown gas fee tier")
)

// ValidationError is a malformed request detected before any network I/O.
// It is always surfaced to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MiddlewareError carries the identity of the middleware that rejected the
// instruction list. The pipeline aborts with no partial application visible.
type MiddlewareError struct {
	Middleware string
	Err        error
}

func (e *MiddlewareError) Error() string {
	return fmt.Sprintf("middleware %q rejected instructions: %v", e.Middleware, e.Err)
}

func (e *MiddlewareError) Unwrap() error { return e.Err }

// SubmitErrorKind classifies a single relay submission failure.
type SubmitErrorKind uint8

const (
	SubmitTimeout SubmitErrorKind = iota
	SubmitRejected
	SubmitConnectionFailure
)

func (k SubmitErrorKind) String() string {
	switch k {
	case SubmitTimeout:
		return "timeout"
	case SubmitRejected:
		return "rejected"
	case SubmitConnectionFailure:
		return "connection_failure"
	default:
		return "unknown"
	}
}

// SubmitError is one relay's failure. Collected into AggregateError by the
// executor; never individually fatal while another relay is still racing.
type SubmitError struct {
	Relay  string
	Kind   SubmitErrorKind
	Reason string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("relay %s %s: %s", e.Relay, e.Kind, e.Reason)
	}
	return fmt.Sprintf("relay %s %s: %v", e.Relay, e.Kind, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// AggregateError means every relay in the set failed. Failures preserve the
// original submission order; this is the executor's only terminal failure.
type AggregateError struct {
	Failures []*SubmitError
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("all %d relays failed, first: %v", len(e.Failures), e.Failures[0])
}
