// Package apperr defines the structured errors the service layer returns to
// handlers. Every mutating operation either succeeds or yields an *Error with
// a machine-readable Kind, so handlers can always render a specific message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the HTTP layer and for retry policy.
type Kind string

const (
	// Validation: missing or malformed caller input. Never retried.
	Validation Kind = "validation"

	// NotFound: the referenced account, issue or stake does not exist.
	NotFound Kind = "not_found"

	// InsufficientResources: coin balance too low. No partial debit occurs.
	InsufficientResources Kind = "insufficient_resources"

	// UpstreamUnavailable: GitHub or the account store transiently failing.
	// Retried by the caller or infrastructure, not by the core.
	UpstreamUnavailable Kind = "upstream_unavailable"

	// Conflict: a duplicate settlement attempt, a lost cache-refresh race,
	// or a detected half-applied settlement needing reconciliation.
	Conflict Kind = "conflict"
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new *Error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
