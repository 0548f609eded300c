// Package apperr defines the error taxonomy shared by the dashboard,
// the ask command and the tool server.
//
// Every failure is recovered at the call site and rendered as text, so
// errors carry their user-facing message plus optional remediation
// suggestions instead of relying on wrapping chains for display.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes an error.
type Kind string

const (
	KindConfig     Kind = "config"     // missing credential or invalid setting
	KindConnection Kind = "connection" // Trino unreachable
	KindGeneration Kind = "generation" // LLM backend call failed
	KindTrino      Kind = "trino"      // engine-reported user/syntax error
	KindExecution  Kind = "execution"  // any other execution failure
	KindSafety     Kind = "safety"     // SELECT-only gate rejection
	KindInternal   Kind = "internal"
)

// Error is a categorized error with an optional cause and suggestions.
type Error struct {
	Kind        Kind
	Message     string
	Cause       error
	Suggestions []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithSuggestion appends a remediation hint.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Suggestions returns the remediation hints attached to err, if any.
func Suggestions(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Suggestions
	}
	return nil
}

// NotConfigured reports a backend whose credential is absent.
func NotConfigured(provider string) *Error {
	return Newf(KindConfig, "%s API key not configured", provider)
}

// Generation wraps a backend failure; the message is the cause verbatim.
func Generation(err error) *Error {
	return &Error{Kind: KindGeneration, Message: err.Error(), Cause: err}
}

// Trino wraps an engine-reported user error.
func Trino(err error) *Error {
	return &Error{Kind: KindTrino, Message: "Trino Error: " + err.Error(), Cause: err}
}

// Execution wraps any other execution failure.
func Execution(err error) *Error {
	return &Error{Kind: KindExecution, Message: "Execution Error: " + err.Error(), Cause: err}
}

// SelectOnly is returned by the tool server's SELECT gate. Each call
// builds a fresh error, so callers may attach suggestions.
func SelectOnly() *Error {
	return New(KindSafety, "Only SELECT queries are allowed")
}
