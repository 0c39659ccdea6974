package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures of the generation pipeline.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "invalid_input"
	KindNoStructuredOutput   ErrorKind = "no_structured_output"
	KindMalformedOutput      ErrorKind = "malformed_output"
	KindInvalidStructure     ErrorKind = "invalid_structure"
	KindTransportFailure     ErrorKind = "transport_failure"
	KindIndexOutOfRange      ErrorKind = "index_out_of_range"
	KindConfigurationMissing ErrorKind = "configuration_missing"
)

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrNoStructuredOutput   = &Error{Kind: KindNoStructuredOutput}
	ErrMalformedOutput      = &Error{Kind: KindMalformedOutput}
	ErrInvalidStructure     = &Error{Kind: KindInvalidStructure}
	ErrTransportFailure     = &Error{Kind: KindTransportFailure}
	ErrIndexOutOfRange      = &Error{Kind: KindIndexOutOfRange}
	ErrConfigurationMissing = &Error{Kind: KindConfigurationMissing}
)

// User-safe messages returned by the generation endpoint.
const (
	MsgInvalidInput = "Invalid input: Missing required fields"
	MsgParseFailure = "Failed to parse the AI response. Please try again."
	MsgUnexpected   = "An unexpected error occurred. Please try again."
)

// Error is a typed pipeline error.
type Error struct {
	Kind ErrorKind
	Op   string // Pipeline step that failed
	Err  error
}

// NewError wraps err with a kind and operation.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// PublicError maps err to the message and HTTP status shown to callers.
// Internal detail never leaves this function.
func PublicError(err error) (string, int) {
	switch KindOf(err) {
	case KindInvalidInput:
		return MsgInvalidInput, http.StatusBadRequest
	case KindNoStructuredOutput, KindMalformedOutput, KindInvalidStructure:
		return MsgParseFailure, http.StatusInternalServerError
	default:
		return MsgUnexpected, http.StatusInternalServerError
	}
}
