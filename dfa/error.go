// Package dfa converts a Thompson NFA into a DFA by subset construction and
// matches input against the result.
//
// Every DFA state stands for a canonical (sorted, deduplicated) set of NFA
// states. Transitions are keyed by canonical characters supplied by a
// charset.Alphabet, so characters the rules never distinguish share one
// transition. Accepting states carry the action of the rule that wins under
// nfa.Marker.Precedes.
//
// A constructed DFA is immutable. Matching only reads it, so one DFA may be
// shared by any number of goroutines.
package dfa

import "fmt"

// ErrStateLimitExceeded indicates that construction created more states
// than Config.MaxStates allows.
var ErrStateLimitExceeded = &Error{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrInvariantViolation indicates a malformed graph: two states for the same
// NFA set, or a reference with no corresponding state or action. It should
// never occur for a constructed DFA; a decoder reports it for corrupt input.
var ErrInvariantViolation = &Error{
	Kind:    InvariantViolation,
	Message: "DFA graph invariant violated",
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
var ErrInvalidConfig = &Error{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrorKind classifies DFA errors into categories
type ErrorKind uint8

const (
	// StateLimitExceeded indicates too many states were created
	StateLimitExceeded ErrorKind = iota

	// InvariantViolation indicates an inconsistent graph
	InvariantViolation

	// InvalidConfig indicates configuration validation failed
	InvalidConfig
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case InvariantViolation:
		return "InvariantViolation"
	case InvalidConfig:
		return "InvalidConfig"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error represents an error that occurred during DFA construction or decoding
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func invariant(format string, args ...any) *Error {
	return &Error{Kind: InvariantViolation, Message: fmt.Sprintf(format, args...)}
}
