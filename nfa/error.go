// Package nfa builds Thompson NFAs from lexical rule ASTs.
//
// Each rule becomes one fragment (a start and an end state) whose end state
// carries the rule's terminal marker. All fragments hang off a combined start
// state, so one NFA describes the whole rule set and the DFA constructor can
// determinize every rule at once.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrNoRules indicates that an NFA was requested before any rule was added
	ErrNoRules = errors.New("NFA has no rules")
)

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}
