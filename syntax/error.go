// Package syntax parses lexical rule text into a regex AST.
//
// The rule language is deliberately small: quoted literals ('if', "then"),
// case-insensitive literals (U'select'), bracket sets ([a-z], [^\n]),
// escapes (\n, \t, \r, \NNN octal, \c), named categories and macros
// ({Letter}, {digit}), grouping, alternation and the ?, * and + postfix
// operators. Any other character stands for itself.
package syntax

import (
	"errors"
	"fmt"
)

// ErrTooComplex indicates that groups or macro expansions are nested deeper
// than Config.MaxDepth.
var ErrTooComplex = errors.New("pattern too complex")

// MalformedPatternError reports an unterminated quote, bracket, group or
// macro brace, or a literal character above charset.MaxChar.
type MalformedPatternError struct {
	// Text is the text being parsed: the rule pattern, or the body of the
	// macro in which the error occurred.
	Text string

	// Offset is the byte offset in Text of the opening delimiter, or of the
	// literal holding the rejected character.
	Offset int

	// Reason describes what is wrong.
	Reason string
}

// Error implements the error interface
func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q at offset %d: %s", e.Text, e.Offset, e.Reason)
}

// UnresolvedMacroError reports a {name} reference that is neither a macro
// nor a known character category.
type UnresolvedMacroError struct {
	Name string
}

// Error implements the error interface
func (e *UnresolvedMacroError) Error() string {
	return fmt.Sprintf("unresolved macro or category {%s}", e.Name)
}

// MacroCycleError reports a macro that expands into itself.
type MacroCycleError struct {
	// Name is the macro that was re-entered.
	Name string

	// Chain is the expansion stack, outermost first.
	Chain []string
}

// Error implements the error interface
func (e *MacroCycleError) Error() string {
	return fmt.Sprintf("macro {%s} expands into itself via %v", e.Name, e.Chain)
}
