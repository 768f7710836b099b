// Package charset provides the character-category service used by the lexer
// compiler.
//
// The compiler never branches on raw characters. Every rule registers the
// characters, ranges and named categories it uses with a Table, and the Table
// partitions the 16-bit character space into equivalence classes: two
// characters share a class when no registered predicate can tell them apart.
// The DFA then only needs one transition per class, keyed by the class
// representative (the canonical character).
package charset

import "unicode"

// MaxChar is the largest character the compiler understands.
// Rules and input are limited to 16-bit code units.
const MaxChar rune = 0xFFFF

// ClassID identifies an equivalence class of characters.
type ClassID uint32

// Canonicalizer maps an input character to the representative character
// used as a DFA transition key.
type Canonicalizer interface {
	Canonical(r rune) rune
}

// Alphabet is a Canonicalizer that can enumerate its classes.
type Alphabet interface {
	Canonicalizer

	// Representatives returns one canonical character per class, ascending.
	Representatives() []rune
}

// Table is the host character-category service.
//
// The Register methods are called while rules are compiled; Classify,
// Canonical and Representatives are only meaningful once every rule of a
// rule set has been registered.
type Table interface {
	Alphabet

	// Classify returns the equivalence class of r.
	Classify(r rune) ClassID

	// HasCategory reports whether name is a known named category.
	HasCategory(name string) bool

	// InCategory reports whether r belongs to the named category.
	// Unknown categories contain nothing.
	InCategory(name string, r rune) bool

	// RegisterUsed records a character that appears literally in a rule.
	RegisterUsed(r rune)

	// RegisterRange records an inclusive range tested by a rule.
	RegisterRange(lo, hi rune)

	// RegisterCategory records a named category tested by a rule.
	RegisterCategory(name string)
}

// clamp maps characters outside the supported range onto the replacement
// character.
func clamp(r rune) rune {
	if r < 0 || r > MaxChar {
		return unicode.ReplacementChar
	}
	return r
}
