package nfa

import "fmt"

// MarkerKind identifies the kind of terminal marker.
type MarkerKind uint8

const (
	// MarkerNone means the state does not accept.
	MarkerNone MarkerKind = iota

	// MarkerLegacy is a bare numeric action: the ID of the marked state.
	MarkerLegacy

	// MarkerNamed is a named token class declared with %Name.
	MarkerNamed
)

// String returns a human-readable representation of the MarkerKind
func (k MarkerKind) String() string {
	switch k {
	case MarkerNone:
		return "None"
	case MarkerLegacy:
		return "Legacy"
	case MarkerNamed:
		return "Named"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Marker is the terminal marker of an accepting state.
type Marker struct {
	Kind MarkerKind

	// ID is the legacy action id: the identity of the marked state.
	ID StateID

	// Class is the token class name of a named marker.
	Class string

	// Rule is the zero-based declaration index of the originating rule.
	Rule int
}

// Legacy returns a legacy marker for state id of the given rule.
func Legacy(id StateID, rule int) Marker {
	return Marker{Kind: MarkerLegacy, ID: id, Rule: rule}
}

// Named returns a named-class marker for the given rule.
func Named(class string, rule int) Marker {
	return Marker{Kind: MarkerNamed, Class: class, Rule: rule, ID: InvalidState}
}

// Precedes reports whether m takes precedence over o. This is the one
// ordering used everywhere markers compete:
//
//   - any marker precedes MarkerNone;
//   - otherwise the marker of the earlier-declared rule (smaller Rule) precedes;
//   - for the same rule, a named marker precedes a legacy one.
func (m Marker) Precedes(o Marker) bool {
	switch {
	case m.Kind == MarkerNone:
		return false
	case o.Kind == MarkerNone:
		return true
	case m.Rule != o.Rule:
		return m.Rule < o.Rule
	default:
		return m.Kind == MarkerNamed && o.Kind == MarkerLegacy
	}
}

// String returns a human-readable representation of the marker
func (m Marker) String() string {
	switch m.Kind {
	case MarkerLegacy:
		return fmt.Sprintf("Legacy(%d, rule %d)", m.ID, m.Rule)
	case MarkerNamed:
		return fmt.Sprintf("Named(%%%s, rule %d)", m.Class, m.Rule)
	default:
		return "None"
	}
}
