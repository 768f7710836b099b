package dfa

import "fmt"

// ActionKind identifies the kind of an accepting action.
type ActionKind uint8

const (
	// ActionNone means no match.
	ActionNone ActionKind = iota

	// ActionLegacy is a bare numeric action id.
	ActionLegacy

	// ActionNamed is a named token class.
	ActionNamed
)

// String returns a human-readable representation of the ActionKind
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "None"
	case ActionLegacy:
		return "Legacy"
	case ActionNamed:
		return "Named"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Action is the outcome of reaching an accepting state.
type Action struct {
	Kind ActionKind

	// ID is the legacy action id (ActionLegacy only).
	ID uint32

	// Class is the token class name (ActionNamed only).
	Class string

	// Rule is the declaration index of the rule that produced the action.
	Rule int
}

// String returns a human-readable representation of the action
func (a Action) String() string {
	switch a.Kind {
	case ActionLegacy:
		return fmt.Sprintf("Legacy(%d, rule %d)", a.ID, a.Rule)
	case ActionNamed:
		return fmt.Sprintf("%%%s(rule %d)", a.Class, a.Rule)
	default:
		return "None"
	}
}

// NoAction marks the end of an action chain.
const NoAction = -1

// ActionEntry is one link of a state's legacy action chain. Entries live in
// a graph-wide arena; Next is the arena index of the following entry or
// NoAction.
type ActionEntry struct {
	ID   uint32
	Rule int
	Next int
}
