package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/lexdfa/charset"
	"github.com/coregx/lexdfa/syntax"
)

// StateID uniquely identifies an NFA state.
// IDs are assigned in allocation order and double as the state's identity
// for legacy actions and for state-set ordering.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// LabelKind identifies how an arc tests the input character.
type LabelKind uint8

const (
	// LabelChar matches exactly one character.
	LabelChar LabelKind = iota + 1

	// LabelFold matches a character under simple case folding.
	LabelFold

	// LabelPredicate delegates to a Predicate (categories and sets).
	LabelPredicate
)

// String returns a human-readable representation of the LabelKind
func (k LabelKind) String() string {
	switch k {
	case LabelChar:
		return "Char"
	case LabelFold:
		return "Fold"
	case LabelPredicate:
		return "Predicate"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Predicate is a single-character test. *syntax.Node implements it for
// category and set nodes.
type Predicate interface {
	Matches(r rune) bool
}

// Label is the character test of a labeled arc.
type Label struct {
	Kind LabelKind
	Char rune      // LabelChar, LabelFold
	Pred Predicate // LabelPredicate
}

// Matches reports whether the label accepts the raw character r.
func (l Label) Matches(r rune) bool {
	switch l.Kind {
	case LabelChar:
		return l.Char == r
	case LabelFold:
		return syntax.FoldEqual(l.Char, r)
	case LabelPredicate:
		return l.Pred != nil && l.Pred.Matches(r)
	default:
		return false
	}
}

// MatchesClass reports whether the label accepts the class whose canonical
// character is rep. Character labels compare canonical forms, so a host
// table that merges a literal character with others merges its transition
// too; predicates are evaluated on the representative.
func (l Label) MatchesClass(rep rune, c charset.Canonicalizer) bool {
	switch l.Kind {
	case LabelChar:
		return c.Canonical(l.Char) == rep
	case LabelFold:
		for _, f := range syntax.FoldOrbit(l.Char) {
			if c.Canonical(f) == rep {
				return true
			}
		}
		return false
	case LabelPredicate:
		return l.Pred != nil && l.Pred.Matches(rep)
	default:
		return false
	}
}

// String returns a human-readable representation of the label
func (l Label) String() string {
	switch l.Kind {
	case LabelChar:
		return fmt.Sprintf("%q", l.Char)
	case LabelFold:
		return fmt.Sprintf("U%q", l.Char)
	case LabelPredicate:
		if s, ok := l.Pred.(fmt.Stringer); ok {
			return s.String()
		}
		return "<pred>"
	default:
		return "<invalid>"
	}
}

// Arc is a labeled transition.
type Arc struct {
	Label Label
	Next  StateID
}

// State represents a single NFA state: labeled arcs, epsilon arcs and an
// optional terminal marker.
type State struct {
	id      StateID
	arcs    []Arc
	epsilon []StateID
	marker  Marker
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Arcs returns the labeled outgoing arcs.
func (s *State) Arcs() []Arc {
	return s.arcs
}

// Epsilons returns the targets of the unlabeled outgoing arcs.
func (s *State) Epsilons() []StateID {
	return s.epsilon
}

// Marker returns the terminal marker; Kind is MarkerNone for states that
// do not accept.
func (s *State) Marker() Marker {
	return s.marker
}

// IsMatch returns true if the state carries a terminal marker
func (s *State) IsMatch() bool {
	return s.marker.Kind != MarkerNone
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State(%d", s.id)
	for _, a := range s.arcs {
		fmt.Fprintf(&b, ", %s -> %d", a.Label, a.Next)
	}
	for _, e := range s.epsilon {
		fmt.Fprintf(&b, ", eps -> %d", e)
	}
	if s.IsMatch() {
		fmt.Fprintf(&b, ", %s", s.marker)
	}
	b.WriteByte(')')
	return b.String()
}

// NFA is a Thompson NFA holding one fragment per lexical rule, all reachable
// from a combined start state.
type NFA struct {
	// states contains all NFA states indexed by StateID
	states []State

	// start has an epsilon arc to the start of every rule fragment.
	start StateID

	// rules holds each rule's fragment in declaration order.
	rules []Fragment
}

// Start returns the combined start state.
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// Rules returns the rule fragments in declaration order.
func (n *NFA) Rules() []Fragment {
	return n.rules
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, rules: %d}", len(n.states), n.start, len(n.rules))
}

// Dump returns one line per state, for debugging.
func (n *NFA) Dump() string {
	var b strings.Builder
	for i := range n.states {
		b.WriteString(n.states[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}
