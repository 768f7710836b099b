package dfa

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/coregx/lexdfa/nfa"
)

// StateID uniquely identifies a DFA state. IDs are assigned in discovery
// order; the start state is always 0 in a constructed DFA.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Transition is one entry of a state's transition table.
type Transition struct {
	// Char is the canonical character of the class.
	Char rune
	Next StateID
}

// State represents a DFA state.
type State struct {
	id StateID

	// transitions is sorted by Char with no duplicates.
	transitions []Transition

	// action is the arena index of the legacy chain head, or NoAction.
	action int

	// class is the token class name; classRule is its rule index.
	class     string
	classRule int

	// nfaStates is the canonical NFA set. It only lives during construction.
	nfaStates []nfa.StateID
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Transitions returns the transition table sorted by canonical character.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// Next returns the successor for canonical character c.
func (s *State) Next(c rune) (StateID, bool) {
	i, ok := slices.BinarySearchFunc(s.transitions, c, func(t Transition, c rune) int {
		return int(t.Char) - int(c)
	})
	if !ok {
		return InvalidState, false
	}
	return s.transitions[i].Next, true
}

// Class returns the token class and its rule index, if the state has one.
func (s *State) Class() (string, int, bool) {
	if s.class == "" {
		return "", 0, false
	}
	return s.class, s.classRule, true
}

// IsMatch returns true if the state has a token class or a legacy action
func (s *State) IsMatch() bool {
	return s.class != "" || s.action != NoAction
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DFAState(id=%d", s.id)
	for _, t := range s.transitions {
		fmt.Fprintf(&b, ", %q -> %d", t.Char, t.Next)
	}
	if s.class != "" {
		fmt.Fprintf(&b, ", %%%s(rule %d)", s.class, s.classRule)
	}
	if s.action != NoAction {
		fmt.Fprintf(&b, ", chain@%d", s.action)
	}
	b.WriteByte(')')
	return b.String()
}

// StateKey identifies a DFA state by its NFA state set.
//
// Equal sets have equal keys; unequal sets may collide, so a key only selects
// a bucket that is then compared element-wise.
type StateKey uint64

// ComputeStateKey computes an FNV-1a key for a canonical (ascending) NFA set.
func ComputeStateKey(set []nfa.StateID) StateKey {
	if len(set) == 0 {
		return StateKey(0)
	}

	h := fnv.New64a()
	var buf [4]byte
	for _, sid := range set {
		buf[0] = byte(sid)
		buf[1] = byte(sid >> 8)
		buf[2] = byte(sid >> 16)
		buf[3] = byte(sid >> 24)
		// hash.Hash.Write never returns an error per documentation
		_, _ = h.Write(buf[:])
	}
	return StateKey(h.Sum64())
}

// stateIndex maps canonical NFA sets to DFA states.
type stateIndex struct {
	buckets map[StateKey][]StateID
}

func newStateIndex() *stateIndex {
	return &stateIndex{buckets: make(map[StateKey][]StateID)}
}

// lookup returns the state whose set equals set.
func (x *stateIndex) lookup(states []State, key StateKey, set []nfa.StateID) (StateID, bool) {
	for _, id := range x.buckets[key] {
		if slices.Equal(states[id].nfaStates, set) {
			return id, true
		}
	}
	return InvalidState, false
}

func (x *stateIndex) insert(key StateKey, id StateID) {
	x.buckets[key] = append(x.buckets[key], id)
}

// transitionsSorted reports whether ts is strictly ascending by Char.
func transitionsSorted(ts []Transition) bool {
	for i := 1; i < len(ts); i++ {
		if ts[i].Char <= ts[i-1].Char {
			return false
		}
	}
	return true
}
