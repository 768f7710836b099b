package dfa

import (
	"fmt"
	"strings"

	"github.com/coregx/lexdfa/charset"
)

// DFA is a deterministic automaton over canonical characters.
type DFA struct {
	states  []State
	actions []ActionEntry
	start   StateID

	// alphabet canonicalizes input characters. A decoded DFA has none until
	// SetAlphabet is called; input characters are then used as is.
	alphabet charset.Canonicalizer
}

// Start returns the start state.
func (d *DFA) Start() StateID {
	return d.start
}

// Len returns the number of states.
func (d *DFA) Len() int {
	return len(d.states)
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// Actions returns the legacy action arena.
func (d *DFA) Actions() []ActionEntry {
	return d.actions
}

// SetAlphabet sets the canonicalizer used by Transition and Match.
func (d *DFA) SetAlphabet(c charset.Canonicalizer) {
	d.alphabet = c
}

// Alphabet returns the canonicalizer, or nil.
func (d *DFA) Alphabet() charset.Canonicalizer {
	return d.alphabet
}

func (d *DFA) canonical(r rune) rune {
	if d.alphabet == nil {
		return r
	}
	return d.alphabet.Canonical(r)
}

// Transition returns the successor of s on the raw input character r.
func (d *DFA) Transition(s StateID, r rune) (StateID, bool) {
	st := d.State(s)
	if st == nil {
		return InvalidState, false
	}
	return st.Next(d.canonical(r))
}

// ActionOf returns the head of the legacy action chain of s.
func (d *DFA) ActionOf(s StateID) (Action, bool) {
	st := d.State(s)
	if st == nil || st.action == NoAction {
		return Action{}, false
	}
	e := d.actions[st.action]
	return Action{Kind: ActionLegacy, ID: e.ID, Rule: e.Rule}, true
}

// Chain returns the whole legacy action chain of s, head first.
func (d *DFA) Chain(s StateID) []Action {
	st := d.State(s)
	if st == nil {
		return nil
	}
	var out []Action
	for i := st.action; i != NoAction; i = d.actions[i].Next {
		e := d.actions[i]
		out = append(out, Action{Kind: ActionLegacy, ID: e.ID, Rule: e.Rule})
	}
	return out
}

// TokenClassOf returns the token class of s.
func (d *DFA) TokenClassOf(s StateID) (string, bool) {
	st := d.State(s)
	if st == nil || st.class == "" {
		return "", false
	}
	return st.class, true
}

// Accept returns the action taken when a match ends in s: the token class
// if the state has one, else the head of its legacy chain.
func (d *DFA) Accept(s StateID) Action {
	st := d.State(s)
	if st == nil {
		return Action{}
	}
	if st.class != "" {
		return Action{Kind: ActionNamed, Class: st.class, Rule: st.classRule}
	}
	a, _ := d.ActionOf(s)
	return a
}

// String returns a human-readable representation of the DFA
func (d *DFA) String() string {
	return fmt.Sprintf("DFA{states: %d, actions: %d, start: %d}", len(d.states), len(d.actions), d.start)
}

// Dump returns one line per state, for debugging.
func (d *DFA) Dump() string {
	var b strings.Builder
	for i := range d.states {
		id := StateID(i)
		b.WriteString(d.states[i].String())
		if a := d.Accept(id); a.Kind != ActionNone {
			fmt.Fprintf(&b, " => %s", a)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
