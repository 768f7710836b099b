package dfa

import "unicode/utf8"

// Match is the result of a DFA match.
type Match struct {
	// Len is the number of bytes consumed.
	Len int

	// Action is the winning action; Kind is ActionNone if nothing matched.
	Action Action
}

// Matched reports whether an action was found.
func (m Match) Matched() bool {
	return m.Action.Kind != ActionNone
}

// Match runs the DFA on text starting at byte offset pos and returns the
// longest prefix that ends in an accepting state, with that state's action.
// A shorter accepting prefix is the fallback when the walk continues past it
// and then fails. Match never fails; an unmatched position yields a zero
// Match.
func (d *DFA) Match(text string, pos int) Match {
	if pos < 0 || pos > len(text) || len(d.states) == 0 {
		return Match{}
	}

	var best Match
	s := d.start
	if a := d.Accept(s); a.Kind != ActionNone {
		best = Match{Len: 0, Action: a}
	}

	for i := pos; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		next, ok := d.states[s].Next(d.canonical(r))
		if !ok {
			break
		}
		s = next
		i += w
		if a := d.Accept(s); a.Kind != ActionNone {
			best = Match{Len: i - pos, Action: a}
		}
	}
	return best
}
