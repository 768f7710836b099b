package dfa

import (
	"fmt"
	"slices"

	"github.com/coregx/lexdfa/charset"
	"github.com/coregx/lexdfa/internal/sparse"
	"github.com/coregx/lexdfa/nfa"
)

// Construct builds the DFA of n by subset construction.
//
// The start state is the epsilon closure of the NFA's combined start. From
// every state, each class of alphabet is tried against the labeled arcs of
// the member NFA states; the closure of the targets, in canonical order,
// names the successor. An empty target set adds no transition. Equal sets
// always map to the same state, so the construction terminates.
//
// Construct only fails when the state limit is exceeded or when the final
// verification pass finds an inconsistent graph.
func Construct(n *nfa.NFA, alphabet charset.Alphabet, opts ...Option) (*DFA, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &constructor{
		nfa:      n,
		alphabet: alphabet,
		reps:     alphabet.Representatives(),
		config:   config,
		set:      sparse.New(n.States()),
		index:    newStateIndex(),
		dfa:      &DFA{alphabet: alphabet},
	}
	d, err := c.run()
	if err != nil {
		return nil, err
	}
	if err := d.verify(); err != nil {
		return nil, err
	}
	for i := range d.states {
		d.states[i].nfaStates = nil
	}
	return d, nil
}

type constructor struct {
	nfa      *nfa.NFA
	alphabet charset.Alphabet
	reps     []rune
	config   Config

	set   *sparse.Set
	stack []nfa.StateID
	index *stateIndex
	dfa   *DFA
}

// run discovers states depth-first from the start closure. The worklist
// stands in for recursion: a new state is numbered when first reached and
// expanded before the states discovered ahead of it.
func (c *constructor) run() (*DFA, error) {
	start, err := c.intern(c.closure([]nfa.StateID{c.nfa.Start()}))
	if err != nil {
		return nil, err
	}
	c.dfa.start = start

	work := []StateID{start}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]

		arcs := c.arcs(c.dfa.states[id].nfaStates)
		var transitions []Transition
		for _, rep := range c.reps {
			targets := c.step(arcs, rep)
			if len(targets) == 0 {
				continue
			}
			before := len(c.dfa.states)
			next, err := c.intern(c.closure(targets))
			if err != nil {
				return nil, err
			}
			if len(c.dfa.states) > before {
				work = append(work, next)
			}
			transitions = append(transitions, Transition{Char: rep, Next: next})
		}
		c.dfa.states[id].transitions = transitions
	}
	return c.dfa, nil
}

// closure returns the canonical epsilon closure of seeds.
func (c *constructor) closure(seeds []nfa.StateID) []nfa.StateID {
	c.set.Clear()
	c.stack = c.stack[:0]
	for _, s := range seeds {
		if c.set.Insert(uint32(s)) {
			c.stack = append(c.stack, s)
		}
	}
	for len(c.stack) > 0 {
		s := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		for _, next := range c.nfa.State(s).Epsilons() {
			if c.set.Insert(uint32(next)) {
				c.stack = append(c.stack, next)
			}
		}
	}

	sorted := c.set.Sorted()
	out := make([]nfa.StateID, len(sorted))
	for i, v := range sorted {
		out[i] = nfa.StateID(v)
	}
	return out
}

// arcs collects the labeled arcs of every member of set.
func (c *constructor) arcs(set []nfa.StateID) []nfa.Arc {
	var arcs []nfa.Arc
	for _, s := range set {
		arcs = append(arcs, c.nfa.State(s).Arcs()...)
	}
	return arcs
}

// step returns the targets of the arcs accepting the class of rep.
func (c *constructor) step(arcs []nfa.Arc, rep rune) []nfa.StateID {
	var targets []nfa.StateID
	for _, a := range arcs {
		if a.Label.MatchesClass(rep, c.alphabet) {
			targets = append(targets, a.Next)
		}
	}
	return targets
}

// intern returns the state for the canonical set, creating it if needed.
func (c *constructor) intern(set []nfa.StateID) (StateID, error) {
	key := ComputeStateKey(set)
	if id, ok := c.index.lookup(c.dfa.states, key, set); ok {
		return id, nil
	}
	if len(c.dfa.states) >= c.config.MaxStates {
		return InvalidState, &Error{
			Kind:    StateLimitExceeded,
			Message: fmt.Sprintf("DFA state limit exceeded (max %d)", c.config.MaxStates),
		}
	}

	id := StateID(len(c.dfa.states))
	st := State{
		id:        id,
		action:    NoAction,
		nfaStates: set,
	}
	c.fold(&st, set)
	c.dfa.states = append(c.dfa.states, st)
	c.index.insert(key, id)
	return id, nil
}

// fold merges the terminal markers of set into st.
//
// Markers are taken in precedence order. If the strongest is named, the
// state gets that token class and every legacy marker is discarded, since
// they all belong to later rules. Otherwise the legacy markers form the
// fallback chain in declaration order and later named markers are dropped.
func (c *constructor) fold(st *State, set []nfa.StateID) {
	var markers []nfa.Marker
	for _, s := range set {
		if m := c.nfa.State(s).Marker(); m.Kind != nfa.MarkerNone {
			markers = append(markers, m)
		}
	}
	if len(markers) == 0 {
		return
	}
	slices.SortStableFunc(markers, func(a, b nfa.Marker) int {
		switch {
		case a.Precedes(b):
			return -1
		case b.Precedes(a):
			return 1
		default:
			return 0
		}
	})

	if top := markers[0]; top.Kind == nfa.MarkerNamed {
		st.class = top.Class
		st.classRule = top.Rule
		return
	}

	head := len(c.dfa.actions)
	for _, m := range markers {
		if m.Kind != nfa.MarkerLegacy {
			continue
		}
		if len(c.dfa.actions) > head {
			c.dfa.actions[len(c.dfa.actions)-1].Next = len(c.dfa.actions)
		}
		c.dfa.actions = append(c.dfa.actions, ActionEntry{
			ID:   uint32(m.ID),
			Rule: m.Rule,
			Next: NoAction,
		})
	}
	st.action = head
}

// verify re-checks the graph: states are numbered by position, every
// reference resolves, transition tables are sorted, action chains end, and
// no two states share an NFA set.
func (d *DFA) verify() error {
	n := len(d.states)
	if n == 0 || int(d.start) >= n {
		return invariant("start state %d out of range (%d states)", d.start, n)
	}

	index := newStateIndex()
	for i := range d.states {
		st := &d.states[i]
		if st.id != StateID(i) {
			return invariant("state %d has id %d", i, st.id)
		}
		if !transitionsSorted(st.transitions) {
			return invariant("state %d: transition table not sorted", i)
		}
		for _, t := range st.transitions {
			if int(t.Next) >= n {
				return invariant("state %d: transition %q targets missing state %d", i, t.Char, t.Next)
			}
		}
		if err := d.verifyChain(st); err != nil {
			return err
		}

		if st.nfaStates == nil {
			continue
		}
		key := ComputeStateKey(st.nfaStates)
		if dup, ok := index.lookup(d.states, key, st.nfaStates); ok {
			return invariant("states %d and %d share NFA set %v", dup, i, st.nfaStates)
		}
		index.insert(key, st.id)
	}
	return nil
}

func (d *DFA) verifyChain(st *State) error {
	steps := 0
	for a := st.action; a != NoAction; a = d.actions[a].Next {
		if a < 0 || a >= len(d.actions) {
			return invariant("state %d: action %d out of range", st.id, a)
		}
		steps++
		if steps > len(d.actions) {
			return invariant("state %d: action chain does not terminate", st.id)
		}
	}
	return nil
}
