package nfa

import (
	"fmt"

	"github.com/coregx/lexdfa/syntax"
)

// Fragment is a partial NFA with one entry and one exit state.
type Fragment struct {
	Start StateID
	End   StateID
}

// Builder constructs NFAs incrementally using Thompson's construction.
//
// Rules are added in declaration order with AddRule; NFA then adds the
// combined start state and returns the finished automaton. A Builder must
// not be used after NFA has been called.
type Builder struct {
	states []State
	rules  []Fragment
	done   bool
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
	}
}

// AddState adds a state without arcs and returns its ID
func (b *Builder) AddState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{id: id})
	return id
}

// AddArc adds a labeled arc from -> to.
func (b *Builder) AddArc(from StateID, label Label, to StateID) {
	s := &b.states[from]
	s.arcs = append(s.arcs, Arc{Label: label, Next: to})
}

// AddEpsilon adds an unlabeled arc from -> to.
func (b *Builder) AddEpsilon(from, to StateID) {
	s := &b.states[from]
	s.epsilon = append(s.epsilon, to)
}

// SetMarker sets the terminal marker of id unless the state already holds a
// marker that precedes m.
func (b *Builder) SetMarker(id StateID, m Marker) {
	s := &b.states[id]
	if s.marker.Kind == MarkerNone || m.Precedes(s.marker) {
		s.marker = m
	}
}

// States returns the number of states allocated so far
func (b *Builder) States() int {
	return len(b.states)
}

// Build emits the fragment for node. Every call allocates fresh states; no
// state of a previously built fragment is modified except through the
// epsilon arcs that link sub-fragments.
func (b *Builder) Build(node *syntax.Node) Fragment {
	if node == nil {
		return b.empty()
	}

	switch node.Op {
	case syntax.OpLiteral:
		return b.literal(node.Text, LabelChar)

	case syntax.OpLiteralFold:
		return b.literal(node.Text, LabelFold)

	case syntax.OpCategory, syntax.OpSet:
		f := Fragment{Start: b.AddState(), End: b.AddState()}
		b.AddArc(f.Start, Label{Kind: LabelPredicate, Pred: node}, f.End)
		return f

	case syntax.OpConcat:
		first := b.Build(node.Left)
		second := b.Build(node.Right)
		b.AddEpsilon(first.End, second.Start)
		return Fragment{Start: first.Start, End: second.End}

	case syntax.OpAlternate:
		left := b.Build(node.Left)
		right := b.Build(node.Right)
		f := Fragment{Start: b.AddState(), End: b.AddState()}
		b.AddEpsilon(f.Start, left.Start)
		b.AddEpsilon(f.Start, right.Start)
		b.AddEpsilon(left.End, f.End)
		b.AddEpsilon(right.End, f.End)
		return f

	case syntax.OpOptional:
		sub := b.Build(node.Left)
		b.AddEpsilon(sub.Start, sub.End)
		return sub

	case syntax.OpStar:
		sub := b.Build(node.Left)
		f := Fragment{Start: b.AddState(), End: b.AddState()}
		b.AddEpsilon(f.Start, sub.Start)
		b.AddEpsilon(f.Start, f.End)
		b.AddEpsilon(sub.End, f.Start)
		return f

	case syntax.OpPlus:
		sub := b.Build(node.Left)
		b.AddEpsilon(sub.End, sub.Start)
		return sub

	default:
		panic(fmt.Sprintf("nfa: unknown syntax op %s", node.Op))
	}
}

func (b *Builder) empty() Fragment {
	f := Fragment{Start: b.AddState(), End: b.AddState()}
	b.AddEpsilon(f.Start, f.End)
	return f
}

// literal emits start -c1-> s1 -c2-> ... -cn-> sn -eps-> end.
func (b *Builder) literal(text []rune, kind LabelKind) Fragment {
	start := b.AddState()
	last := start
	for _, r := range text {
		next := b.AddState()
		b.AddArc(last, Label{Kind: kind, Char: r}, next)
		last = next
	}
	end := b.AddState()
	b.AddEpsilon(last, end)
	return Fragment{Start: start, End: end}
}

// AddRule builds the fragment of the next rule in declaration order and
// marks its end state. A non-empty class yields a named marker; otherwise
// the end state is marked with a legacy action equal to its own ID.
func (b *Builder) AddRule(node *syntax.Node, class string) Fragment {
	rule := len(b.rules)
	f := b.Build(node)
	if class != "" {
		b.SetMarker(f.End, Named(class, rule))
	} else {
		b.SetMarker(f.End, Legacy(f.End, rule))
	}
	b.rules = append(b.rules, f)
	return f
}

// Validate checks that every arc targets an allocated state.
func (b *Builder) Validate() error {
	n := len(b.states)
	for i := range b.states {
		s := &b.states[i]
		for j, a := range s.arcs {
			if int(a.Next) >= n {
				return &BuildError{
					Message: fmt.Sprintf("invalid arc %d target %d", j, a.Next),
					StateID: s.id,
					Err:     ErrInvalidState,
				}
			}
		}
		for j, e := range s.epsilon {
			if int(e) >= n {
				return &BuildError{
					Message: fmt.Sprintf("invalid epsilon %d target %d", j, e),
					StateID: s.id,
					Err:     ErrInvalidState,
				}
			}
		}
	}
	return nil
}

// NFA adds the combined start state and returns the finished automaton.
func (b *Builder) NFA() (*NFA, error) {
	if b.done {
		return nil, &BuildError{Message: "builder already finished", StateID: InvalidState}
	}
	if len(b.rules) == 0 {
		return nil, ErrNoRules
	}

	start := b.AddState()
	for _, f := range b.rules {
		b.AddEpsilon(start, f.Start)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.done = true

	return &NFA{
		states: b.states,
		start:  start,
		rules:  b.rules,
	}, nil
}
