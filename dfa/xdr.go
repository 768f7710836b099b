package dfa

import (
	"math"

	"github.com/calmh/xdr"

	"github.com/coregx/lexdfa/charset"
	"github.com/coregx/lexdfa/internal/conv"
)

// Decoder limits.
const (
	maxDecodedStates  = 1 << 24
	maxDecodedActions = 1 << 16
	maxClassName      = 1024
)

// minRecordSize is the encoded size of a node with no transitions, no
// actions and no class: index, the two counts, class length and class rule.
const minRecordSize = 20

// noIndex encodes "none" for chain links and token class rules.
const noIndex = math.MaxUint32

// The encoding is
//
//	nodeCount start
//	nodeCount x (index transitionCount (char target)* actionCount
//	             (actionID rule next)* className classRule)
//
// Nodes appear in breadth-first order from the start state and each is
// written once; every reference is a node index in that order. Action chain
// links are positions within the node's own chain, with noIndex ending it.

// XDRSize returns the encoded size of d.
func (d *DFA) XDRSize() int {
	size := 8
	for _, id := range d.order() {
		st := &d.states[id]
		size += 8 + 8*len(st.transitions)
		size += 4 + 12*d.chainLen(st)
		size += 4 + len(st.class) + xdr.Padding(len(st.class))
		size += 4
	}
	return size
}

// MarshalXDR encodes d.
func (d *DFA) MarshalXDR() ([]byte, error) {
	buf := make([]byte, d.XDRSize())
	m := &xdr.Marshaller{Data: buf}
	return buf, d.MarshalXDRInto(m)
}

// MarshalXDRInto encodes d into m.
func (d *DFA) MarshalXDRInto(m *xdr.Marshaller) error {
	order := d.order()
	if len(order) == 0 {
		return invariant("cannot encode an empty DFA")
	}
	index := make([]uint32, len(d.states))
	for i, id := range order {
		index[id] = conv.IntToUint32(i)
	}

	m.MarshalUint32(conv.IntToUint32(len(order)))
	m.MarshalUint32(index[d.start])
	for i, id := range order {
		st := &d.states[id]
		m.MarshalUint32(conv.IntToUint32(i))

		m.MarshalUint32(conv.IntToUint32(len(st.transitions)))
		for _, t := range st.transitions {
			m.MarshalUint32(conv.RuneToUint32(t.Char))
			m.MarshalUint32(index[t.Next])
		}

		n := d.chainLen(st)
		m.MarshalUint32(conv.IntToUint32(n))
		k := 0
		for a := st.action; a != NoAction; a = d.actions[a].Next {
			e := d.actions[a]
			m.MarshalUint32(e.ID)
			m.MarshalUint32(conv.IntToUint32(e.Rule))
			if k+1 < n {
				m.MarshalUint32(conv.IntToUint32(k + 1))
			} else {
				m.MarshalUint32(noIndex)
			}
			k++
		}

		m.MarshalString(st.class)
		if st.class != "" {
			m.MarshalUint32(conv.IntToUint32(st.classRule))
		} else {
			m.MarshalUint32(noIndex)
		}
	}
	return m.Error
}

// UnmarshalXDR decodes a graph written by MarshalXDR. The decoded DFA has no
// alphabet; see SetAlphabet.
func (d *DFA) UnmarshalXDR(bs []byte) error {
	u := &xdr.Unmarshaller{Data: bs}
	return d.UnmarshalXDRFrom(u)
}

// UnmarshalXDRFrom decodes a graph from u. All node references are checked
// against the node count announced up front, so forward references resolve
// to preallocated states.
func (d *DFA) UnmarshalXDRFrom(u *xdr.Unmarshaller) error {
	count, ok := conv.Uint32ToInt(u.UnmarshalUint32(), maxDecodedStates)
	if !ok {
		return xdr.ElementSizeExceeded("number of states", count, maxDecodedStates)
	}
	start := u.UnmarshalUint32()
	if u.Error != nil {
		return u.Error
	}
	if count == 0 || uint64(start) >= uint64(count) {
		return invariant("start index %d out of range (%d states)", start, count)
	}
	if count > len(u.Data)/minRecordSize {
		return invariant("%d states announced but only %d bytes follow", count, len(u.Data))
	}

	states := make([]State, count)
	for i := range states {
		states[i] = State{id: StateID(i), action: NoAction}
	}
	var actions []ActionEntry

	for i := range states {
		st := &states[i]
		if idx := u.UnmarshalUint32(); u.Error == nil && idx != uint32(i) {
			return invariant("record %d has index %d", i, idx)
		}

		tc, ok := conv.Uint32ToInt(u.UnmarshalUint32(), int(charset.MaxChar)+1)
		if !ok {
			return xdr.ElementSizeExceeded("number of transitions", tc, int(charset.MaxChar)+1)
		}
		if u.Error != nil {
			return u.Error
		}
		if tc > len(u.Data)/8 {
			return invariant("state %d: %d transitions announced but only %d bytes follow", i, tc, len(u.Data))
		}
		st.transitions = make([]Transition, tc)
		for j := range st.transitions {
			ch := u.UnmarshalUint32()
			target := u.UnmarshalUint32()
			if u.Error != nil {
				return u.Error
			}
			if ch > uint32(charset.MaxChar) {
				return invariant("state %d: character %#x out of range", i, ch)
			}
			if uint64(target) >= uint64(count) {
				return invariant("state %d: transition targets missing state %d", i, target)
			}
			st.transitions[j] = Transition{Char: rune(ch), Next: StateID(target)}
		}
		if !transitionsSorted(st.transitions) {
			return invariant("state %d: transition table not sorted", i)
		}

		ac, ok := conv.Uint32ToInt(u.UnmarshalUint32(), maxDecodedActions)
		if !ok {
			return xdr.ElementSizeExceeded("number of actions", ac, maxDecodedActions)
		}
		head := len(actions)
		for k := 0; k < ac; k++ {
			id := u.UnmarshalUint32()
			rule, ok := conv.Uint32ToInt(u.UnmarshalUint32(), math.MaxInt32)
			next := u.UnmarshalUint32()
			if u.Error != nil {
				return u.Error
			}
			if !ok {
				return invariant("state %d: action rule %d out of range", i, rule)
			}
			e := ActionEntry{ID: id, Rule: rule, Next: NoAction}
			switch {
			case k+1 < ac && next == conv.IntToUint32(k+1):
				e.Next = head + k + 1
			case k+1 == ac && next == noIndex:
			default:
				return invariant("state %d: action %d links to %d", i, k, next)
			}
			actions = append(actions, e)
		}
		if ac > 0 {
			st.action = head
		}

		st.class = u.UnmarshalStringMax(maxClassName)
		classRule := u.UnmarshalUint32()
		if u.Error != nil {
			return u.Error
		}
		if st.class != "" {
			rule, ok := conv.Uint32ToInt(classRule, math.MaxInt32)
			if !ok {
				return invariant("state %d: class rule %d out of range", i, classRule)
			}
			st.classRule = rule
		}
	}

	*d = DFA{
		states:  states,
		actions: actions,
		start:   StateID(start),
	}
	return d.verify()
}

// order returns the states reachable from start in breadth-first order.
func (d *DFA) order() []StateID {
	if len(d.states) == 0 {
		return nil
	}
	seen := make([]bool, len(d.states))
	order := []StateID{d.start}
	seen[d.start] = true
	for i := 0; i < len(order); i++ {
		for _, t := range d.states[order[i]].transitions {
			if !seen[t.Next] {
				seen[t.Next] = true
				order = append(order, t.Next)
			}
		}
	}
	return order
}

func (d *DFA) chainLen(st *State) int {
	n := 0
	for a := st.action; a != NoAction; a = d.actions[a].Next {
		n++
	}
	return n
}
