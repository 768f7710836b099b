package syntax

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/lexdfa/charset"
)

// NoMatch is returned by Match when the node matches no prefix.
const NoMatch = -1

// Match returns the length in bytes of the longest prefix of text[pos:]
// (limited to maxLen bytes, or unlimited if maxLen < 0) that n matches, or
// NoMatch.
//
// Match walks the AST directly and explores every alternative and every
// repetition count. It is meant for verification and small inputs; compile
// the rule to a DFA for tokenizing.
func Match(n *Node, text string, pos, maxLen int) int {
	if pos < 0 || pos > len(text) {
		return NoMatch
	}
	limit := len(text)
	if maxLen >= 0 && pos+maxLen < limit {
		limit = pos + maxLen
	}
	m := matcher{text: text[:limit]}
	ends := m.ends(n, pos)
	if len(ends) == 0 {
		return NoMatch
	}
	return slices.Max(ends) - pos
}

type matcher struct {
	text string
}

// ends returns every offset at which a match of n starting at pos can end.
func (m *matcher) ends(n *Node, pos int) []int {
	if n == nil {
		return []int{pos}
	}

	switch n.Op {
	case OpLiteral, OpLiteralFold:
		i := pos
		for _, want := range n.Text {
			r, w := m.next(i)
			if w == 0 {
				return nil
			}
			if r != want && (n.Op == OpLiteral || !FoldEqual(want, r)) {
				return nil
			}
			i += w
		}
		return []int{i}

	case OpCategory, OpSet:
		r, w := m.next(pos)
		if w == 0 || !n.Matches(r) {
			return nil
		}
		return []int{pos + w}

	case OpConcat:
		var out []int
		for _, mid := range m.ends(n.Left, pos) {
			out = union(out, m.ends(n.Right, mid))
		}
		return out

	case OpAlternate:
		return union(m.ends(n.Left, pos), m.ends(n.Right, pos))

	case OpOptional:
		return union([]int{pos}, m.ends(n.Left, pos))

	case OpStar:
		return m.repeat(n.Left, []int{pos})

	case OpPlus:
		return m.repeat(n.Left, m.ends(n.Left, pos))
	}
	return nil
}

// repeat extends the offsets in from by any number of further matches of n.
func (m *matcher) repeat(n *Node, from []int) []int {
	seen := union(nil, from)
	work := slices.Clone(seen)
	for len(work) > 0 {
		pos := work[len(work)-1]
		work = work[:len(work)-1]
		for _, e := range m.ends(n, pos) {
			if !slices.Contains(seen, e) {
				seen = append(seen, e)
				work = append(work, e)
			}
		}
	}
	return seen
}

// next decodes the character at i, clamped to the 16-bit range. A zero
// width means end of text.
func (m *matcher) next(i int) (rune, int) {
	if i >= len(m.text) {
		return 0, 0
	}
	r, w := utf8.DecodeRuneInString(m.text[i:])
	if r > charset.MaxChar {
		r = utf8.RuneError
	}
	return r, w
}

func union(a, b []int) []int {
	for _, v := range b {
		if !slices.Contains(a, v) {
			a = append(a, v)
		}
	}
	return a
}
