package syntax

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/lexdfa/charset"
)

// Op identifies the kind of a regex AST node.
type Op uint8

const (
	// OpAlternate matches Left or Right.
	OpAlternate Op = iota + 1

	// OpConcat matches Left followed by Right.
	OpConcat

	// OpLiteral matches Text exactly.
	OpLiteral

	// OpLiteralFold matches Text under simple case folding.
	OpLiteralFold

	// OpCategory matches one character of the named category Name.
	OpCategory

	// OpSet matches one character in Ranges (or not in Ranges if Invert).
	OpSet

	// OpOptional matches Left zero or one time.
	OpOptional

	// OpStar matches Left zero or more times.
	OpStar

	// OpPlus matches Left one or more times.
	OpPlus
)

// String returns a human-readable representation of the Op
func (op Op) String() string {
	switch op {
	case OpAlternate:
		return "Alternate"
	case OpConcat:
		return "Concat"
	case OpLiteral:
		return "Literal"
	case OpLiteralFold:
		return "LiteralFold"
	case OpCategory:
		return "Category"
	case OpSet:
		return "Set"
	case OpOptional:
		return "Optional"
	case OpStar:
		return "Star"
	case OpPlus:
		return "Plus"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Range is an inclusive character range.
type Range struct {
	Lo, Hi rune
}

// Node is a regex AST node. A nil *Node is the empty pattern.
//
// Binary operators use Left and Right; unary operators use Left only.
// Concatenation chains lean right: Concat(a, Concat(b, c)).
type Node struct {
	Op Op

	Left, Right *Node

	// Text holds the characters of OpLiteral and OpLiteralFold.
	Text []rune

	// Name is the category name of OpCategory.
	Name string

	// Ranges is the sorted, non-overlapping member set of OpSet.
	Ranges []Range

	// Invert negates Ranges.
	Invert bool

	table charset.Table
}

// Matches reports whether the single-character node n accepts r.
// It is false for every other kind of node.
func (n *Node) Matches(r rune) bool {
	if n == nil {
		return false
	}
	switch n.Op {
	case OpCategory:
		return n.table != nil && n.table.InCategory(n.Name, r)
	case OpSet:
		return inRanges(n.Ranges, r) != n.Invert
	default:
		return false
	}
}

// Literal returns the exact text n matches if n is a plain literal or a
// concatenation of plain literals.
func (n *Node) Literal() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Op {
	case OpLiteral:
		return string(n.Text), true
	case OpConcat:
		left, ok := n.Left.Literal()
		if !ok {
			return "", false
		}
		right, ok := n.Right.Literal()
		if !ok {
			return "", false
		}
		return left + right, true
	default:
		return "", false
	}
}

// String returns the node in rule syntax. The result compiles back to an
// equivalent node (modulo grouping of concatenations).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("''")
		return
	}
	switch n.Op {
	case OpAlternate:
		b.WriteByte('(')
		if n.Left != nil && n.Left.Op == OpConcat {
			// The parser is right-recursive: ab|c reads as a(b|c).
			b.WriteByte('(')
			n.Left.write(b)
			b.WriteByte(')')
		} else {
			n.Left.write(b)
		}
		b.WriteByte('|')
		n.Right.write(b)
		b.WriteByte(')')
	case OpConcat:
		n.Left.write(b)
		n.Right.write(b)
	case OpLiteral, OpLiteralFold:
		if n.Op == OpLiteralFold {
			b.WriteByte('U')
		}
		b.WriteByte('\'')
		for _, r := range n.Text {
			writeEscaped(b, r, '\'')
		}
		b.WriteByte('\'')
	case OpCategory:
		b.WriteString("{" + n.Name + "}")
	case OpSet:
		b.WriteByte('[')
		if n.Invert {
			b.WriteByte('^')
		}
		for _, rg := range n.Ranges {
			writeEscaped(b, rg.Lo, ']')
			if rg.Hi != rg.Lo {
				b.WriteByte('-')
				writeEscaped(b, rg.Hi, ']')
			}
		}
		b.WriteByte(']')
	case OpOptional, OpStar, OpPlus:
		b.WriteByte('(')
		n.Left.write(b)
		b.WriteByte(')')
		switch n.Op {
		case OpOptional:
			b.WriteByte('?')
		case OpStar:
			b.WriteByte('*')
		default:
			b.WriteByte('+')
		}
	}
}

func writeEscaped(b *strings.Builder, r, delim rune) {
	switch {
	case r == '\n':
		b.WriteString(`\n`)
	case r == '\t':
		b.WriteString(`\t`)
	case r == '\r':
		b.WriteString(`\r`)
	case r == '\\' || r == delim || r == '-' || r == '^':
		b.WriteByte('\\')
		b.WriteRune(r)
	case !unicode.IsPrint(r):
		fmt.Fprintf(b, `\%06o`, r)
	default:
		b.WriteRune(r)
	}
}

func inRanges(ranges []Range, r rune) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].Hi >= r })
	return i < len(ranges) && ranges[i].Lo <= r
}

// normalizeRanges sorts ranges and merges overlapping or adjacent ones.
func normalizeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lo < ranges[j].Lo })
	out := ranges[:1]
	for _, rg := range ranges[1:] {
		last := &out[len(out)-1]
		if rg.Lo <= last.Hi+1 {
			if rg.Hi > last.Hi {
				last.Hi = rg.Hi
			}
			continue
		}
		out = append(out, rg)
	}
	return out
}

// FoldEqual reports whether a and b are equal under simple case folding.
func FoldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// FoldOrbit returns r and every character it folds to.
func FoldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	return orbit
}
