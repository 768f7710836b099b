package syntax

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/coregx/lexdfa/charset"
)

// MacroTable resolves {name} references to rule text.
type MacroTable interface {
	Lookup(name string) (string, bool)
}

// Macros is a MacroTable backed by a map.
type Macros map[string]string

// Lookup implements MacroTable.
func (m Macros) Lookup(name string) (string, bool) {
	text, ok := m[name]
	return text, ok
}

// Config configures rule compilation.
type Config struct {
	// MaxDepth limits the nesting of groups and macro expansions.
	// Default: 100
	MaxDepth int
}

// DefaultConfig returns a compiler configuration with sensible defaults
func DefaultConfig() Config {
	return Config{MaxDepth: 100}
}

// Compiler turns rule text into regex AST nodes.
//
// Every character, range and category a rule uses is registered with the
// compiler's charset.Table, so one Compiler (or at least one Table) must be
// shared by all rules of a rule set.
type Compiler struct {
	config Config
	macros MacroTable
	table  charset.Table

	expanding []string // macro expansion stack
	depth     int
}

// NewCompiler creates a compiler. A nil macros table resolves nothing; a
// nil table gets a fresh charset.Classes.
func NewCompiler(config Config, macros MacroTable, table charset.Table) *Compiler {
	if config.MaxDepth == 0 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}
	if macros == nil {
		macros = Macros(nil)
	}
	if table == nil {
		table = charset.NewClasses()
	}
	return &Compiler{
		config: config,
		macros: macros,
		table:  table,
	}
}

// Compile compiles text with the default configuration.
// An empty text yields a nil node and no error.
func Compile(text string, macros MacroTable, table charset.Table) (*Node, error) {
	return NewCompiler(DefaultConfig(), macros, table).Compile(text)
}

// Table returns the table the compiler registers characters with.
func (c *Compiler) Table() charset.Table {
	return c.table
}

// Compile compiles one rule pattern (without its %Class prefix).
func (c *Compiler) Compile(text string) (*Node, error) {
	c.expanding = c.expanding[:0]
	c.depth = 0
	return c.compile(text, 0, len(text))
}

// compile parses src[lo:hi]. Offsets in errors are relative to src.
//
// The grammar is right-recursive: a head is followed by an optional postfix
// operator, then the remainder is either the right side of an alternation
// (after '|') or of a concatenation. The loop collects heads and folds them
// from the right, which builds the same tree without recursing per atom.
func (c *Compiler) compile(src string, lo, hi int) (*Node, error) {
	var (
		heads []*Node
		ops   []Op
	)
	for i := lo; i < hi; {
		head, next, err := c.head(src, i, hi)
		if err != nil {
			return nil, err
		}
		i = next

		if i < hi {
			switch src[i] {
			case '?':
				head = &Node{Op: OpOptional, Left: head}
				i++
			case '*':
				head = &Node{Op: OpStar, Left: head}
				i++
			case '+':
				head = &Node{Op: OpPlus, Left: head}
				i++
			}
		}
		heads = append(heads, head)

		if i < hi {
			if src[i] == '|' {
				ops = append(ops, OpAlternate)
				i++
				if i == hi {
					// "a|" alternates with the empty pattern.
					heads = append(heads, nil)
				}
			} else {
				ops = append(ops, OpConcat)
			}
		}
	}

	if len(heads) == 0 {
		return nil, nil
	}
	node := heads[len(heads)-1]
	for k := len(ops) - 1; k >= 0; k-- {
		node = &Node{Op: ops[k], Left: heads[k], Right: node}
	}
	return node, nil
}

// head parses one atom starting at src[i] and returns it with the offset
// just past it.
func (c *Compiler) head(src string, i, hi int) (*Node, int, error) {
	r, w := utf8.DecodeRuneInString(src[i:hi])

	switch r {
	case '(':
		end, ok := matchGroup(src, i, hi)
		if !ok {
			return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated group"}
		}
		if err := c.enter(); err != nil {
			return nil, 0, err
		}
		inner, err := c.compile(src, i+1, end)
		c.depth--
		return inner, end + 1, err

	case '[':
		end, ok := scanTo(src, i+1, hi, ']')
		if !ok {
			return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated character set"}
		}
		return c.set(src, i+1, end), end + 1, nil

	case '\'', '"':
		end, ok := scanTo(src, i+1, hi, src[i])
		if !ok {
			return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated quote"}
		}
		node, err := c.literal(src, i, decodeString(src, i+1, end), false)
		return node, end + 1, err

	case 'U':
		if i+1 < hi && (src[i+1] == '\'' || src[i+1] == '"') {
			end, ok := scanTo(src, i+2, hi, src[i+1])
			if !ok {
				return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated quote"}
			}
			node, err := c.literal(src, i, decodeString(src, i+2, end), true)
			return node, end + 1, err
		}

	case '\\':
		if i+1 >= hi {
			return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated escape"}
		}
		er, next := decodeEscape(src, i+1, hi)
		node, err := c.literal(src, i, []rune{er}, false)
		return node, next, err

	case '{':
		end, ok := scanTo(src, i+1, hi, '}')
		if !ok {
			return nil, 0, &MalformedPatternError{Text: src, Offset: i, Reason: "unterminated macro reference"}
		}
		node, err := c.reference(src[i+1 : end])
		return node, end + 1, err

	case '.':
		c.table.RegisterRange('\n', '\n')
		return &Node{Op: OpSet, Ranges: []Range{{'\n', '\n'}}, Invert: true}, i + w, nil
	}

	node, err := c.literal(src, i, []rune{r}, false)
	return node, i + w, err
}

func (c *Compiler) enter() error {
	c.depth++
	if c.depth > c.config.MaxDepth {
		c.depth--
		return fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, c.config.MaxDepth)
	}
	return nil
}

// reference resolves {name}: a macro if one is defined, else a category.
func (c *Compiler) reference(name string) (*Node, error) {
	if text, ok := c.macros.Lookup(name); ok {
		if slices.Contains(c.expanding, name) {
			return nil, &MacroCycleError{Name: name, Chain: slices.Clone(c.expanding)}
		}
		if err := c.enter(); err != nil {
			return nil, err
		}
		c.expanding = append(c.expanding, name)
		node, err := c.compile(text, 0, len(text))
		c.expanding = c.expanding[:len(c.expanding)-1]
		c.depth--
		return node, err
	}

	if c.table.HasCategory(name) {
		c.table.RegisterCategory(name)
		return &Node{Op: OpCategory, Name: name, table: c.table}, nil
	}
	return nil, &UnresolvedMacroError{Name: name}
}

// literal builds a literal node for the atom at src[at]. Characters above
// charset.MaxChar cannot be told apart from each other, so they are rejected.
func (c *Compiler) literal(src string, at int, text []rune, fold bool) (*Node, error) {
	for _, r := range text {
		if r > charset.MaxChar {
			return nil, &MalformedPatternError{
				Text:   src,
				Offset: at,
				Reason: fmt.Sprintf("character %U above %U", r, charset.MaxChar),
			}
		}
	}

	op := OpLiteral
	for _, r := range text {
		if !fold {
			c.table.RegisterUsed(r)
			continue
		}
		for _, f := range FoldOrbit(r) {
			c.table.RegisterUsed(f)
		}
	}
	if fold {
		op = OpLiteralFold
	}
	return &Node{Op: op, Text: text}, nil
}

// set builds an OpSet from the bracket body src[lo:hi].
func (c *Compiler) set(src string, lo, hi int) *Node {
	node := &Node{Op: OpSet}
	if lo < hi && src[lo] == '^' {
		node.Invert = true
		lo++
	}

	var ranges []Range
	for i := lo; i < hi; {
		first, next := setChar(src, i, hi)
		i = next
		last := first
		if i+1 < hi && src[i] == '-' {
			last, i = setChar(src, i+1, hi)
			if last < first {
				first, last = last, first
			}
		}
		if first > charset.MaxChar {
			continue
		}
		if last > charset.MaxChar {
			last = charset.MaxChar
		}
		ranges = append(ranges, Range{first, last})
	}

	node.Ranges = normalizeRanges(ranges)
	for _, rg := range node.Ranges {
		c.table.RegisterRange(rg.Lo, rg.Hi)
	}
	return node
}

func setChar(src string, i, hi int) (rune, int) {
	if src[i] == '\\' && i+1 < hi {
		return decodeEscape(src, i+1, hi)
	}
	r, w := utf8.DecodeRuneInString(src[i:hi])
	return r, i + w
}

// matchGroup returns the offset of the ')' closing the '(' at src[open].
// Parentheses inside quotes and bracket sets do not count, and a backslash
// always escapes the next byte.
func matchGroup(src string, open, hi int) (int, bool) {
	var (
		depth   int
		quote   byte
		inClass bool
	)
	for i := open; i < hi; i++ {
		ch := src[i]
		switch {
		case ch == '\\':
			i++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case inClass:
			if ch == ']' {
				inClass = false
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '[':
			inClass = true
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// scanTo returns the offset of the first unescaped delim in src[from:hi].
func scanTo(src string, from, hi int, delim byte) (int, bool) {
	for i := from; i < hi; i++ {
		switch src[i] {
		case '\\':
			i++
		case delim:
			return i, true
		}
	}
	return 0, false
}

// decodeString decodes the escapes of a quoted literal body.
func decodeString(src string, lo, hi int) []rune {
	var out []rune
	for i := lo; i < hi; {
		if src[i] == '\\' && i+1 < hi {
			r, next := decodeEscape(src, i+1, hi)
			out = append(out, r)
			i = next
			continue
		}
		r, w := utf8.DecodeRuneInString(src[i:hi])
		out = append(out, r)
		i += w
	}
	return out
}

// decodeEscape decodes the escape whose first character (after the
// backslash) is at src[i]. It returns the character and the offset past the
// escape.
//
//	\n \t \r   newline, tab, carriage return
//	\NNN       up to six octal digits, at most charset.MaxChar
//	\c         any other character stands for itself
func decodeEscape(src string, i, hi int) (rune, int) {
	switch ch := src[i]; {
	case ch == 'n':
		return '\n', i + 1
	case ch == 't':
		return '\t', i + 1
	case ch == 'r':
		return '\r', i + 1
	case isOctal(ch):
		var v rune
		j := i
		for ; j < hi && j < i+6 && isOctal(src[j]); j++ {
			next := v*8 + rune(src[j]-'0')
			if next > charset.MaxChar {
				break
			}
			v = next
		}
		return v, j
	}
	r, w := utf8.DecodeRuneInString(src[i:hi])
	return r, i + w
}

func isOctal(ch byte) bool {
	return '0' <= ch && ch <= '7'
}
