package syntax

import (
	"errors"
	"slices"
	"testing"

	"github.com/coregx/lexdfa/charset"
)

func mustCompile(t *testing.T, text string, macros Macros) *Node {
	t.Helper()
	n, err := Compile(text, macros, charset.NewClasses())
	if err != nil {
		t.Fatalf("Compile(%q): %v", text, err)
	}
	return n
}

// TestCompile_Empty tests that an empty rule yields no node
func TestCompile_Empty(t *testing.T) {
	n, err := Compile("", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil {
		t.Errorf("expected nil node, got %v", n)
	}
}

// TestCompile_Shapes tests the AST produced for representative rules
func TestCompile_Shapes(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a", "'a'"},
		{"ab", "'a''b'"},
		{"'if'", "'if'"},
		{`"\n"`, `'\n'`},
		{"U'if'", "U'if'"},
		{"a|b", "('a'|'b')"},
		{"ab|c", "'a'('b'|'c')"},
		{"(ab)|c", "(('a''b')|'c')"},
		{"a*", "('a')*"},
		{"a+", "('a')+"},
		{"a?", "('a')?"},
		{"[a-c]", "[a-c]"},
		{"[^a-c]", "[^a-c]"},
		{"[cba]", "[a-c]"},
		{".", `[^\n]`},
		{`\.`, "'.'"},
		{"{Letter}", "{Letter}"},
		{"a|", "('a'|'')"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n := mustCompile(t, tt.text, nil)
			if got := n.String(); got != tt.want {
				t.Errorf("Compile(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

// TestCompile_RightLeaning tests that concatenation chains lean right
func TestCompile_RightLeaning(t *testing.T) {
	n := mustCompile(t, "abc", nil)
	if n.Op != OpConcat || n.Left.Op != OpLiteral || n.Right.Op != OpConcat {
		t.Fatalf("expected Concat(a, Concat(b, c)), got %s", n)
	}
	if n.Right.Left.Op != OpLiteral || n.Right.Right.Op != OpLiteral {
		t.Errorf("expected literal leaves, got %s", n.Right)
	}
}

// TestCompile_Escapes tests escape decoding in quotes, sets and bare escapes
func TestCompile_Escapes(t *testing.T) {
	tests := []struct {
		text string
		want []rune
	}{
		{`'\n'`, []rune{'\n'}},
		{`'\t\r'`, []rune{'\t', '\r'}},
		{`'\101'`, []rune{'A'}},
		{`'\0'`, []rune{0}},
		{`'\101B'`, []rune{'A', 'B'}},
		{`'\''`, []rune{'\''}},
		{`"\""`, []rune{'"'}},
		{`'\\'`, []rune{'\\'}},
		{`\n`, []rune{'\n'}},
		{`\*`, []rune{'*'}},
		{`'\177777'`, []rune{0xFFFF}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			n := mustCompile(t, tt.text, nil)
			if n.Op != OpLiteral {
				t.Fatalf("expected literal, got %s", n.Op)
			}
			if !slices.Equal(n.Text, tt.want) {
				t.Errorf("Compile(%q).Text = %q, want %q", tt.text, n.Text, tt.want)
			}
		})
	}
}

// TestCompile_SetEscapes tests escapes and ranges inside brackets
func TestCompile_SetEscapes(t *testing.T) {
	n := mustCompile(t, `[\t\n a-c\-]`, nil)
	if n.Op != OpSet {
		t.Fatalf("expected set, got %s", n.Op)
	}
	for _, r := range []rune{'\t', '\n', ' ', 'a', 'b', 'c', '-'} {
		if !n.Matches(r) {
			t.Errorf("set should contain %q", r)
		}
	}
	for _, r := range []rune{'d', '\\', 'A'} {
		if n.Matches(r) {
			t.Errorf("set should not contain %q", r)
		}
	}
}

// TestCompile_GroupDelimitersInQuotes tests that quoted or bracketed
// parentheses do not close a group
func TestCompile_GroupDelimitersInQuotes(t *testing.T) {
	tests := []string{
		"(')')",
		`(")")`,
		"([)])",
		`(\))`,
		"((a)b)",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if _, err := Compile(text, nil, nil); err != nil {
				t.Errorf("Compile(%q): %v", text, err)
			}
		})
	}
}

// TestCompile_Malformed tests unterminated constructs
func TestCompile_Malformed(t *testing.T) {
	tests := []struct {
		text   string
		offset int
	}{
		{"(ab", 0},
		{"a(b", 1},
		{"[abc", 0},
		{"'abc", 0},
		{`"abc'`, 0},
		{"xU'abc", 1},
		{"{digit", 0},
		{`ab\`, 2},
		{"(')", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := Compile(tt.text, nil, nil)
			var mpe *MalformedPatternError
			if !errors.As(err, &mpe) {
				t.Fatalf("expected MalformedPatternError, got %v", err)
			}
			if mpe.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", mpe.Offset, tt.offset)
			}
			if mpe.Text != tt.text {
				t.Errorf("text = %q, want %q", mpe.Text, tt.text)
			}
		})
	}
}

// TestCompile_AboveMaxChar tests that literals outside the 16-bit range are
// rejected rather than folded into the replacement character
func TestCompile_AboveMaxChar(t *testing.T) {
	tests := []struct {
		text   string
		offset int
	}{
		{"'\U0001F600'", 0},
		{"x\U0001F600", 1},
		{"U'a\U0001F600'", 0},
		{"(a|\U0001F600)", 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := Compile(tt.text, nil, nil)
			var mpe *MalformedPatternError
			if !errors.As(err, &mpe) {
				t.Fatalf("expected MalformedPatternError, got %v", err)
			}
			if mpe.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", mpe.Offset, tt.offset)
			}
		})
	}

	// Sets still clamp: a range reaching past MaxChar ends at MaxChar.
	n := mustCompile(t, "[\uFFF0-\U0001F600]", nil)
	if !n.Matches(0xFFFF) || n.Matches(0x1F600) {
		t.Errorf("unexpected set %s", n)
	}
}

// TestCompile_Macros tests macro substitution and category fallback
func TestCompile_Macros(t *testing.T) {
	macros := Macros{
		"digit":  "[0-9]",
		"number": "{digit}+",
	}

	direct := mustCompile(t, "[0-9]+", nil)
	viaMacro := mustCompile(t, "{number}", macros)
	if direct.String() != viaMacro.String() {
		t.Errorf("macro expansion %s differs from direct %s", viaMacro, direct)
	}

	cat := mustCompile(t, "{Digit}", macros)
	if cat.Op != OpCategory || cat.Name != "Digit" {
		t.Errorf("expected category Digit, got %s", cat)
	}
	if !cat.Matches('7') || cat.Matches('x') {
		t.Error("category node should delegate to the table")
	}
}

// TestCompile_MacroErrors tests unresolved and cyclic macros
func TestCompile_MacroErrors(t *testing.T) {
	_, err := Compile("{nothing}", nil, nil)
	var ume *UnresolvedMacroError
	if !errors.As(err, &ume) || ume.Name != "nothing" {
		t.Errorf("expected UnresolvedMacroError{nothing}, got %v", err)
	}

	cyclic := Macros{"a": "x{b}", "b": "{a}"}
	_, err = Compile("{a}", cyclic, nil)
	var mce *MacroCycleError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MacroCycleError, got %v", err)
	}
	if mce.Name != "a" || !slices.Equal(mce.Chain, []string{"a", "b"}) {
		t.Errorf("unexpected cycle report: %v", mce)
	}

	// A malformed macro body reports the macro text.
	_, err = Compile("{bad}", Macros{"bad": "[a-"}, nil)
	var mpe *MalformedPatternError
	if !errors.As(err, &mpe) || mpe.Text != "[a-" {
		t.Errorf("expected MalformedPatternError in macro body, got %v", err)
	}
}

// TestCompile_MaxDepth tests the nesting limit
func TestCompile_MaxDepth(t *testing.T) {
	c := NewCompiler(Config{MaxDepth: 3}, nil, nil)
	if _, err := c.Compile("(((a)))"); err != nil {
		t.Errorf("depth 3 should compile: %v", err)
	}
	if _, err := c.Compile("((((a))))"); !errors.Is(err, ErrTooComplex) {
		t.Errorf("depth 4 should fail with ErrTooComplex, got %v", err)
	}
}

// TestCompile_Registers tests bookkeeping with the character table
func TestCompile_Registers(t *testing.T) {
	table := charset.NewClasses()
	if _, err := Compile("U'k'x[0-9]", nil, table); err != nil {
		t.Fatal(err)
	}
	used := table.Used()
	for _, r := range []rune{'k', 'K', 'x', 0x212A} { // U+212A KELVIN SIGN folds to k
		if !slices.Contains(used, r) {
			t.Errorf("expected %q registered as used, got %q", r, used)
		}
	}
	if table.Canonical('3') != table.Canonical('7') {
		t.Error("digits should share a class")
	}
	if table.Canonical('3') == table.Canonical('a') {
		t.Error("digit range should be split from letters")
	}
}

// TestParseRule tests splitting of the %Class prefix
func TestParseRule(t *testing.T) {
	tests := []struct {
		text, class, pattern string
	}{
		{"%Keyword 'if'", "Keyword", "'if'"},
		{"%Ident\t{Letter}+", "Ident", "{Letter}+"},
		{"[0-9]+", "", "[0-9]+"},
		{"%", "", "%"},
		{"% x", "", "% x"},
		{"%Empty", "Empty", ""},
	}
	for _, tt := range tests {
		class, pattern := ParseRule(tt.text)
		if class != tt.class || pattern != tt.pattern {
			t.Errorf("ParseRule(%q) = (%q, %q), want (%q, %q)",
				tt.text, class, pattern, tt.class, tt.pattern)
		}
	}
}

// TestNode_Literal tests literal text extraction
func TestNode_Literal(t *testing.T) {
	tests := []struct {
		text string
		lit  string
		ok   bool
	}{
		{"'if'", "if", true},
		{"abc", "abc", true},
		{"'=''='", "==", true},
		{"U'if'", "", false},
		{"a|b", "", false},
		{"a*", "", false},
		{"[a]", "", false},
	}
	for _, tt := range tests {
		lit, ok := mustCompile(t, tt.text, nil).Literal()
		if lit != tt.lit || ok != tt.ok {
			t.Errorf("Literal(%q) = (%q, %v), want (%q, %v)", tt.text, lit, ok, tt.lit, tt.ok)
		}
	}
	if _, ok := (*Node)(nil).Literal(); ok {
		t.Error("nil node is not a literal")
	}
}
