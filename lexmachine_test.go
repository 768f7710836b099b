package lexdfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// rulePair is one rule written in both rule syntaxes.
type rulePair struct {
	class string
	ours  string
	lm    string
}

var differentialRules = []rulePair{
	{"Keyword", "'if'|'while'", `if|while`},
	{"Ident", "[a-z_][a-z0-9_]*", `[a-z_][a-z0-9_]*`},
	{"Number", "[0-9]+('.'[0-9]+)?", `[0-9]+(\.[0-9]+)?`},
	{"Space", "[ \\t\\n]+", "[ \t\n]+"},
	{"Eq", "'=='", `==`},
	{"Assign", "'='", `=`},
	{"LParen", "'('", `[(]`},
	{"RParen", "')'", `[)]`},
	{"Plus", "'+'", `[+]`},
	{"Star", "'*'", `[*]`},
}

type oracleToken struct {
	Class  string
	Text   string
	Offset int
}

func oracleTokenize(t *testing.T, input string) []oracleToken {
	t.Helper()
	lx := lexmachine.NewLexer()
	for _, r := range differentialRules {
		class := r.class
		lx.Add([]byte(r.lm), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return oracleToken{Class: class, Text: string(m.Bytes), Offset: m.TC}, nil
		})
	}
	require.NoError(t, lx.Compile())

	scanner, err := lx.Scanner([]byte(input))
	require.NoError(t, err)
	var out []oracleToken
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		require.NoError(t, err)
		out = append(out, tok.(oracleToken))
	}
	return out
}

// TestTokenize_AgreesWithLexmachine checks longest match and first-rule
// tie breaking against an independent DFA lexer.
func TestTokenize_AgreesWithLexmachine(t *testing.T) {
	def := Definition{}
	for _, r := range differentialRules {
		def.Rules = append(def.Rules, "%"+r.class+" "+r.ours)
	}
	lx := MustCompile(def)

	inputs := []string{
		"if x == 1",
		"iffy=while_1",
		"while(x)\n\tx = x+1.25*y",
		"3.14 314 3 if_ while",
		"a==b=c",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var got []oracleToken
			for _, tok := range lx.Tokenize(input) {
				require.True(t, tok.Valid(), "unexpected invalid token %s", tok)
				got = append(got, oracleToken{Class: tok.Class, Text: tok.Text, Offset: tok.Offset})
			}
			assert.Equal(t, oracleTokenize(t, input), got)
		})
	}
}
