package lexdfa

import (
	"fmt"
	"unicode/utf8"

	"github.com/coregx/lexdfa/dfa"
)

// InvalidRule is the Rule of a token that no rule matched.
const InvalidRule = -1

// Token is one token produced by Match or Tokenize.
type Token struct {
	// Rule is the declaration index of the matching rule, or InvalidRule.
	Rule int `json:"rule"`

	// Class is the token class of a named rule.
	Class string `json:"class,omitempty"`

	// Action is the legacy action id of an unnamed rule.
	Action uint32 `json:"action,omitempty"`

	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// Valid reports whether a rule matched the token.
func (t Token) Valid() bool {
	return t.Rule != InvalidRule
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	switch {
	case !t.Valid():
		return fmt.Sprintf("Invalid(%q @%d)", t.Text, t.Offset)
	case t.Class != "":
		return fmt.Sprintf("%%%s(%q @%d)", t.Class, t.Text, t.Offset)
	default:
		return fmt.Sprintf("#%d(%q @%d)", t.Action, t.Text, t.Offset)
	}
}

// Match returns the longest token starting at byte offset pos. It reports
// false if no rule matches a non-empty prefix.
func (lx *Lexer) Match(text string, pos int) (Token, bool) {
	m := lx.dfa.Match(text, pos)
	if !m.Matched() || m.Len == 0 {
		return Token{Rule: InvalidRule, Offset: pos}, false
	}
	tok := Token{
		Rule:   m.Action.Rule,
		Text:   text[pos : pos+m.Len],
		Offset: pos,
	}
	switch m.Action.Kind {
	case dfa.ActionNamed:
		tok.Class = m.Action.Class
	case dfa.ActionLegacy:
		tok.Action = m.Action.ID
	}
	return tok, true
}

// Tokenize splits text into tokens by repeated longest match. Text no rule
// matches becomes an invalid token that extends to the next point where
// matching may resume: the start of a literal rule's text, or a character
// the DFA start state has a transition for.
func (lx *Lexer) Tokenize(text string) []Token {
	var (
		tokens []Token
		data   []byte
	)
	for pos := 0; pos < len(text); {
		if tok, ok := lx.Match(text, pos); ok {
			tokens = append(tokens, tok)
			pos += len(tok.Text)
			continue
		}

		if data == nil {
			data = []byte(text)
		}
		end := lx.resync(text, data, pos)
		if n := len(tokens); n > 0 && !tokens[n-1].Valid() && tokens[n-1].Offset+len(tokens[n-1].Text) == pos {
			tokens[n-1].Text = text[tokens[n-1].Offset:end]
		} else {
			tokens = append(tokens, Token{Rule: InvalidRule, Text: text[pos:end], Offset: pos})
		}
		pos = end
	}
	return tokens
}

// resync returns the offset after pos where matching may resume, or
// len(text). It always skips at least one character.
func (lx *Lexer) resync(text string, data []byte, pos int) int {
	_, w := utf8.DecodeRuneInString(text[pos:])
	from := pos + w

	limit := len(text)
	if lx.sync != nil && from < len(data) {
		if m := lx.sync.Find(data, from); m != nil && m.Start >= from {
			limit = m.Start
		}
	}

	start := lx.dfa.Start()
	for i := from; i < limit; {
		r, w := utf8.DecodeRuneInString(text[i:])
		if _, ok := lx.dfa.Transition(start, r); ok {
			return i
		}
		i += w
	}
	return limit
}
