package lexdfa

import (
	"errors"
	"fmt"
	"io"

	"github.com/calmh/xdr"
	"go.uber.org/zap"

	"github.com/coregx/lexdfa/charset"
	"github.com/coregx/lexdfa/dfa"
	"github.com/coregx/lexdfa/internal/conv"
	"github.com/coregx/lexdfa/lexfile"
)

// ErrNotSerializable indicates a lexer compiled against a custom table,
// which cannot be persisted.
var ErrNotSerializable = errors.New("lexdfa: character table is not a *charset.Classes")

const (
	maxRules   = 1 << 16
	maxRuleLen = 1 << 16
)

// MarshalBinary encodes the rule table, the character classes and the DFA.
func (lx *Lexer) MarshalBinary() ([]byte, error) {
	classes, ok := lx.table.(*charset.Classes)
	if !ok {
		return nil, ErrNotSerializable
	}

	size := 4
	for _, r := range lx.rules {
		size += xdrStringSize(r.Text) + xdrStringSize(r.Class) + xdrStringSize(r.Literal)
	}
	size += classes.XDRSize() + lx.dfa.XDRSize()

	m := &xdr.Marshaller{Data: make([]byte, size)}
	m.MarshalUint32(conv.IntToUint32(len(lx.rules)))
	for _, r := range lx.rules {
		m.MarshalString(r.Text)
		m.MarshalString(r.Class)
		m.MarshalString(r.Literal)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if err := classes.MarshalXDRInto(m); err != nil {
		return nil, fmt.Errorf("encoding classes: %w", err)
	}
	if err := lx.dfa.MarshalXDRInto(m); err != nil {
		return nil, fmt.Errorf("encoding DFA: %w", err)
	}
	return m.Data, nil
}

// Load decodes a lexer written by MarshalBinary. Only WithLogger applies.
func Load(data []byte, opts ...Option) (*Lexer, error) {
	o := newOptions(opts)
	u := &xdr.Unmarshaller{Data: data}

	n, ok := conv.Uint32ToInt(u.UnmarshalUint32(), maxRules)
	if !ok {
		return nil, xdr.ElementSizeExceeded("number of rules", n, maxRules)
	}
	rules := make([]Rule, 0, n)
	for i := 0; i < n && u.Error == nil; i++ {
		rules = append(rules, Rule{
			Text:    u.UnmarshalStringMax(maxRuleLen),
			Class:   u.UnmarshalStringMax(maxRuleLen),
			Literal: u.UnmarshalStringMax(maxRuleLen),
		})
	}
	if u.Error != nil {
		return nil, fmt.Errorf("decoding rules: %w", u.Error)
	}

	classes := new(charset.Classes)
	if err := classes.UnmarshalXDRFrom(u); err != nil {
		return nil, fmt.Errorf("decoding classes: %w", err)
	}
	d := new(dfa.DFA)
	if err := d.UnmarshalXDRFrom(u); err != nil {
		return nil, fmt.Errorf("decoding DFA: %w", err)
	}
	d.SetAlphabet(classes)

	for s := 0; s < d.Len(); s++ {
		if a := d.Accept(dfa.StateID(s)); a.Kind != dfa.ActionNone && a.Rule >= len(rules) {
			return nil, fmt.Errorf("%w: state %d refers to rule %d of %d",
				dfa.ErrInvariantViolation, s, a.Rule, len(rules))
		}
	}

	lx, err := newLexer(d, classes, rules, o.logger)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("loaded lexer",
		zap.Int("rules", len(rules)),
		zap.Int("dfa_states", d.Len()),
		zap.Int("classes", classes.Len()))
	return lx, nil
}

// Save writes the lexer to w in the lexfile container format.
func (lx *Lexer) Save(w io.Writer) error {
	payload, err := lx.MarshalBinary()
	if err != nil {
		return err
	}
	return lexfile.Write(w, payload)
}

// Read reads a lexer written by Save.
func Read(r io.Reader, opts ...Option) (*Lexer, error) {
	payload, err := lexfile.Read(r)
	if err != nil {
		return nil, err
	}
	return Load(payload, opts...)
}

func xdrStringSize(s string) int {
	return 4 + len(s) + xdr.Padding(len(s))
}
