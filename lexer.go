// Package lexdfa compiles lexical rules into a DFA-driven tokenizer.
//
// A rule set is a list of rule patterns plus an optional macro table. Each
// rule is compiled to a regex AST, every AST becomes one fragment of a shared
// Thompson NFA, and subset construction turns the NFA into a DFA whose states
// carry the winning rule's action. Matching is longest-match: the longest
// prefix wins, and among equal lengths the earliest-declared rule wins.
//
// Basic usage:
//
//	lx, err := lexdfa.Compile(lexdfa.Definition{
//	    Macros: map[string]string{"digit": "[0-9]"},
//	    Rules: []string{
//	        "%Keyword 'if'",
//	        "%Ident {Letter}({Letter}|{digit})*",
//	        "%Number {digit}+",
//	        "%Space [ \\t\\n]+",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, tok := range lx.Tokenize("if x1 42") {
//	    fmt.Println(tok.Class, tok.Text)
//	}
//
// Rule syntax:
//   - 'text' or "text": literal; U'text' matches under case folding
//   - [a-z], [^a-z]: character sets; . is any character but newline
//   - {name}: a macro, else a character category such as {Letter}
//   - ( ), |, ?, *, +: grouping, alternation and repetition
//   - \n, \t, \r, \NNN (octal), \c: escapes
//
// A rule starting with %Name declares the token class Name; other rules
// report a numeric (legacy) action id.
//
// A compiled Lexer is immutable and safe for concurrent use.
package lexdfa

import (
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
	"go.uber.org/zap"

	"github.com/coregx/lexdfa/charset"
	"github.com/coregx/lexdfa/dfa"
	"github.com/coregx/lexdfa/nfa"
	"github.com/coregx/lexdfa/syntax"
)

// ErrNoRules indicates an empty rule set.
var ErrNoRules = errors.New("lexdfa: no rules")

// ErrTableFrozen indicates a WithTable table that an earlier Compile already
// froze. Compile each rule set against a fresh table.
var ErrTableFrozen = errors.New("lexdfa: character table is frozen")

// RuleError reports a rule that failed to compile.
type RuleError struct {
	Index int
	Text  string
	Err   error
}

// Error implements the error interface
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d %q: %v", e.Index, e.Text, e.Err)
}

// Unwrap returns the underlying error
func (e *RuleError) Unwrap() error {
	return e.Err
}

// Rule describes one compiled rule.
type Rule struct {
	// Text is the rule as written, including any %Class prefix.
	Text string

	// Class is the declared token class, or "" for a legacy rule.
	Class string

	// Literal is the exact text the rule matches when it is a plain literal.
	Literal string
}

type options struct {
	logger    *zap.Logger
	table     charset.Table
	maxStates int
	syntax    syntax.Config
}

// Option configures Compile and Load.
type Option func(*options)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTable sets the character table rules are compiled against. A
// *charset.Classes table is frozen by Compile and cannot be passed to
// another Compile (ErrTableFrozen); other tables must not change once
// Compile returns.
func WithTable(table charset.Table) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithMaxStates limits the number of DFA states.
func WithMaxStates(n int) Option {
	return func(o *options) {
		o.maxStates = n
	}
}

// WithMaxDepth limits group and macro nesting per rule.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.syntax.MaxDepth = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		maxStates: dfa.DefaultConfig().MaxStates,
		syntax:    syntax.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Lexer is a compiled rule set.
type Lexer struct {
	dfa   *dfa.DFA
	table charset.Canonicalizer
	rules []Rule

	// sync finds occurrences of literal rules during error recovery.
	sync *ahocorasick.Automaton

	logger *zap.Logger
}

// Compile compiles a rule set.
func Compile(def Definition, opts ...Option) (*Lexer, error) {
	o := newOptions(opts)
	if len(def.Rules) == 0 {
		return nil, ErrNoRules
	}
	if o.table == nil {
		o.table = charset.NewClasses()
	}
	if classes, ok := o.table.(*charset.Classes); ok && classes.Frozen() {
		return nil, ErrTableFrozen
	}

	compiler := syntax.NewCompiler(o.syntax, syntax.Macros(def.Macros), o.table)
	builder := nfa.NewBuilder()
	rules := make([]Rule, len(def.Rules))
	for i, text := range def.Rules {
		class, pattern := syntax.ParseRule(text)
		node, err := compiler.Compile(pattern)
		if err != nil {
			return nil, &RuleError{Index: i, Text: text, Err: err}
		}
		frag := builder.AddRule(node, class)

		rules[i] = Rule{Text: text, Class: class}
		if lit, ok := node.Literal(); ok {
			rules[i].Literal = lit
		}
		o.logger.Debug("compiled rule",
			zap.Int("rule", i),
			zap.String("class", class),
			zap.Stringer("ast", node),
			zap.Uint32("end", uint32(frag.End)))
	}

	n, err := builder.NFA()
	if err != nil {
		return nil, fmt.Errorf("building NFA: %w", err)
	}
	if classes, ok := o.table.(*charset.Classes); ok {
		classes.Freeze()
	}

	d, err := dfa.Construct(n, o.table, dfa.WithMaxStates(o.maxStates))
	if err != nil {
		return nil, fmt.Errorf("constructing DFA: %w", err)
	}

	lx, err := newLexer(d, o.table, rules, o.logger)
	if err != nil {
		return nil, err
	}
	o.logger.Info("compiled lexer",
		zap.Int("rules", len(rules)),
		zap.Int("nfa_states", n.States()),
		zap.Int("dfa_states", d.Len()),
		zap.Int("classes", len(o.table.Representatives())))
	return lx, nil
}

// MustCompile is like Compile but panics if the rule set cannot be compiled.
func MustCompile(def Definition, opts ...Option) *Lexer {
	lx, err := Compile(def, opts...)
	if err != nil {
		panic(`lexdfa: Compile: ` + err.Error())
	}
	return lx
}

func newLexer(d *dfa.DFA, table charset.Canonicalizer, rules []Rule, logger *zap.Logger) (*Lexer, error) {
	lx := &Lexer{
		dfa:    d,
		table:  table,
		rules:  rules,
		logger: logger,
	}

	builder := ahocorasick.NewBuilder()
	literals := 0
	for _, r := range rules {
		if r.Literal != "" {
			builder.AddPattern([]byte(r.Literal))
			literals++
		}
	}
	if literals > 0 {
		auto, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("building literal automaton: %w", err)
		}
		lx.sync = auto
	}
	return lx, nil
}

// DFA returns the compiled automaton.
func (lx *Lexer) DFA() *dfa.DFA {
	return lx.dfa
}

// Rules returns the rules in declaration order.
func (lx *Lexer) Rules() []Rule {
	return lx.rules
}

// String returns a short description of the lexer
func (lx *Lexer) String() string {
	return fmt.Sprintf("Lexer{rules: %d, states: %d}", len(lx.rules), lx.dfa.Len())
}
