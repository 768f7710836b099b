package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/lexdfa"
)

const definition = `
macros:
  digit: "[0-9]"
rules:
  - "%Keyword 'let'"
  - "%Ident {Letter}+"
  - "%Number {digit}+"
  - "%Space [ \\t\\n]+"
  - "'='"
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileTokenizeDump(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "rules.yaml")
	lexPath := filepath.Join(dir, "rules.lxdf")
	require.NoError(t, os.WriteFile(defPath, []byte(definition), 0o644))

	out, err := run(t, "", "compile", defPath, "-o", lexPath)
	require.NoError(t, err)
	assert.Contains(t, out, "5 rules")

	out, err = run(t, "let x = 42", "tokenize", "-l", lexPath)
	require.NoError(t, err)

	var tokens []lexdfa.Token
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var tok lexdfa.Token
		require.NoError(t, json.Unmarshal([]byte(line), &tok), line)
		tokens = append(tokens, tok)
	}
	require.Len(t, tokens, 7)
	assert.Equal(t, "Keyword", tokens[0].Class)
	assert.Equal(t, "Ident", tokens[2].Class)
	assert.Equal(t, 4, tokens[4].Rule)
	assert.Equal(t, "Number", tokens[6].Class)
	assert.Equal(t, "42", tokens[6].Text)

	out, err = run(t, "", "dump", lexPath)
	require.NoError(t, err)
	assert.Contains(t, out, "rule 0: %Keyword 'let'")
	assert.Contains(t, out, "DFAState(id=0")
}

func TestTokenizeStrict(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(defPath, []byte(definition), 0o644))

	_, err := run(t, "", "compile", defPath)
	require.NoError(t, err)
	lexPath := filepath.Join(dir, "rules.lxdf")

	_, err = run(t, "x ? y", "tokenize", "--strict", "-l", lexPath)
	assert.Error(t, err)

	out, err := run(t, "x ? y", "tokenize", "-l", lexPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"rule":-1`)
}

func TestCompileErrors(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(defPath, []byte("rules:\n  - \"'unterminated\"\n"), 0o644))

	_, err := run(t, "", "compile", defPath)
	var re *lexdfa.RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Index)

	_, err = run(t, "", "dump", filepath.Join(dir, "missing.lxdf"))
	assert.Error(t, err)
}
