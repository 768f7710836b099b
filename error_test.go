package lexdfa

import (
	"errors"
	"testing"

	"github.com/coregx/lexdfa/syntax"
)

// TestRuleError_Format verifies that rule errors name the rule and the cause.
func TestRuleError_Format(t *testing.T) {
	tests := []struct {
		rules []string
		want  string
	}{
		{
			rules: []string{"'ok'", "(abc"},
			want:  `rule 1 "(abc": malformed pattern "(abc" at offset 0: unterminated group`,
		},
		{
			rules: []string{"{nope}"},
			want:  `rule 0 "{nope}": unresolved macro or category {nope}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := Compile(Definition{Rules: tt.rules})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRuleError_Unwrap verifies errors.As reaches the syntax error.
func TestRuleError_Unwrap(t *testing.T) {
	_, err := Compile(Definition{Rules: []string{"{a}"}, Macros: map[string]string{"a": "{a}"}})
	var mce *syntax.MacroCycleError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MacroCycleError, got %v", err)
	}
	var re *RuleError
	if !errors.As(err, &re) || re.Index != 0 {
		t.Errorf("expected RuleError for rule 0, got %v", err)
	}
}
