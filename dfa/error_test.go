package dfa

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: InvariantViolation, Message: "bad graph", Cause: cause}

	if got := err.Error(); got != "bad graph: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !errors.Is(err, ErrInvariantViolation) {
		t.Error("errors.Is should match by kind")
	}
	if errors.Is(err, ErrStateLimitExceeded) {
		t.Error("different kinds must not match")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", ErrStateLimitExceeded), ErrStateLimitExceeded) {
		t.Error("wrapped sentinel should match")
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{StateLimitExceeded, "StateLimitExceeded"},
		{InvariantViolation, "InvariantViolation"},
		{InvalidConfig, "InvalidConfig"},
		{ErrorKind(99), "UnknownErrorKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
