package dfa

import (
	"sync"
	"testing"
)

func TestMatch_LongestMatch(t *testing.T) {
	d := build(t, nil, "a", "ab")
	m := d.Match("ab", 0)
	if m.Len != 2 || m.Action.Rule != 1 {
		t.Errorf("Match(ab) = %+v, want length 2 with rule 1", m)
	}
	m = d.Match("ac", 0)
	if m.Len != 1 || m.Action.Rule != 0 {
		t.Errorf("Match(ac) = %+v, want fallback to rule 0 with length 1", m)
	}
}

func TestMatch_Fallback(t *testing.T) {
	// "abc" fails at 'x', so the walk falls back to the "a" acceptance.
	d := build(t, nil, "%A 'a'", "%ABC 'abc'")
	m := d.Match("abx", 0)
	if m.Len != 1 || m.Action.Class != "A" {
		t.Errorf("Match(abx) = %+v, want A of length 1", m)
	}
	m = d.Match("abcabc", 3)
	if m.Len != 3 || m.Action.Class != "ABC" {
		t.Errorf("Match at 3 = %+v, want ABC of length 3", m)
	}
}

func TestMatch_CharacterClasses(t *testing.T) {
	tests := []struct {
		rule  string
		text  string
		match bool
	}{
		{"[a-c]", "a", true},
		{"[a-c]", "b", true},
		{"[a-c]", "c", true},
		{"[a-c]", "d", false},
		{"[^a-c]", "a", false},
		{"[^a-c]", "b", false},
		{"[^a-c]", "c", false},
		{"[^a-c]", "d", true},
		{"[^a-c]", "ж", true},
	}
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.text, func(t *testing.T) {
			d := build(t, nil, tt.rule)
			m := d.Match(tt.text, 0)
			if m.Matched() != tt.match {
				t.Fatalf("Match(%q) = %+v, want matched=%v", tt.text, m, tt.match)
			}
			if tt.match && m.Len != len(tt.text) {
				t.Errorf("Len = %d, want %d", m.Len, len(tt.text))
			}
		})
	}
}

func TestMatch_Escape(t *testing.T) {
	d := build(t, nil, `"\n"`)
	if m := d.Match("\n", 0); m.Len != 1 || !m.Matched() {
		t.Errorf("newline should match with length 1, got %+v", m)
	}
	if m := d.Match(`\n`, 0); m.Matched() {
		t.Errorf("backslash-n text must not match, got %+v", m)
	}
}

func TestMatch_CaseFold(t *testing.T) {
	d := build(t, nil, "%Select U'select'")
	for _, text := range []string{"select", "SELECT", "SeLeCt"} {
		if m := d.Match(text, 0); m.Len != 6 || m.Action.Class != "Select" {
			t.Errorf("Match(%q) = %+v", text, m)
		}
	}
	if m := d.Match("selekt", 0); m.Matched() {
		t.Errorf("selekt should not match, got %+v", m)
	}
}

func TestMatch_Categories(t *testing.T) {
	d := build(t, nil, "%Word {Letter}+", "%Num {Digit}+")
	m := d.Match("héllo world", 0)
	if m.Len != len("héllo") || m.Action.Class != "Word" {
		t.Errorf("Match = %+v, want Word of %d bytes", m, len("héllo"))
	}
	m = d.Match("42x", 0)
	if m.Len != 2 || m.Action.Class != "Num" {
		t.Errorf("Match = %+v, want Num of 2 bytes", m)
	}
}

func TestMatch_EmptyRule(t *testing.T) {
	d := build(t, nil, "%Empty", "%A 'a'")
	if m := d.Match("b", 0); m.Len != 0 || m.Action.Class != "Empty" {
		t.Errorf("Match(b) = %+v, want zero-length Empty", m)
	}
	if m := d.Match("a", 0); m.Len != 1 || m.Action.Class != "A" {
		t.Errorf("Match(a) = %+v, want A", m)
	}
}

func TestMatch_OutOfRange(t *testing.T) {
	d := build(t, nil, "a")
	for _, pos := range []int{-1, 2, 100} {
		if m := d.Match("a", pos); m.Matched() {
			t.Errorf("Match at %d = %+v, want no match", pos, m)
		}
	}
	if m := d.Match("", 0); m.Matched() {
		t.Errorf("Match on empty input = %+v", m)
	}
	if m := (&DFA{}).Match("a", 0); m.Matched() {
		t.Errorf("empty DFA matched: %+v", m)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	d := build(t, nil,
		"%Ident [a-z][a-z0-9]*",
		"%Num [0-9]+",
		"%Keyword 'if'",
		"%Space [ \t\n]+",
		"'=='",
		"'='",
	)
	inputs := []string{"if", "iffy", "x1 == 2", "==", "=", "  \n", "9abc", "?"}
	for _, in := range inputs {
		first := d.Match(in, 0)
		for i := 0; i < 3; i++ {
			if again := d.Match(in, 0); again != first {
				t.Errorf("Match(%q) not deterministic: %+v then %+v", in, first, again)
			}
		}
	}
}

// TestMatch_Concurrent shares one DFA between goroutines; run with -race.
func TestMatch_Concurrent(t *testing.T) {
	d := build(t, nil,
		"%Ident [a-z][a-z0-9]*",
		"%Num [0-9]+",
		"%Keyword 'if'",
		"'=='",
	)
	inputs := []string{"if", "iffy", "x1", "==", "42", "?"}
	want := make([]Match, len(inputs))
	for i, in := range inputs {
		want[i] = d.Match(in, 0)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8*len(inputs))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				for i, in := range inputs {
					if got := d.Match(in, 0); got != want[i] {
						errs <- in
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("concurrent Match(%q) disagreed with the sequential result", in)
	}
}
