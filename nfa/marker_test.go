package nfa

import "testing"

func TestMarker_Precedes(t *testing.T) {
	none := Marker{}
	tests := []struct {
		name string
		a, b Marker
		want bool
	}{
		{"none never precedes", none, Legacy(3, 0), false},
		{"anything precedes none", Legacy(3, 5), none, true},
		{"none vs none", none, none, false},
		{"earlier rule legacy", Legacy(9, 0), Named("Ident", 1), true},
		{"later rule named", Named("Ident", 1), Legacy(9, 0), false},
		{"earlier named", Named("Keyword", 0), Named("Ident", 1), true},
		{"same rule named over legacy", Named("Keyword", 2), Legacy(7, 2), true},
		{"same rule legacy over named", Legacy(7, 2), Named("Keyword", 2), false},
		{"same rule legacy", Legacy(7, 2), Legacy(8, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Precedes(tt.b); got != tt.want {
				t.Errorf("%s.Precedes(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMarker_String(t *testing.T) {
	tests := []struct {
		m    Marker
		want string
	}{
		{Marker{}, "None"},
		{Legacy(4, 1), "Legacy(4, rule 1)"},
		{Named("Keyword", 0), "Named(%Keyword, rule 0)"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if got := MarkerKind(42).String(); got != "Unknown(42)" {
		t.Errorf("MarkerKind(42).String() = %q", got)
	}
}
