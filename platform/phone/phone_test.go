package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "national number gets country code", input: "98765 43210", want: "+919876543210"},
		{name: "already E.164", input: "+919876543210", want: "+919876543210"},
		{name: "foreign number keeps its prefix", input: "+31612345678", want: "+31612345678"},
		{name: "whitespace trimmed", input: "  +919876543210  ", want: "+919876543210"},
		{name: "garbage passes through trimmed", input: " not-a-number ", want: "not-a-number"},
		{name: "empty stays empty", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
