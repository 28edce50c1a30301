package ui

import "testing"

func TestTokenMatch(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"yes", true},
		{"Yes", false},
		{"YES", false},
		{"y", false},
		{" yes", false},
		{"yes ", false},
		{"no", false},
		{"", false},
	} {
		if got := tokenMatch(tc.input, "yes"); got != tc.want {
			t.Errorf("tokenMatch(%q, \"yes\") = %v, want %v", tc.input, got, tc.want)
		}
	}
}
