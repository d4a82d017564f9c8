package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Vowel", "Vowel"},
		{"  DDK  ", "DDK"},
		{"pa/ta/ka", "pa-ta-ka"},
		{`C:\tmp`, "C--tmp"},
		{"what?", "what"},
		{`"quoted"`, "quoted"},
		{"a|b<c>", "abc"},
		{"..", ""},
		{"?", ""},
	}
	for _, tc := range tests {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
