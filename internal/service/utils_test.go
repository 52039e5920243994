package service

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  lunch ", "lunch"},
		{"caf\xc3\xa9", "café"},
		{"bad\xffbyte", "badbyte"},
		{"\xff", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
