package quiz

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		expected, guess string
		want            bool
	}{
		{"Hello", " hello ", true},
		{"Hello", "World", false},
		{"", "", true},
		{"fox", "FOX\n", true},
		{"fox", "foxes", false},
		{"fox", "fo", false},
		{"über", "ÜBER", true},
	}
	for _, tt := range tests {
		if got := Equal(tt.expected, tt.guess); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v; want %v", tt.expected, tt.guess, got, tt.want)
		}
	}
}
