package quiz

import "testing"

func TestCollapseLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The quick brown\nfox jumps", "The quick brown fox jumps"},
		{"  padded \n\n  lines  ", "padded lines"},
		{"\n \t", ""},
	}
	for _, tt := range tests {
		if got := CollapseLine(tt.in); got != tt.want {
			t.Errorf("CollapseLine(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		name, line, word, want string
	}{
		{"single word", "The quick brown fox", "fox", "The quick brown ___"},
		{"every whole occurrence", "fox and fox", "fox", "___ and ___"},
		{"inside longer words too", "there is the cat", "the", "___re is ___ cat"},
		{"answer never left visible", "The fox chased foxes", "fox", "The ___ chased ___es"},
		{"punctuation around", "Stop, thief!", "thief", "Stop, _____!"},
		{"rune length", "c'est l'été", "été", "c'est l'___"},
		{"only inside a word", "don't", "n't", "do___"},
		{"absent", "nothing here", "fox", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.line, tt.word); got != tt.want {
				t.Errorf("Mask(%q, %q) = %q; want %q", tt.line, tt.word, got, tt.want)
			}
		})
	}
}
