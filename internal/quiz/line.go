package quiz

import (
	"strings"
	"unicode/utf8"
)

// CollapseLine joins multi-line subtitle text into one line with single spaces.
func CollapseLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Mask replaces every occurrence of word in line, including those inside
// longer words, with underscores of the same rune length.
func Mask(line, word string) string {
	if word == "" {
		return line
	}
	return strings.ReplaceAll(line, word, strings.Repeat("_", utf8.RuneCountInString(word)))
}
