package quiz

import "strings"

// Equal compares a guess with the expected word ignoring case and surrounding
// whitespace. Nothing looser than that counts.
func Equal(expected, guess string) bool {
	return strings.ToLower(strings.TrimSpace(expected)) == strings.ToLower(strings.TrimSpace(guess))
}
