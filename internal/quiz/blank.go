package quiz

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinBlankLength is the shortest token, in runes, that can be blanked.
	MinBlankLength = 3
	// MinTokens is the shortest line, in tokens, that gets quizzed.
	MinTokens = 3
	// DefaultMaxAttempts bounds the draws ChooseBlank makes.
	DefaultMaxAttempts = 10
)

// Rand is the part of *math/rand.Rand the engine draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Blank is the word masked while a quiz is running.
type Blank struct {
	Word string
}

// Blacklist holds lowercase words that are never blanked.
type Blacklist map[string]struct{}

func NewBlacklist(words ...string) Blacklist {
	bl := make(Blacklist, len(words))
	for _, w := range words {
		bl.Add(w)
	}
	return bl
}

// ReadBlacklist reads one word per line. Entries are trimmed and lowercased;
// blank lines are skipped.
func ReadBlacklist(r io.Reader) (Blacklist, error) {
	bl := Blacklist{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		bl.Add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return bl, nil
}

func (b Blacklist) Add(word string) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w != "" {
		b[w] = struct{}{}
	}
}

func (b Blacklist) Contains(word string) bool {
	_, ok := b[strings.ToLower(word)]
	return ok
}

// Blankable reports whether token may be chosen as a blank. Punctuation
// never is, whatever its length.
func Blankable(token string, blacklist Blacklist) bool {
	if utf8.RuneCountInString(token) < MinBlankLength || blacklist.Contains(token) {
		return false
	}
	return strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

// ChooseBlank draws up to maxAttempts uniformly random tokens (with
// replacement) and returns the first blankable one. It gives up after
// maxAttempts draws even if an eligible token exists.
func ChooseBlank(rng Rand, tokens []string, blacklist Blacklist, maxAttempts int) (Blank, bool) {
	if len(tokens) == 0 {
		return Blank{}, false
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tok := tokens[rng.Intn(len(tokens))]
		if Blankable(tok, blacklist) {
			return Blank{Word: tok}, true
		}
	}
	return Blank{}, false
}
