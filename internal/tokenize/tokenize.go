// Package tokenize splits subtitle lines into words with prose's Treebank
// style tokenizer.
package tokenize

import (
	"log"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// Cleaner rewrites a line before it is tokenized.
type Cleaner interface {
	Clean(line string) string
}

// Prose implements quiz.Tokenizer.
type Prose struct {
	cleaner Cleaner
}

// New returns a tokenizer that runs cleaner first when it is not nil.
func New(cleaner Cleaner) *Prose {
	return &Prose{cleaner: cleaner}
}

// Tokenize returns the tokens of line. Punctuation tokens are kept, since
// they count toward the length of the line, but stray punctuation is trimmed
// off the ends of word tokens.
func (p *Prose) Tokenize(line string) []string {
	if p.cleaner != nil {
		line = p.cleaner.Clean(line)
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}
	doc, err := prose.NewDocument(line,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		log.Printf("tokenize %q: %v", line, err)
		return nil
	}
	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		text := tok.Text
		if isWord(text) {
			text = trimPunct(text)
		}
		out = append(out, text)
	}
	return out
}

// trimPunct strips leading and trailing punctuation and symbols; inner
// apostrophes and hyphens stay.
func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func isWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
