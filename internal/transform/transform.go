package transform

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode"

	"github.com/luismascotto/subquiz/internal/rules"
)

var (
	reSpaces              = regexp.MustCompile(`\s{2,}`)
	reUppercaseColonWords = regexp.MustCompile(`\b[A-Z]{2,}(?:\s+\d+)?:\s*`)
	reSingleLineColon     = regexp.MustCompile(`^(?:\S+\s+){0,2}\S+:$`)
)

// Cleaner strips speaker labels and sound descriptions from a subtitle line
// so that only spoken words reach the tokenizer.
type Cleaner struct {
	conf       rules.Cleanup
	delimiters []delimiter
}

type delimiter struct {
	name string
	re   *regexp.Regexp
}

// NewCleaner compiles the delimiter rules of conf.
func NewCleaner(conf rules.Cleanup) (*Cleaner, error) {
	c := &Cleaner{conf: conf}
	for _, d := range conf.RemoveBetweenDelimiters {
		if d.Left == "" || d.Right == "" {
			return nil, fmt.Errorf("empty delimiter %+v", d)
		}
		protectBackslash := ""
		if d.Left == "{" {
			// ASS override blocks look like {\i1}; keep them out of reach
			protectBackslash = `\\`
		}
		left := regexp.QuoteMeta(d.Left)
		right := regexp.QuoteMeta(d.Right)
		// Negated class against the right delimiter keeps the match from
		// spanning two delimited groups.
		re, err := regexp.Compile(fmt.Sprintf(`%s[^%s%s]*%s`, left, protectBackslash, right, right))
		if err != nil {
			return nil, fmt.Errorf("delimiter %s%s: %w", d.Left, d.Right, err)
		}
		c.delimiters = append(c.delimiters, delimiter{name: d.Left + d.Right, re: re})
	}
	return c, nil
}

// Clean applies the enabled rules to line. It returns "" when nothing
// alphabetic is left.
func (c *Cleaner) Clean(line string) string {
	text := line
	var applied []string

	if c.conf.RemoveLineIfContains != "" && strings.Contains(text, c.conf.RemoveLineIfContains) {
		log.Printf("cleanup: %q dropped (removeLineIfContains)", line)
		return ""
	}

	if c.conf.RemoveUppercaseColonWords {
		var hit bool
		if hit, text = removeUppercaseColonWords(text); hit {
			applied = append(applied, "removeUppercaseColonWords")
		}
	}

	if c.conf.RemoveSingleLineColon {
		var hit bool
		if hit, text = removeSingleLineColon(text); hit {
			applied = append(applied, "removeSingleLineColon")
		}
	}

	for _, d := range c.delimiters {
		if text == "" {
			break
		}
		if d.re.MatchString(text) {
			applied = append(applied, "removeBetweenDelimiters"+d.name)
			text = strings.TrimSpace(d.re.ReplaceAllString(text, ""))
		}
	}

	text = strings.TrimSpace(collapseSpaces(text))
	if !lineHasAlphabetic(text) {
		text = ""
	}
	if len(applied) > 0 {
		log.Printf("cleanup: %q -> %q (rules applied: %v)", line, text, applied)
	}
	return text
}

func removeUppercaseColonWords(s string) (bool, string) {
	if len(s) > 0 && reUppercaseColonWords.MatchString(s) {
		return true, reUppercaseColonWords.ReplaceAllString(s, "")
	}
	return false, s
}

func removeSingleLineColon(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && reSingleLineColon.MatchString(s) {
		return true, ""
	}
	return false, s
}

func collapseSpaces(s string) string {
	return reSpaces.ReplaceAllString(s, " ")
}

func lineHasAlphabetic(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
