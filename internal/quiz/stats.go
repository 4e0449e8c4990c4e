package quiz

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Attempt is one answered blank.
type Attempt struct {
	Word    string
	Correct bool
}

// Stats keeps every attempt of a session in the order it was made. It is
// append-only and has a single writer: the Scheduler.
type Stats struct {
	attempts []Attempt
}

func (s *Stats) RecordCorrect(word string) {
	s.attempts = append(s.attempts, Attempt{Word: word, Correct: true})
}

func (s *Stats) RecordIncorrect(word string) {
	s.attempts = append(s.attempts, Attempt{Word: word, Correct: false})
}

// Attempts returns a copy of the recorded attempts.
func (s *Stats) Attempts() []Attempt {
	return append([]Attempt(nil), s.attempts...)
}

func (s *Stats) Report() Report {
	r := Report{Correct: []string{}, Incorrect: []string{}}
	for _, a := range s.attempts {
		if a.Correct {
			r.Correct = append(r.Correct, a.Word)
		} else {
			r.Incorrect = append(r.Incorrect, a.Word)
		}
	}
	return r
}

// Report lists blanked words by outcome, each in chronological order.
type Report struct {
	Correct   []string
	Incorrect []string
}

func (r Report) Counts() (correct, incorrect int) {
	return len(r.Correct), len(r.Incorrect)
}

// Markdown renders the report for the end-of-session panel.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Session summary\n\n")
	fmt.Fprintf(&b, "**Correct:** %d  \n**Incorrect:** %d\n", len(r.Correct), len(r.Incorrect))
	section := func(title string, words []string) {
		if len(words) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		for _, w := range words {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	section("Correct", r.Correct)
	section("Incorrect", r.Incorrect)
	return b.String()
}

// WriteTo prints the plain teardown listing: correct words, then incorrect
// words, one per line.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	write := func(s string) {
		m, _ := bw.WriteString(s)
		n += int64(m)
	}
	write("Correct:\n")
	for _, word := range r.Correct {
		write(word + "\n")
	}
	write("Incorrect:\n")
	for _, word := range r.Incorrect {
		write(word + "\n")
	}
	return n, bw.Flush()
}
