package model

import (
	"strings"
	"time"
)

type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Lines []string
}

// Text joins the cue lines the way a player displays them.
func (c Cue) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Covers reports whether t falls strictly inside the cue.
func (c Cue) Covers(t time.Duration) bool {
	return c.Start < t && t < c.End
}

type Document struct {
	Cues []*Cue
}

// Duration returns the largest cue end, or zero for an empty document.
func (d Document) Duration() time.Duration {
	var end time.Duration
	for _, c := range d.Cues {
		if c.End > end {
			end = c.End
		}
	}
	return end
}
