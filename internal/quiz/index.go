// Package quiz holds the subtitle-synchronized quiz engine: cue lookup, blank
// selection, answer checking, score keeping and the scheduler that decides
// when a line gets quizzed.
package quiz

import (
	"sort"
	"time"

	"github.com/luismascotto/subquiz/internal/model"
)

// Index answers which cue covers a playback position. It is built once and
// read-only afterwards.
type Index struct {
	cues []model.Cue
}

// NewIndex copies cues and orders them by start time. Overlapping cues are
// kept; ties keep their file order.
func NewIndex(cues []*model.Cue) *Index {
	out := make([]model.Cue, 0, len(cues))
	for _, c := range cues {
		if c != nil {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return &Index{cues: out}
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.cues)
}

// Lookup returns the first cue, in start order, with start < t < end.
// Boundaries are exclusive: a position exactly on a start or end matches nothing.
func (x *Index) Lookup(t time.Duration) (model.Cue, bool) {
	if x == nil {
		return model.Cue{}, false
	}
	// cues starting at or after t cannot cover it
	n := sort.Search(len(x.cues), func(i int) bool { return x.cues[i].Start >= t })
	for _, c := range x.cues[:n] {
		if c.Covers(t) {
			return c, true
		}
	}
	return model.Cue{}, false
}

// Remaining is the time left until the covering cue ends.
func (x *Index) Remaining(t time.Duration) (time.Duration, bool) {
	c, ok := x.Lookup(t)
	if !ok {
		return 0, false
	}
	return c.End - t, true
}
