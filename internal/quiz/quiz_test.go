package quiz

import (
	"strings"
	"time"

	"github.com/luismascotto/subquiz/internal/model"
)

// scriptedRand replays fixed draws, then repeats the last one.
type scriptedRand struct {
	ints   []int
	floats []float64
	draws  int
}

func (r *scriptedRand) Intn(n int) int {
	r.draws++
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

var fieldsTokenizer = TokenizerFunc(strings.Fields)

func cue(start, end time.Duration, lines ...string) *model.Cue {
	return &model.Cue{Start: start, End: end, Lines: lines}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
