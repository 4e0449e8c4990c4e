package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/luismascotto/subquiz/internal/model"
)

var reSRTTags = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// ParseSRT parses common SRT. Malformed blocks are skipped when ignoreMinorErrors is true.
func ParseSRT(data []byte, ignoreMinorErrors bool) (*model.Document, error) {
	blocks := splitBlocks(data)
	cues := make([]*model.Cue, 0, len(blocks))
	for n, blk := range blocks {
		cue, err := parseSRTBlock(blk)
		if err != nil {
			if ignoreMinorErrors {
				continue
			}
			return nil, fmt.Errorf("block %d: %w", n+1, err)
		}
		cues = append(cues, cue)
	}
	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	renumber(cues)
	return &model.Document{Cues: cues}, nil
}

func parseSRTBlock(lines []string) (*model.Cue, error) {
	// The index line is optional in the wild; find the timing line instead of trusting position.
	timing := -1
	for i := 0; i < len(lines) && i < 2; i++ {
		if strings.Contains(lines[i], "-->") {
			timing = i
			break
		}
	}
	if timing < 0 {
		return nil, errors.New("missing timing line")
	}
	start, end, err := parseSRTTimingLine(lines[timing])
	if err != nil {
		return nil, fmt.Errorf("parse timing: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("cue ends before it starts (%v < %v)", end, start)
	}
	text := make([]string, 0, len(lines)-timing-1)
	for _, l := range lines[timing+1:] {
		text = append(text, strings.TrimSpace(reSRTTags.ReplaceAllString(l, "")))
	}
	return &model.Cue{Start: start, End: end, Lines: text}, nil
}

func parseSRTTimingLine(line string) (time.Duration, time.Duration, error) {
	// 00:00:01,234 --> 00:00:04,567 [X1:.. position hints]
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, errors.New("invalid timing separator")
	}
	if f := strings.Fields(right); len(f) > 0 {
		right = f[0]
	}
	start, err := parseSRTTime(left)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	end, err := parseSRTTime(right)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	return start, end, nil
}

func parseSRTTime(s string) (time.Duration, error) {
	// HH:MM:SS,mmm (some encoders write a dot instead of the comma)
	s = strings.TrimSpace(s)
	clock, millis, ok := strings.Cut(strings.Replace(s, ".", ",", 1), ",")
	if !ok {
		return 0, errors.New("missing millis")
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid h:m:s %q", clock)
	}
	var parts [4]int
	for i, field := range append(hms, millis) {
		v, err := strconv.Atoi(field)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", field, err)
		}
		parts[i] = v
	}
	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3])*time.Millisecond, nil
}
