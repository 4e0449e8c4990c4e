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

// default field positions of a v4+ Events Format line
const (
	assStartField = 1
	assEndField   = 2
	assFieldCount = 10
)

var reASSOverride = regexp.MustCompile(`\{\\[^}]*\}`)

// ParseASS reads Dialogue lines from the [Events] section. Styles, fonts and
// override tags are dropped; only timing and plain text survive.
func ParseASS(data []byte) (*model.Document, error) {
	var events []string
	inEvents := false
	for _, blk := range splitBlocks(data) {
		for _, l := range blk {
			if strings.HasPrefix(l, "[") {
				inEvents = strings.EqualFold(strings.TrimSpace(l), "[Events]")
				continue
			}
			if inEvents {
				events = append(events, l)
			}
		}
	}
	if len(events) == 0 {
		return nil, errors.New("no [Events] section")
	}

	startIdx, endIdx, textIdx := assStartField, assEndField, assFieldCount-1
	cues := make([]*model.Cue, 0, len(events))
	for _, line := range events {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Format":
			startIdx, endIdx, textIdx = assFormatIndexes(value)
		case "Dialogue":
			// Text is always the last field and may itself contain commas.
			parts := strings.SplitN(value, ",", textIdx+1)
			if len(parts) <= textIdx {
				return nil, fmt.Errorf("invalid dialogue line: %s", line)
			}
			start, err := parseASSTime(parts[startIdx])
			if err != nil {
				return nil, fmt.Errorf("parse start timing: %w", err)
			}
			end, err := parseASSTime(parts[endIdx])
			if err != nil {
				return nil, fmt.Errorf("parse end timing: %w", err)
			}
			text := reASSOverride.ReplaceAllString(parts[textIdx], "")
			text = strings.ReplaceAll(text, `\n`, `\N`)
			cues = append(cues, &model.Cue{
				Start: start,
				End:   end,
				Lines: strings.Split(text, `\N`),
			})
		}
	}
	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	renumber(cues)
	return &model.Document{Cues: cues}, nil
}

func assFormatIndexes(format string) (start, end, text int) {
	start, end, text = assStartField, assEndField, assFieldCount-1
	fields := strings.Split(format, ",")
	for i, f := range fields {
		switch strings.TrimSpace(f) {
		case "Start":
			start = i
		case "End":
			end = i
		case "Text":
			text = i
		}
	}
	return start, end, text
}

func parseASSTime(s string) (time.Duration, error) {
	// h:mm:ss.cs (ASS/SSA uses centiseconds after '.')
	s = strings.TrimSpace(s)
	clock, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0, errors.New("missing fraction")
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, errors.New("invalid h:m:s")
	}
	var total time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		v, err := strconv.Atoi(hms[i])
		if err != nil {
			return 0, err
		}
		total += time.Duration(v) * unit
	}
	// 1 digit: tenths, 2: centiseconds, 3: milliseconds, more: truncated to ms
	frac = strings.TrimSpace(frac)
	if len(frac) > 3 {
		frac = frac[:3]
	}
	if frac == "" {
		return total, nil
	}
	v, err := strconv.Atoi(frac)
	if err != nil {
		return 0, err
	}
	for n := len(frac); n < 3; n++ {
		v *= 10
	}
	return total + time.Duration(v)*time.Millisecond, nil
}
