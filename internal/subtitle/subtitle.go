package subtitle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luismascotto/subquiz/internal/model"
)

var (
	ErrNoCues      = errors.New("no cues found")
	ErrUnsupported = errors.New("unsupported subtitle format")
)

// Load reads a subtitle file and parses it according to its extension.
func Load(path string, ignoreMinorErrors bool) (*model.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".srt" && ext != ".ass" && ext != ".ssa" {
		return nil, fmt.Errorf("%w: %s (only .srt, .ass, .ssa)", ErrUnsupported, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	var doc *model.Document
	if ext == ".srt" {
		doc, err = ParseSRT(data, ignoreMinorErrors)
	} else {
		doc, err = ParseASS(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// splitBlocks cuts a subtitle file into blank-line separated blocks of
// right-trimmed lines, dropping empty blocks.
func splitBlocks(data []byte) [][]string {
	s := strings.TrimPrefix(string(data), "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out [][]string
	var cur []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, " \t\r")
		if strings.TrimSpace(l) == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// renumber assigns indices 1..N in file order
func renumber(cues []*model.Cue) {
	for i := range cues {
		cues[i].Index = i + 1
	}
}
