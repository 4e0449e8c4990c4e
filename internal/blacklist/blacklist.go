// Package blacklist loads the words that are never blanked.
package blacklist

import (
	"fmt"
	"os"

	"github.com/luismascotto/subquiz/internal/quiz"
)

// Load reads a blacklist file, one word per line. An empty path yields an
// empty blacklist.
func Load(path string) (quiz.Blacklist, error) {
	if path == "" {
		return quiz.NewBlacklist(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blacklist: %w", err)
	}
	defer f.Close()
	bl, err := quiz.ReadBlacklist(f)
	if err != nil {
		return nil, fmt.Errorf("read blacklist %s: %w", path, err)
	}
	return bl, nil
}
