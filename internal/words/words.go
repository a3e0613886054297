// internal/words/words.go
//
// Catalog loading for the game engine.
//
// Responsibilities:
//   - Load the WORD|hint catalog from a file or fall back to the embedded default.
//   - Normalize words to uppercase and drop entries that are not A–Z only.
//   - Refuse to produce an empty catalog.
//
// File format:
//   - One entry per line: WORD|hint text. The hint may be empty.
//   - Blank lines and lines starting with '#' are ignored.
//   - A repeated word keeps its first entry.
//
// Environment variables (read by the caller, see internal/config):
//   WORDS_CATALOG_FILE=/path/to/catalog.txt

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/game"
)

// ErrEmptyCatalog is returned when no valid entry could be loaded.
var ErrEmptyCatalog = errors.New("words: catalog is empty")

// Load reads the catalog at path, or the embedded default when path is "".
func Load(path string) (game.Catalog, error) {
	var (
		lines []string
		err   error
	)
	if path == "" {
		lines, err = assets.CatalogLines()
	} else {
		lines, err = readLines(path)
	}
	if err != nil {
		return nil, fmt.Errorf("words: read catalog: %w", err)
	}

	cat := Parse(lines)
	if len(cat) == 0 {
		return nil, ErrEmptyCatalog
	}
	return cat, nil
}

// Parse turns catalog lines into entries, skipping invalid ones.
func Parse(lines []string) game.Catalog {
	seen := make(map[string]struct{}, len(lines))
	out := make(game.Catalog, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, hint, _ := strings.Cut(line, "|")
		word = strings.ToUpper(strings.TrimSpace(word))
		if !isAlpha(word) {
			log.Warn().Str("line", line).Msg("skipping catalog entry: word must be letters A–Z")
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, game.WordEntry{Word: word, Hint: strings.TrimSpace(hint)})
	}
	return out
}

// readLines loads the raw lines of a catalog file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// isAlpha reports whether s is non-empty and all uppercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
