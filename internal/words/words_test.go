package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalobadob/hangman/internal/game"
)

// TestLoadEmbeddedDefault ensures the embedded catalog loads and is valid.
func TestLoadEmbeddedDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cat) != 5 {
		t.Fatalf("expected 5 default entries, got %d", len(cat))
	}
	if cat[0] != (game.WordEntry{Word: "REACT", Hint: "JavaScript library for building UIs"}) {
		t.Fatalf("unexpected first entry %+v", cat[0])
	}
	for _, e := range cat {
		if !isAlpha(e.Word) || e.Hint == "" {
			t.Fatalf("invalid default entry %+v", e)
		}
	}
}

// TestParseNormalizesAndFilters covers case, comments, invalid words and duplicates.
func TestParseNormalizesAndFilters(t *testing.T) {
	cat := Parse([]string{
		"# comment",
		"",
		"  gopher | burrowing mascot ",
		"two words|bad",
		"R2D2|bad",
		"|no word",
		"GOPHER|duplicate",
		"plain",
	})
	want := game.Catalog{
		{Word: "GOPHER", Hint: "burrowing mascot"},
		{Word: "PLAIN", Hint: ""},
	}
	if len(cat) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), cat)
	}
	for i := range want {
		if cat[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, cat[i], want[i])
		}
	}
}

// TestLoadFile reads a catalog from disk.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.txt")
	if err := os.WriteFile(path, []byte("channel|pipe between goroutines\nmutex|lock\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cat) != 2 || cat[0].Word != "CHANNEL" || cat[1].Hint != "lock" {
		t.Fatalf("unexpected catalog %+v", cat)
	}
}

// TestLoadRejectsEmptyCatalog ensures a file without valid words is an error.
func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.txt")
	if err := os.WriteFile(path, []byte("# nothing\n123|digits\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("Load error = %v, want %v", err, ErrEmptyCatalog)
	}
}

// TestLoadMissingFile ensures read errors are returned.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
