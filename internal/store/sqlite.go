// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Upserting the active round of a session and expiring stale ones.
//
// Rounds are keyed by session ID, so starting a new round overwrites the
// previous one; nothing outlives the session that created it.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/game"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (and creates if missing) the database at path and
// applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Save upserts the round of r.SessionID.
func (s *SQLite) Save(ctx context.Context, r game.Round) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO rounds
            (session_id, round_id, mode, word, hint, guessed, incorrect, status, started_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            round_id=excluded.round_id,
            mode=excluded.mode,
            word=excluded.word,
            hint=excluded.hint,
            guessed=excluded.guessed,
            incorrect=excluded.incorrect,
            status=excluded.status,
            started_at=excluded.started_at,
            updated_at=excluded.updated_at`,
		r.SessionID, r.ID, r.Mode, r.State.Word.Word, r.State.Word.Hint,
		int64(r.State.Guessed), r.State.Incorrect, string(r.State.Status),
		formatTime(r.StartedAt), formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save round %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the round of a session.
func (s *SQLite) Get(ctx context.Context, sessionID string) (game.Round, error) {
	var (
		r                game.Round
		guessed          int64
		status           string
		started, updated string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT session_id, round_id, mode, word, hint, guessed, incorrect, status, started_at, updated_at
        FROM rounds WHERE session_id=?`, sessionID,
	).Scan(&r.SessionID, &r.ID, &r.Mode, &r.State.Word.Word, &r.State.Word.Hint,
		&guessed, &r.State.Incorrect, &status, &started, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Round{}, ErrNotFound
	}
	if err != nil {
		return game.Round{}, fmt.Errorf("get round: %w", err)
	}
	r.State.Guessed = game.LetterSet(guessed)
	r.State.Status = game.Status(status)
	if r.StartedAt, err = parseTime(started); err != nil {
		return game.Round{}, fmt.Errorf("get round %s: started_at: %w", r.ID, err)
	}
	if r.UpdatedAt, err = parseTime(updated); err != nil {
		return game.Round{}, fmt.Errorf("get round %s: updated_at: %w", r.ID, err)
	}
	return r, nil
}

// DeleteExpired removes rounds last updated before the cutoff.
func (s *SQLite) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rounds WHERE updated_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("delete expired rounds: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// openDB opens a SQLite database file.
//
//   - Ensures parent directory exists for relative paths (e.g. ./data/hangman.db).
//   - Configures busy timeout and WAL journaling mode.
//   - Enforces foreign keys.
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies *.sql files from fsys in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Skips files already applied.
//   - Runs each file and its bookkeeping row in one transaction.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
