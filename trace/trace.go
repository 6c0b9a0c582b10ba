// Package trace persists a session's captures and actions to SQLite so a
// run can be inspected after the fact.
package trace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS captures (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	at          TEXT NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL,
	elements    INTEGER NOT NULL,
	appeared    INTEGER NOT NULL,
	disappeared INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS actions (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	at     TEXT NOT NULL,
	kind   TEXT NOT NULL,
	target TEXT NOT NULL,
	detail TEXT NOT NULL,
	ok     INTEGER NOT NULL
);
`

// Recorder writes trace rows for one session.
type Recorder struct {
	db *sql.DB
}

// Open opens (creating if needed) the trace database at path.
func Open(path string) (*Recorder, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("trace: create directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("trace: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: create schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// OpenMemory opens an in-memory recorder for tests. The single connection
// matters: each new connection to :memory: would see a fresh database.
func OpenMemory(t testing.TB) *Recorder {
	t.Helper()
	r, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory trace: %v", err)
	}
	r.db.SetMaxOpenConns(1)
	t.Cleanup(func() { r.Close() })
	return r
}

// RecordCapture stores one capture's summary.
func (r *Recorder) RecordCapture(url, title string, elements, appeared, disappeared int) error {
	_, err := r.db.Exec(
		`INSERT INTO captures (at, url, title, elements, appeared, disappeared)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		now(), url, title, elements, appeared, disappeared)
	if err != nil {
		return fmt.Errorf("trace: record capture: %w", err)
	}
	return nil
}

// RecordAction stores one executed action.
func (r *Recorder) RecordAction(kind, target, detail string, ok bool) error {
	_, err := r.db.Exec(
		`INSERT INTO actions (at, kind, target, detail, ok) VALUES (?, ?, ?, ?, ?)`,
		now(), kind, target, detail, ok)
	if err != nil {
		return fmt.Errorf("trace: record action: %w", err)
	}
	return nil
}

// CaptureCount reports how many captures have been recorded.
func (r *Recorder) CaptureCount() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM captures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("trace: count captures: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
