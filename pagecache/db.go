// CLAUDE:SUMMARY SQLite open helper with WAL pragmas applied via EXEC, plus in-memory test opener.
// Package pagecache stores fetched spec pages and extraction runs in SQLite.
//
// Pages keep the raw HTML alongside its content hash and conditional-GET
// validators so refetches can be skipped; runs record each extraction's
// profile and JSON result for later diffing.
package pagecache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	url         TEXT PRIMARY KEY,
	html        TEXT NOT NULL,
	hash        TEXT NOT NULL,
	etag        TEXT NOT NULL DEFAULT '',
	last_mod    TEXT NOT NULL DEFAULT '',
	fetched_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	url         TEXT NOT NULL,
	profile     TEXT NOT NULL DEFAULT '',
	page_hash   TEXT NOT NULL,
	result_json TEXT NOT NULL,
	model_count INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	FOREIGN KEY (url) REFERENCES pages(url) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(url, created_at DESC);
`

// Open opens (creating if needed) the cache database at path.
// Parent directories are created; pragmas are applied via EXEC so the
// behaviour does not depend on driver DSN parsing.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("pagecache: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("pagecache: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pagecache: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("pagecache: exec schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pagecache: ping: %w", err)
	}
	return db, nil
}

// OpenMemory opens an in-memory cache database for testing.
// MaxOpenConns(1) keeps all queries on the same in-memory database
// (each connection to ":memory:" creates a separate one).
func OpenMemory(t testing.TB) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("pagecache.OpenMemory: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}
