// CLAUDE:SUMMARY Page and run persistence: upsert by URL, validator lookup, run history.
package pagecache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound reports a missing page or run.
var ErrNotFound = errors.New("pagecache: not found")

// Page is a cached fetch of one spec page.
type Page struct {
	URL       string
	HTML      string
	Hash      string
	ETag      string
	LastMod   string
	FetchedAt int64 // unix millis
}

// Run records one extraction over a cached page.
type Run struct {
	ID         int64
	URL        string
	Profile    string
	PageHash   string
	ResultJSON string
	ModelCount int
	CreatedAt  int64 // unix millis
}

// Store wraps the cache database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// UpsertPage inserts or replaces the cache entry for p.URL.
func (s *Store) UpsertPage(ctx context.Context, p *Page) error {
	if p.FetchedAt == 0 {
		p.FetchedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO pages (url, html, hash, etag, last_mod, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			html=excluded.html, hash=excluded.hash, etag=excluded.etag,
			last_mod=excluded.last_mod, fetched_at=excluded.fetched_at`,
		p.URL, p.HTML, p.Hash, p.ETag, p.LastMod, p.FetchedAt,
	)
	return err
}

// GetPage retrieves the cache entry for url, or ErrNotFound.
func (s *Store) GetPage(ctx context.Context, url string) (*Page, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT url, html, hash, etag, last_mod, fetched_at
		FROM pages WHERE url = ?`, url)

	var p Page
	err := row.Scan(&p.URL, &p.HTML, &p.Hash, &p.ETag, &p.LastMod, &p.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPages returns all cached pages, most recently fetched first.
func (s *Store) ListPages(ctx context.Context) ([]*Page, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT url, html, hash, etag, last_mod, fetched_at
		FROM pages ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.URL, &p.HTML, &p.Hash, &p.ETag, &p.LastMod, &p.FetchedAt); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// DeletePage removes a page (cascades to its runs).
func (s *Store) DeletePage(ctx context.Context, url string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM pages WHERE url = ?`, url)
	return err
}

// InsertRun records an extraction run and fills in r.ID.
func (s *Store) InsertRun(ctx context.Context, r *Run) error {
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixMilli()
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO runs (url, profile, page_hash, result_json, model_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.URL, r.Profile, r.PageHash, r.ResultJSON, r.ModelCount, r.CreatedAt,
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// LatestRun returns the newest run for url, or ErrNotFound.
func (s *Store) LatestRun(ctx context.Context, url string) (*Run, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, url, profile, page_hash, result_json, model_count, created_at
		FROM runs WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT 1`, url)
	return scanRun(row)
}

// ListRuns returns up to limit runs for url, newest first.
func (s *Store) ListRuns(ctx context.Context, url string, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, url, profile, page_hash, result_json, model_count, created_at
		FROM runs WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT ?`, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.URL, &r.Profile, &r.PageHash, &r.ResultJSON, &r.ModelCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.URL, &r.Profile, &r.PageHash, &r.ResultJSON, &r.ModelCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
