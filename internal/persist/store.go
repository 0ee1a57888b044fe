// Package persist gives a command-line front end an optional, best-effort
// cache of prior run outcomes keyed by file path and content hash. It is
// not part of the analysis engine: a fresh run never needs it, and its
// schema carries no backward-compatibility guarantee across versions. A
// driver is free to delete the database file and start cold at any time.
package persist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a handle to a sqlite database holding one row per analyzed
// file, used to skip re-analyzing files whose content hash hasn't
// changed since the last recorded run.
type Store struct {
	db *sql.DB
}

// Open creates or opens the sqlite database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS file_results (
	path         TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	issue_count  INTEGER NOT NULL,
	duration_ns  INTEGER NOT NULL,
	analyzed_at  INTEGER NOT NULL
);
`

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record is a cached summary of the last time path was analyzed.
type Record struct {
	Path        string
	ContentHash string
	IssueCount  int
	Duration    time.Duration
	AnalyzedAt  time.Time
}

// Put upserts the record for rec.Path, replacing whatever was cached
// for that path before.
func (s *Store) Put(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_results (path, content_hash, issue_count, duration_ns, analyzed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			issue_count  = excluded.issue_count,
			duration_ns  = excluded.duration_ns,
			analyzed_at  = excluded.analyzed_at
	`, rec.Path, rec.ContentHash, rec.IssueCount, rec.Duration.Nanoseconds(), rec.AnalyzedAt.Unix())
	if err != nil {
		return fmt.Errorf("persist: put %s: %w", rec.Path, err)
	}
	return nil
}

// Lookup returns the cached record for path, if one exists.
func (s *Store) Lookup(ctx context.Context, path string) (Record, bool, error) {
	var rec Record
	var durationNs int64
	var analyzedAtUnix int64

	row := s.db.QueryRowContext(ctx, `
		SELECT path, content_hash, issue_count, duration_ns, analyzed_at
		FROM file_results WHERE path = ?
	`, path)
	if err := row.Scan(&rec.Path, &rec.ContentHash, &rec.IssueCount, &durationNs, &analyzedAtUnix); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("persist: lookup %s: %w", path, err)
	}
	rec.Duration = time.Duration(durationNs)
	rec.AnalyzedAt = time.Unix(analyzedAtUnix, 0).UTC()
	return rec, true, nil
}

// Unchanged reports whether path has a cached record whose content hash
// matches hash, meaning a driver may skip re-analyzing it.
func (s *Store) Unchanged(ctx context.Context, path, hash string) (bool, error) {
	rec, ok, err := s.Lookup(ctx, path)
	if err != nil || !ok {
		return false, err
	}
	return rec.ContentHash == hash, nil
}
