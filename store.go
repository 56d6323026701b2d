package staticpress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ManifestEntry records one file written by an export.
type ManifestEntry struct {
	Path     string
	Checksum string
	Route    string
	BuiltAt  time.Time
}

// BuildRecord summarizes one finished export.
type BuildRecord struct {
	ID       int64
	Started  time.Time
	Duration time.Duration
	Posts    int
	Invalid  int
	Written  int
	Skipped  int
	Removed  int
}

// Store wraps the SQLite build manifest. It remembers what the previous
// export wrote so the next one can skip unchanged files and delete stale
// ones.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The busy timeout makes a second build against the same manifest wait
	// for the write lock instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS outputs (
    path TEXT PRIMARY KEY,
    checksum TEXT NOT NULL,
    route TEXT NOT NULL DEFAULT '',
    built_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS builds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    posts INTEGER NOT NULL,
    invalid INTEGER NOT NULL,
    written INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    removed INTEGER NOT NULL
);
`)
	return err
}

// Entries returns every recorded output keyed by path.
func (s *Store) Entries(ctx context.Context) (map[string]ManifestEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, checksum, route, built_at FROM outputs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]ManifestEntry)
	for rows.Next() {
		var e ManifestEntry
		var builtAt string
		if err := rows.Scan(&e.Path, &e.Checksum, &e.Route, &builtAt); err != nil {
			return nil, err
		}
		e.BuiltAt, _ = time.Parse(time.RFC3339Nano, builtAt)
		entries[e.Path] = e
	}
	return entries, rows.Err()
}

// Entry returns the record for one output path, or ErrNotFound.
func (s *Store) Entry(ctx context.Context, path string) (ManifestEntry, error) {
	e := ManifestEntry{Path: path}
	var builtAt string
	err := s.db.QueryRowContext(ctx, `SELECT checksum, route, built_at FROM outputs WHERE path = ?`, path).
		Scan(&e.Checksum, &e.Route, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ManifestEntry{}, fmt.Errorf("manifest entry %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return ManifestEntry{}, err
	}
	e.BuiltAt, _ = time.Parse(time.RFC3339Nano, builtAt)
	return e, nil
}

// Apply upserts written entries and deletes removed paths in one
// transaction.
func (s *Store) Apply(ctx context.Context, written []ManifestEntry, removed []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range written {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO outputs (path, checksum, route, built_at) VALUES (?, ?, ?, ?)`,
			e.Path, e.Checksum, e.Route, e.BuiltAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("record %s: %w", e.Path, err)
		}
	}
	for _, p := range removed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE path = ?`, p); err != nil {
			return fmt.Errorf("forget %s: %w", p, err)
		}
	}
	return tx.Commit()
}

// Reset forgets every recorded output.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM outputs`)
	return err
}

// RecordBuild appends a build summary and returns its id.
func (s *Store) RecordBuild(ctx context.Context, b BuildRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (started_at, duration_ms, posts, invalid, written, skipped, removed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Started.UTC().Format(time.RFC3339Nano), b.Duration.Milliseconds(),
		b.Posts, b.Invalid, b.Written, b.Skipped, b.Removed)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LastBuild returns the most recent build summary, or ErrNotFound.
func (s *Store) LastBuild(ctx context.Context) (BuildRecord, error) {
	var b BuildRecord
	var started string
	var ms int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, posts, invalid, written, skipped, removed FROM builds ORDER BY id DESC LIMIT 1`).
		Scan(&b.ID, &started, &ms, &b.Posts, &b.Invalid, &b.Written, &b.Skipped, &b.Removed)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, fmt.Errorf("last build: %w", ErrNotFound)
	}
	if err != nil {
		return BuildRecord{}, err
	}
	b.Started, _ = time.Parse(time.RFC3339Nano, started)
	b.Duration = time.Duration(ms) * time.Millisecond
	return b, nil
}
