package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSink stores visited pages in a single-table SQLite database.
type SQLiteSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

const createVisited = `
CREATE TABLE IF NOT EXISTS visited (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	url        TEXT    NOT NULL,
	domain     TEXT    NOT NULL,
	depth      INTEGER NOT NULL,
	fetched_at TEXT    NOT NULL,
	run_id     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visited_run ON visited(run_id);
`

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer; workers serialise on the connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, createVisited); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	stmt, err := db.PrepareContext(ctx,
		`INSERT INTO visited (url, domain, depth, fetched_at, run_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &SQLiteSink{db: db, insert: stmt}, nil
}

func (s *SQLiteSink) Append(ctx context.Context, rec Record) error {
	_, err := s.insert.ExecContext(ctx,
		rec.URL, rec.Domain, rec.Depth, rec.FetchedAt.UTC().Format(time.RFC3339Nano), rec.RunID)
	if err != nil {
		return fmt.Errorf("sqlite insert %s: %w", rec.URL, err)
	}
	return nil
}

// URLs returns the recorded URLs of a run in insertion order.
func (s *SQLiteSink) URLs(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM visited WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query visited: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan visited: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (s *SQLiteSink) Close() error {
	_ = s.insert.Close()
	return s.db.Close()
}
