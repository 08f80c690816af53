// Package store provides the durable idempotency mapping from Notion page
// ids to GitHub issue numbers. It backs the at-most-once creation guarantee:
// a page whose id has a mapping is never synced again, even across process
// restarts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS mapping (
    notion_page_id      TEXT PRIMARY KEY,
    github_issue_number INTEGER,
    created_at          TEXT
);`

// Store is a SQLite-backed page-to-issue mapping.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the mapping database at path.
// The caller must call Close when done.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// InitSchema creates the mapping table if it does not exist. It must be
// called once before the store is used.
func (s *Store) InitSchema() error {
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Has reports whether a page id already has an issue mapping.
func (s *Store) Has(ctx context.Context, pageID string) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx,
		"SELECT 1 FROM mapping WHERE notion_page_id = ?", pageID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query mapping: %w", err)
	}
	return true, nil
}

// Record durably maps a page id to its created issue number. A duplicate
// write for the same page id replaces the row rather than failing.
func (s *Store) Record(ctx context.Context, pageID string, issueNumber int) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO mapping (notion_page_id, github_issue_number, created_at) VALUES (?, ?, ?)",
		pageID, issueNumber, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record mapping: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
