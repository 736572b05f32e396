// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists settings, search terms, and the append-only results
// log in a SQLite database, and gates result writes on identifier novelty.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ErrTermNotFound is returned when removing a term that is not stored.
var ErrTermNotFound = errors.New("search term not found")

// Store wraps the digest database.
type Store struct {
	db *sql.DB

	// now stamps recorded rows. Tests replace it.
	now func() time.Time
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Single writer: one connection keeps check-then-append sequential.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS search_terms (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			max_results INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			first_author TEXT NOT NULL,
			publication_date TEXT NOT NULL,
			search_term TEXT NOT NULL,
			abstract TEXT NOT NULL,
			summary TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_id ON results(id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// exec runs a built statement.
func (s *Store) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// query runs a built select.
func (s *Store) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.db.QueryContext(ctx, query, args...)
}
