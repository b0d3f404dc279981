// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of every file the application has
// handed to the user: JSON, text, and YAML exports and converted PDFs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kind is the type of file that was produced.
type Kind string

const (
	KindJSON Kind = "json"
	KindText Kind = "txt"
	KindYAML Kind = "yaml"
	KindPDF  Kind = "pdf"
)

// Entry is one produced file. Subject is the presentation id for exports
// and the DocSend URL for PDFs.
type Entry struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Filename  string    `json:"filename"`
	Subject   string    `json:"subject"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger manages the download history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			filename TEXT NOT NULL,
			subject TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_subject ON downloads(subject)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e to the ledger. A zero CreatedAt is set to now.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO downloads (kind, filename, subject, bytes, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(e.Kind), e.Filename, e.Subject, e.Bytes, e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording download %s: %w", e.Filename, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, filename, subject, bytes, created_at FROM downloads ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return l.query(ctx, query, args...)
}

// ForSubject returns every entry for one presentation id or DocSend URL,
// newest first.
func (l *Ledger) ForSubject(ctx context.Context, subject string) ([]Entry, error) {
	return l.query(ctx,
		`SELECT id, kind, filename, subject, bytes, created_at FROM downloads WHERE subject = ? ORDER BY id DESC`,
		subject,
	)
}

func (l *Ledger) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			created string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Filename, &e.Subject, &e.Bytes, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Kind = Kind(kind)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
