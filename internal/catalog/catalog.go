// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists retrieval outcomes in a SQLite database so
// past runs can be inspected without re-reading transcripts.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperfetch/pkg/types"
)

const dbFile = "paperfetch.db"

// Store manages the retrieval catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database under dir, creating the
// schema when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS retrievals (
			key TEXT NOT NULL,
			input TEXT NOT NULL,
			status TEXT NOT NULL,
			source TEXT,
			pdf_path TEXT,
			error TEXT,
			title TEXT,
			doi TEXT,
			arxiv_id TEXT,
			attempts TEXT,
			finished_at TEXT NOT NULL,
			PRIMARY KEY (key, finished_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_retrievals_status ON retrievals(status)`,
		`CREATE INDEX IF NOT EXISTS idx_retrievals_finished ON retrievals(finished_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one terminal retrieval outcome.
func (s *Store) Record(ctx context.Context, r *types.RetrievalResult) error {
	attemptsJSON, _ := json.Marshal(r.Attempts)

	var title, doi, arxivID string
	if r.Metadata != nil {
		title = r.Metadata.Title
		doi = r.Metadata.DOI
		arxivID = r.Metadata.ArxivID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO retrievals
		 (key, input, status, source, pdf_path, error, title, doi, arxiv_id, attempts, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Key, r.Input, string(r.Status), r.Source, r.PDFPath, r.Err,
		title, doi, arxivID, string(attemptsJSON),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording retrieval: %w", err)
	}
	return nil
}

// Entry is one catalog row as returned by Recent.
type Entry struct {
	Key        string
	Input      string
	Status     types.RetrievalStatus
	Source     string
	PDFPath    string
	Err        string
	Title      string
	DOI        string
	FinishedAt time.Time
}

// Recent returns up to limit outcomes, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, input, status, source, pdf_path, error, title, doi, finished_at
		 FROM retrievals ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying retrievals: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, finishedAt string
		if err := rows.Scan(&e.Key, &e.Input, &status, &e.Source, &e.PDFPath,
			&e.Err, &e.Title, &e.DOI, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning retrieval row: %w", err)
		}
		e.Status = types.RetrievalStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			e.FinishedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns the number of recorded outcomes per status.
func (s *Store) Counts(ctx context.Context) (map[types.RetrievalStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, count(*) FROM retrievals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting retrievals: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.RetrievalStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[types.RetrievalStatus(status)] = n
	}
	return counts, rows.Err()
}
