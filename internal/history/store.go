// Package history persists validation runs in a local SQLite database so
// agents and humans can review what was validated, when, and with what
// outcome.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Run is one recorded validation run.
type Run struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	Status     string `json:"status"`
	IssueCount int    `json:"issue_count"`
	Result     string `json:"result,omitempty"` // full JSON report
	CreatedAt  string `json:"created_at"`
}

// RecordParams holds the input for recording a run.
type RecordParams struct {
	Kind       string
	Path       string
	Status     string
	IssueCount int
	Result     any // marshaled to JSON; nil stores an empty report
}

// Store is the run-history engine backed by SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the history database at dbPath, applies
// the connection pragmas, and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			path        TEXT NOT NULL,
			status      TEXT NOT NULL,
			issue_count INTEGER NOT NULL DEFAULT 0,
			result      TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_runs_kind    ON runs(kind);
		CREATE INDEX IF NOT EXISTS idx_runs_path    ON runs(path);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Record inserts a run row and returns its generated ID.
func (s *Store) Record(p RecordParams) (string, error) {
	id := uuid.NewString()

	var result string
	if p.Result != nil {
		data, err := json.Marshal(p.Result)
		if err != nil {
			return "", fmt.Errorf("history: marshal result: %w", err)
		}
		result = string(data)
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, kind, path, status, issue_count, result) VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Kind, p.Path, p.Status, p.IssueCount, result,
	)
	if err != nil {
		return "", fmt.Errorf("history: record run: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first. An empty kind matches
// every kind; limit <= 0 defaults to 20.
func (s *Store) Recent(kind string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, kind, path, status, issue_count, created_at FROM runs`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Path, &r.Status, &r.IssueCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its full JSON result.
func (s *Store) Get(id string) (*Run, error) {
	var r Run
	var result sql.NullString
	err := s.db.QueryRow(
		`SELECT id, kind, path, status, issue_count, result, created_at FROM runs WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Kind, &r.Path, &r.Status, &r.IssueCount, &result, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history: run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	r.Result = result.String
	return &r, nil
}
