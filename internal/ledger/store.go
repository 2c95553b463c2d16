// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists batch run history in a SQLite database: one
// row per run plus one row per file outcome, queryable from the CLI.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/textconv/pkg/types"
)

// DefaultFileName is the ledger database file created inside the output
// directory when no explicit path is configured.
const DefaultFileName = "textconv.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded batch run.
type Run struct {
	ID         int64     `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	InputDir   string    `json:"input_dir" yaml:"input_dir"`
	OutputDir  string    `json:"output_dir" yaml:"output_dir"`
	Converted  int       `json:"converted" yaml:"converted"`
	Fallback   int       `json:"fallback" yaml:"fallback"`
	Failed     int       `json:"failed" yaml:"failed"`
	Relocated  int       `json:"relocated" yaml:"relocated"`
}

// FileRecord is one file outcome within a run.
type FileRecord struct {
	RunID      int64          `json:"run_id" yaml:"run_id"`
	SourcePath string         `json:"source_path" yaml:"source_path"`
	DestPath   string         `json:"dest_path" yaml:"dest_path"`
	Status     types.Status   `json:"status" yaml:"status"`
	Encoding   types.Encoding `json:"encoding" yaml:"encoding"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Open opens or creates the ledger database at path, creating the
// parent directory and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			converted INTEGER NOT NULL,
			fallback INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			relocated INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source_path TEXT NOT NULL,
			dest_path TEXT NOT NULL,
			status TEXT NOT NULL,
			encoding TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a run and its file outcomes in one transaction and
// returns the assigned run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, files []FileRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, converted, fallback, failed, relocated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.InputDir, run.OutputDir,
		run.Converted, run.Fallback, run.Failed, run.Relocated,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, source_path, dest_path, status, encoding, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx,
			runID, f.SourcePath, f.DestPath, string(f.Status), string(f.Encoding), f.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting file record %s: %w", f.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first, up to limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, converted, fallback, failed, relocated
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir,
			&r.Converted, &r.Fallback, &r.Failed, &r.Relocated); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the file outcomes recorded for a run.
func (s *Store) Files(ctx context.Context, runID int64) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source_path, dest_path, status, encoding, error
		 FROM files WHERE run_id = ? ORDER BY source_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		var status, enc string
		if err := rows.Scan(&f.RunID, &f.SourcePath, &f.DestPath, &status, &enc, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning file record: %w", err)
		}
		f.Status = types.Status(status)
		f.Encoding = types.Encoding(enc)
		files = append(files, f)
	}
	return files, rows.Err()
}
