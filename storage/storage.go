// Package storage provides a SQLite-backed catalog of completed simulation
// runs: one row per run plus its per-category output histogram, so batches
// of realizations can be compared after the fact.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mpslab/go-snesim/results"
)

// Store handles SQLite database operations for the run catalog.
type Store struct {
	db *sql.DB
}

// Run is one catalog row.
type Run struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Seed        uint32    `json:"seed"`
	Switchover  float64   `json:"switchover"`
	Levels      int       `json:"levels"`
	NX          int       `json:"nx"`
	NY          int       `json:"ny"`
	NZ          int       `json:"nz"`
	ComputeTime float64   `json:"compute_time"`
	OutputFile  string    `json:"output_file"`
}

// CategoryCount is one histogram row of a cataloged run.
type CategoryCount struct {
	RunID    string  `json:"run_id"`
	Category int     `json:"category"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Open creates a Store on the given database path, migrating the schema if
// needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		status TEXT NOT NULL,
		seed INTEGER NOT NULL,
		switchover REAL NOT NULL,
		levels INTEGER NOT NULL,
		nx INTEGER NOT NULL,
		ny INTEGER NOT NULL,
		nz INTEGER NOT NULL,
		compute_time REAL NOT NULL DEFAULT 0,
		output_file TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS run_categories (
		run_id TEXT NOT NULL,
		category INTEGER NOT NULL,
		count INTEGER NOT NULL,
		fraction REAL NOT NULL,
		PRIMARY KEY (run_id, category),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun catalogs a completed run and its output histogram in one
// transaction.
func (s *Store) RecordRun(res *results.Results) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, timestamp, status, seed, switchover, levels, nx, ny, nz, compute_time, output_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Metadata.RunID,
		res.Metadata.Timestamp,
		res.Metadata.Status,
		res.Simulation.Seed,
		res.Simulation.Switchover,
		len(res.Simulation.Levels),
		res.Output.GridCells[0],
		res.Output.GridCells[1],
		res.Output.GridCells[2],
		res.Metadata.ComputeTime,
		res.Output.File,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, bin := range res.Output.Histogram {
		_, err = tx.Exec(`
			INSERT INTO run_categories (run_id, category, count, fraction)
			VALUES (?, ?, ?, ?)`,
			res.Metadata.RunID, bin.Category, bin.Count, bin.Fraction,
		)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, timestamp, status, seed, switchover, levels, nx, ny, nz, compute_time, output_file
		FROM runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Status, &r.Seed, &r.Switchover,
			&r.Levels, &r.NX, &r.NY, &r.NZ, &r.ComputeTime, &r.OutputFile); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Histogram returns the per-category counts of a cataloged run.
func (s *Store) Histogram(runID string) ([]CategoryCount, error) {
	rows, err := s.db.Query(`
		SELECT run_id, category, count, fraction
		FROM run_categories WHERE run_id = ? ORDER BY category`, runID)
	if err != nil {
		return nil, fmt.Errorf("query histogram: %w", err)
	}
	defer rows.Close()

	var bins []CategoryCount
	for rows.Next() {
		var b CategoryCount
		if err := rows.Scan(&b.RunID, &b.Category, &b.Count, &b.Fraction); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
