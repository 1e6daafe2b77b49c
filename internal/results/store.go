// Package results persists experiment outcomes to a local SQLite database.
//
// Only run summaries and per-trial records are stored. Trained weight
// matrices never touch disk; rebuilding a network from its source patterns
// is cheap and keeps the database small.
package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrRunNotFound is returned when a run id does not exist in the database.
var ErrRunNotFound = errors.New("results: run not found")

// Run is the summary record of one stored experiment run.
type Run struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	NetworkSize      int       `json:"network_size"`
	PatternCount     int       `json:"pattern_count"`
	NoiseLevel       float64   `json:"noise_level"`
	MaxIterations    int       `json:"max_iterations"`
	TrialsPerPattern int       `json:"trials_per_pattern"`
	Seed             int64     `json:"seed"`
	ExactRate        float64   `json:"exact_rate"`
	ConvergenceRate  float64   `json:"convergence_rate"`
	MeanIterations   float64   `json:"mean_iterations"`
}

// Trial is one recall attempt belonging to a run. Seq orders trials within
// the run; SaveRun assigns it from slice order.
type Trial struct {
	Seq          int     `json:"seq"`
	PatternIndex int     `json:"pattern_index"`
	FlippedBits  int     `json:"flipped_bits"`
	Iterations   int     `json:"iterations"`
	Converged    bool    `json:"converged"`
	Outcome      string  `json:"outcome"`
	MatchIndex   int     `json:"match_index"`
	Energy       float64 `json:"energy"`
}

// Store wraps the SQLite results database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the results database at path, creating the file and its parent
// directory as needed, and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes a run summary and all of its trials in one transaction.
// A zero CreatedAt is replaced with the current time.
func (s *Store) SaveRun(ctx context.Context, run Run, trials []Trial) error {
	if run.ID == "" {
		return errors.New("results: run id is required")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, source, network_size, pattern_count,
			noise_level, max_iterations, trials_per_pattern, seed,
			exact_rate, convergence_rate, mean_iterations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, createdAt.Format(time.RFC3339), run.Source,
		run.NetworkSize, run.PatternCount, run.NoiseLevel,
		run.MaxIterations, run.TrialsPerPattern, run.Seed,
		run.ExactRate, run.ConvergenceRate, run.MeanIterations,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, tr := range trials {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trials (
				run_id, seq, pattern_index, flipped_bits, iterations,
				converged, outcome, match_index, energy
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, tr.PatternIndex, tr.FlippedBits, tr.Iterations,
			tr.Converged, tr.Outcome, tr.MatchIndex, tr.Energy,
		); err != nil {
			return fmt.Errorf("failed to insert trial %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns stored runs newest first. A limit of 0 or less returns
// all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, source, network_size, pattern_count,
		       noise_level, max_iterations, trials_per_pattern, seed,
		       exact_rate, convergence_rate, mean_iterations
		FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, network_size, pattern_count,
		       noise_level, max_iterations, trials_per_pattern, seed,
		       exact_rate, convergence_rate, mean_iterations
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// RunTrials returns the trials of a run ordered by sequence.
func (s *Store) RunTrials(ctx context.Context, id string) ([]Trial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, pattern_index, flipped_bits, iterations,
		       converged, outcome, match_index, energy
		FROM trials WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var t Trial
		if err := rows.Scan(&t.Seq, &t.PatternIndex, &t.FlippedBits, &t.Iterations,
			&t.Converged, &t.Outcome, &t.MatchIndex, &t.Energy); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trials: %w", err)
	}
	return trials, nil
}

// ValidateIntegrity runs SQLite integrity checks on the open database.
func (s *Store) ValidateIntegrity(ctx context.Context) error {
	return validateIntegrity(ctx, s.db)
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := sc.Scan(&run.ID, &createdAt, &run.Source, &run.NetworkSize,
		&run.PatternCount, &run.NoiseLevel, &run.MaxIterations,
		&run.TrialsPerPattern, &run.Seed, &run.ExactRate,
		&run.ConvergenceRate, &run.MeanIterations); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	run.CreatedAt = ts
	return run, nil
}
