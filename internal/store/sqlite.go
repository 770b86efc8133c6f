package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vk/pdeconf/internal/ctyval"
)

// SQLite is a SQLite-backed store. Frame values are stored as typed cty JSON.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			config TEXT NOT NULL,
			started_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS frames (
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			time REAL NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (run_id, step),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables in %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// BeginRun registers a run.
func (s *SQLite) BeginRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.runExistsUnlocked(ctx, run.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO runs (id, model, config, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Model, run.Config, run.StartedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Record stores a frame.
func (s *SQLite) Record(ctx context.Context, frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.runExistsUnlocked(ctx, frame.RunID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownRun, frame.RunID)
	}
	data, err := ctyval.JSON(frame.Values)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", frame.Step, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO frames (run_id, step, time, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, step) DO UPDATE SET time = excluded.time, value = excluded.value
	`, frame.RunID, frame.Step, frame.Time, string(data))
	return err
}

// Frames returns the frames of a run ordered by step.
func (s *SQLite) Frames(ctx context.Context, runID string) ([]Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.runExistsUnlocked(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT step, time, value FROM frames WHERE run_id = ? ORDER BY step", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var (
			f    = Frame{RunID: runID}
			data string
		)
		if err := rows.Scan(&f.Step, &f.Time, &data); err != nil {
			return nil, err
		}
		if f.Values, err = ctyval.FromJSON([]byte(data)); err != nil {
			return nil, fmt.Errorf("decoding frame %d: %w", f.Step, err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// runExistsUnlocked checks for a run without locking (caller must hold lock).
func (s *SQLite) runExistsUnlocked(ctx context.Context, id string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM runs WHERE id = ?", id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
