// Package store persists the frames produced by a simulation run.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrRunExists is returned by BeginRun for a run ID that is already stored.
	ErrRunExists = errors.New("run already exists")
	// ErrUnknownRun is returned when recording or reading frames of a run
	// that was never begun.
	ErrUnknownRun = errors.New("unknown run")
)

// Run describes one simulation run.
type Run struct {
	ID        string
	Model     string
	Config    string
	StartedAt time.Time
}

// Frame is the sampled state of one time step.
type Frame struct {
	RunID string
	Step  int
	Time  float64
	// Values maps section names to their sampled entries.
	Values cty.Value
}

// Store is the interface for frame persistence.
type Store interface {
	// BeginRun registers a run before its frames are recorded.
	BeginRun(ctx context.Context, run Run) error
	// Record stores a frame, replacing an earlier frame of the same step.
	Record(ctx context.Context, frame Frame) error
	// Frames returns the frames of a run ordered by step.
	Frames(ctx context.Context, runID string) ([]Frame, error)
	// Close releases resources.
	Close() error
}

// Open returns a Memory store for an empty path and a SQLite store otherwise.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	return NewSQLite(path)
}
