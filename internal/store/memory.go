package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-memory store.
type Memory struct {
	mu     sync.Mutex
	runs   map[string]Run
	frames map[string]map[int]Frame
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		runs:   make(map[string]Run),
		frames: make(map[string]map[int]Frame),
	}
}

// BeginRun registers a run.
func (m *Memory) BeginRun(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; ok {
		return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
	}
	m.runs[run.ID] = run
	m.frames[run.ID] = make(map[int]Frame)
	return nil
}

// Record stores a frame.
func (m *Memory) Record(_ context.Context, frame Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames, ok := m.frames[frame.RunID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, frame.RunID)
	}
	frames[frame.Step] = frame
	return nil
}

// Frames returns the frames of a run ordered by step.
func (m *Memory) Frames(_ context.Context, runID string) ([]Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames, ok := m.frames[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Frame) int { return a.Step - b.Step })
	return out, nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
