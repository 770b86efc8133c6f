// Package publish sends frames to live observers while a run progresses.
package publish

import "context"

// DefaultEvent is emitted when the configuration does not name one.
const DefaultEvent = "frame"

// Publisher delivers frame payloads.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
