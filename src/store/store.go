// Package store defines the interface for persistent event storage.
package store

import (
	"context"
	"time"

	"gridrelay/src/contracts"
)

// EventStore is the persistence collaborator of the replay protocol. The
// replay core issues no transactions spanning multiple calls; the store
// serializes its own concurrent reads and writes.
type EventStore interface {
	// LatestEvent returns the most recently stored event, or nil when
	// the store is empty. Its result is the replay watermark.
	LatestEvent(ctx context.Context) (*contracts.Event, error)

	// EventsAfter returns all events with arrival time strictly after
	// the given instant, in arrival order.
	EventsAfter(ctx context.Context, after time.Time) ([]contracts.Event, error)

	// AllEvents returns every stored event in arrival order.
	AllEvents(ctx context.Context) ([]contracts.Event, error)

	// Persist stores a single event. Inserts are idempotent by the
	// natural key (name, source, arrival_time), so replaying an already
	// stored event is a no-op.
	Persist(ctx context.Context, ev *contracts.Event) error

	// Close closes the store connection.
	Close() error
}
