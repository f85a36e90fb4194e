// Package store provides an in-memory store implementation.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gridrelay/src/contracts"
)

// MemoryStore is an in-memory implementation of EventStore.
// Useful for testing and for running without a Postgres instance.
type MemoryStore struct {
	mu     sync.RWMutex
	events []contracts.Event
	seen   map[string]bool // natural key -> stored
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen: make(map[string]bool),
	}
}

// LatestEvent returns the most recently stored event, or nil when the
// store is empty.
func (s *MemoryStore) LatestEvent(ctx context.Context) (*contracts.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) == 0 {
		return nil, nil
	}

	// Return a copy
	latest := s.events[len(s.events)-1]
	return &latest, nil
}

// EventsAfter returns all events with arrival time strictly after the
// given instant, in arrival order.
func (s *MemoryStore) EventsAfter(ctx context.Context, after time.Time) ([]contracts.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []contracts.Event{}
	for _, ev := range s.events {
		if ev.ArrivalTime.After(after) {
			result = append(result, ev)
		}
	}
	return result, nil
}

// AllEvents returns every stored event in arrival order.
func (s *MemoryStore) AllEvents(ctx context.Context) ([]contracts.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]contracts.Event, len(s.events))
	copy(result, s.events)
	return result, nil
}

// Persist stores a single event, idempotently by natural key.
func (s *MemoryStore) Persist(ctx context.Context, ev *contracts.Event) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s|%s|%d", ev.Name, ev.Source, ev.ArrivalTime.UnixNano())
	if s.seen[key] {
		return nil
	}
	s.seen[key] = true

	s.events = append(s.events, *ev)
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].ArrivalTime.Before(s.events[j].ArrivalTime)
	})

	return nil
}

// Close closes the store (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}
