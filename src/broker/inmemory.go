// Package broker provides an in-memory Broker implementation.
package broker

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryBroker is a channel-backed Broker for tests and for running a
// single-process pipeline without a Redpanda cluster.
type InMemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]chan Message // topic -> subscriber channel
	closed bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs: make(map[string]chan Message),
	}
}

// Publish delivers the message to the topic's subscriber, if any. With no
// subscriber the message is dropped, matching pub/sub semantics.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("broker is closed")
	}
	ch, ok := b.subs[topic]
	b.mu.Unlock()

	if !ok {
		return nil
	}

	msg := Message{Topic: topic, Key: key, Value: value}
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers the single subscriber for a topic.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}
	if _, exists := b.subs[topic]; exists {
		return nil, fmt.Errorf("already subscribed to topic %s", topic)
	}

	ch := make(chan Message, 100)
	b.subs[topic] = ch
	return ch, nil
}

// Close closes all subscriber channels.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[string]chan Message)
	return nil
}
