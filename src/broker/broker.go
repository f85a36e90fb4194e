// Package broker defines the interface for the live publish/subscribe
// channel and provides implementations.
package broker

import "context"

// Broker abstracts the live telemetry fan-out between edge producers and
// downstream consumers. This is the steady-state path; catching up after
// a disconnection is the replay package's job.
type Broker interface {
	// Publish sends a serialized event to a topic. The key (typically
	// the producing source) drives partition assignment on Kafka and is
	// ignored by the in-memory broker.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel of messages from a topic. groupID
	// coordinates consumer groups on Kafka and is ignored by the
	// in-memory broker. At most one subscription per topic.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message is a single consumed record from the live channel.
type Message struct {
	Topic string
	Key   string
	Value []byte
}
