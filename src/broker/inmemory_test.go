package broker

import (
	"context"
	"testing"
	"time"
)

// TestPublishDeliverToSubscriber verifies a message is published and received successfully.
func TestPublishDeliverToSubscriber(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()

	ctx := context.Background()
	ch, err := b.Subscribe(ctx, "test-topic", "group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	payload := []byte(`{"name":"energy_usage"}`)
	if err := b.Publish(ctx, "test-topic", "meter-1", payload); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-ch:
		if string(msg.Value) != string(payload) {
			t.Errorf("Expected %s, got %s", payload, msg.Value)
		}
		if msg.Key != "meter-1" {
			t.Errorf("Expected key meter-1, got %s", msg.Key)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestTopicIsolation verifies subscribers on different topics do not receive wrong messages.
func TestTopicIsolation(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()

	ctx := context.Background()
	chA, err := b.Subscribe(ctx, "topic-a", "group")
	if err != nil {
		t.Fatalf("Subscribe to topic-a failed: %v", err)
	}
	chB, err := b.Subscribe(ctx, "topic-b", "group")
	if err != nil {
		t.Fatalf("Subscribe to topic-b failed: %v", err)
	}

	if err := b.Publish(ctx, "topic-a", "", []byte("for-a")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-chA:
		if string(msg.Value) != "for-a" {
			t.Errorf("Unexpected message on topic-a: %s", msg.Value)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for topic-a message")
	}

	select {
	case msg := <-chB:
		t.Errorf("topic-b received unexpected message: %s", msg.Value)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestPublishWithoutSubscriberDrops verifies publishing to an unsubscribed topic is not an error.
func TestPublishWithoutSubscriberDrops(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()

	if err := b.Publish(context.Background(), "nobody-home", "", []byte("x")); err != nil {
		t.Errorf("Publish to unsubscribed topic should drop, got error: %v", err)
	}
}

// TestDoubleSubscribeFails verifies a topic supports a single subscriber.
func TestDoubleSubscribeFails(t *testing.T) {
	b := NewInMemoryBroker()
	defer b.Close()

	ctx := context.Background()
	if _, err := b.Subscribe(ctx, "topic", "group"); err != nil {
		t.Fatalf("First subscribe failed: %v", err)
	}
	if _, err := b.Subscribe(ctx, "topic", "group"); err == nil {
		t.Error("Expected second subscribe to fail")
	}
}
