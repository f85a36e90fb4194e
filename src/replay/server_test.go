package replay

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gridrelay/src/codec"
	"gridrelay/src/contracts"
	"gridrelay/src/logger"
	"gridrelay/src/store"
)

func seedStore(t *testing.T, offsets ...int) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range offsets {
		ev := &contracts.Event{
			Name:        contracts.KindEnergyUsage,
			ArrivalTime: base.Add(time.Duration(offset) * time.Second),
			Source:      "meter-1",
			WattHours:   float64(offset),
		}
		if err := st.Persist(context.Background(), ev); err != nil {
			t.Fatalf("seed Persist failed: %v", err)
		}
	}
	return st
}

func decodeBatch(t *testing.T, payload []byte) []contracts.Event {
	t.Helper()
	var batch contracts.ReplayResponse
	if err := json.Unmarshal(payload, &batch); err != nil {
		t.Fatalf("Response is not a JSON array: %v", err)
	}
	events := make([]contracts.Event, 0, len(batch))
	for _, raw := range batch {
		ev, err := codec.Deserialize(raw)
		if err != nil {
			t.Fatalf("Response contains bad event: %v", err)
		}
		events = append(events, *ev)
	}
	return events
}

func TestServerReplayAllEmptyStore(t *testing.T) {
	srv := NewServer(seedStore(t), nil, logger.NewSilentLogger(), time.Millisecond)

	resp, err := srv.handle(context.Background(), []byte(`{"type":"replay_all"}`))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if events := decodeBatch(t, resp); len(events) != 0 {
		t.Errorf("Expected empty sequence, got %d events", len(events))
	}
}

func TestServerReplayAll(t *testing.T) {
	srv := NewServer(seedStore(t, 10, 20, 30), nil, logger.NewSilentLogger(), time.Millisecond)

	resp, err := srv.handle(context.Background(), []byte(`{"type":"replay_all"}`))
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	events := decodeBatch(t, resp)
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].ArrivalTime.Before(events[i-1].ArrivalTime) {
			t.Errorf("Events out of arrival order at index %d", i)
		}
	}
}

func TestServerReplayByTimestamp(t *testing.T) {
	st := seedStore(t, 10, 20, 30)
	srv := NewServer(st, nil, logger.NewSilentLogger(), time.Millisecond)

	// Watermark at +20s: only the +30s event is newer
	watermark := &contracts.Event{
		Name:        contracts.KindEnergyUsage,
		ArrivalTime: time.Date(2026, 5, 1, 12, 0, 20, 0, time.UTC),
		Source:      "meter-1",
		WattHours:   20,
	}
	raw, err := codec.Serialize(watermark)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	request, err := json.Marshal(&contracts.ReplayRequest{
		Type:          contracts.RequestReplayByTimestamp,
		LastEventDate: raw,
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	resp, err := srv.handle(context.Background(), request)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	events := decodeBatch(t, resp)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event after watermark, got %d", len(events))
	}
	if events[0].WattHours != 30 {
		t.Errorf("Expected the +30s event, got %+v", events[0])
	}
}

func TestServerMalformedRequestsStillGetReplies(t *testing.T) {
	srv := NewServer(seedStore(t, 10), nil, logger.NewSilentLogger(), time.Millisecond)
	ctx := context.Background()

	tests := []struct {
		name    string
		request []byte
		wantErr bool
	}{
		{"empty request", []byte{}, false},
		{"not json", []byte(`replay please`), true},
		{"unknown type", []byte(`{"type":"replay_everything_twice"}`), true},
		{"by_timestamp without watermark", []byte(`{"type":"replay_by_timestamp"}`), true},
		{"by_timestamp with bad watermark", []byte(`{"type":"replay_by_timestamp","last_event_date":{"name":"nope"}}`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.handle(ctx, tt.request)
			if tt.wantErr && err == nil {
				t.Error("Expected an error for logging")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			// The requester must always get a well-formed empty sequence
			if events := decodeBatch(t, resp); len(events) != 0 {
				t.Errorf("Expected empty sequence, got %d events", len(events))
			}
		})
	}
}
