package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gridrelay/src/contracts"
	"gridrelay/src/store"
)

// StatsOutput summarizes the event store for the store_stats tool.
type StatsOutput struct {
	TotalEvents int            `json:"total_events"`
	ByKind      map[string]int `json:"by_kind"`
	Oldest      *time.Time     `json:"oldest_arrival,omitempty"`
	Newest      *time.Time     `json:"newest_arrival,omitempty"`
}

// latestEventJSON renders the watermark, or "null" for an empty store.
func latestEventJSON(ctx context.Context, st store.EventStore) (string, error) {
	latest, err := st.LatestEvent(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "null", nil
	}

	payload, err := json.Marshal(latest)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}
	return string(payload), nil
}

// queryEventsJSON renders stored history, full or after a cutoff.
func queryEventsJSON(ctx context.Context, st store.EventStore, after *time.Time) (string, error) {
	var events []contracts.Event
	var err error
	if after != nil {
		events, err = st.EventsAfter(ctx, *after)
	} else {
		events, err = st.AllEvents(ctx)
	}
	if err != nil {
		return "", err
	}

	if events == nil {
		events = []contracts.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("failed to marshal events: %w", err)
	}
	return string(payload), nil
}

// storeStatsJSON renders store totals and the arrival-time range.
func storeStatsJSON(ctx context.Context, st store.EventStore) (string, error) {
	events, err := st.AllEvents(ctx)
	if err != nil {
		return "", err
	}

	stats := StatsOutput{
		TotalEvents: len(events),
		ByKind:      make(map[string]int),
	}
	for i := range events {
		stats.ByKind[string(events[i].Name)]++
	}
	if len(events) > 0 {
		oldest := events[0].ArrivalTime
		newest := events[len(events)-1].ArrivalTime
		stats.Oldest = &oldest
		stats.Newest = &newest
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stats: %w", err)
	}
	return string(payload), nil
}
