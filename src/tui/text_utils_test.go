package tui

import (
	"testing"
	"time"

	"gridrelay/src/contracts"
)

func seedEvents() []contracts.Event {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return []contracts.Event{
		{Name: contracts.KindEnergyUsage, ArrivalTime: base.Add(10 * time.Second), Source: "meter-1", WattHours: 10},
		{Name: contracts.KindEnergyUsage, ArrivalTime: base.Add(20 * time.Second), Source: "meter-1", WattHours: 20},
		{Name: contracts.KindWeather, ArrivalTime: base.Add(30 * time.Second), Source: "station-7", Condition: "clear"},
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "meter-1", "meter-1"},
		{"ansi color codes", "\x1b[31mmeter-1\x1b[0m", "meter-1"},
		{"control characters", "met\x07er-\x00 1", "meter- 1"},
		{"tabs survive", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis bool
		expected string
	}{
		{"short text unchanged", "hello", 10, true, "hello"},
		{"exact length unchanged", "hello", 5, true, "hello"},
		{"truncated with ellipsis", "hello world", 8, true, "hello..."},
		{"truncated without ellipsis", "hello world", 8, false, "hello wo"},
		{"zero width", "hello", 0, true, ""},
		{"wide runes", "日本語テキスト", 6, false, "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen, tt.ellipsis); got != tt.expected {
				t.Errorf("Truncate(%q, %d, %t) = %q, want %q", tt.input, tt.maxLen, tt.ellipsis, got, tt.expected)
			}
		})
	}
}

func TestNewestFirst(t *testing.T) {
	events := seedEvents()
	items := newestFirst(events)

	if len(items) != len(events) {
		t.Fatalf("Expected %d items, got %d", len(events), len(items))
	}
	first := items[0].(Item)
	if !first.Event.ArrivalTime.Equal(events[len(events)-1].ArrivalTime) {
		t.Errorf("Expected newest event first, got %+v", first.Event)
	}
}
