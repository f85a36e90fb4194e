// Package contracts defines the message types exchanged between the edge
// producers, the broker, and the replay peers.
package contracts

import (
	"fmt"
	"time"
)

// Kind discriminates telemetry event types. The set is closed: dispatch
// sites switch exhaustively over it and treat anything else as an error.
type Kind string

const (
	// KindEnergyUsage is a metered energy reading. Persisted by the broker.
	KindEnergyUsage Kind = "energy_usage"
	// KindWeather is a weather observation. Relayed and logged, not persisted.
	KindWeather Kind = "weather"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	switch k {
	case KindEnergyUsage, KindWeather:
		return true
	}
	return false
}

// Event is a single telemetry record. The replay core only reads Name and
// ArrivalTime; the remaining fields are payload carried for the consumer.
type Event struct {
	// Name discriminates the event kind.
	Name Kind `json:"name"`
	// ArrivalTime is when the broker first stored the event. It is the
	// ordering cursor for replay queries.
	ArrivalTime time.Time `json:"arrival_time"`
	// Source identifies the producing edge device.
	Source string `json:"source,omitempty"`

	// Energy usage fields.
	WattHours float64 `json:"watt_hours,omitempty"`

	// Weather fields.
	TemperatureC float64 `json:"temperature_c,omitempty"`
	Condition    string  `json:"condition,omitempty"`
}

// Validate checks the invariants every event on the wire must satisfy.
func (e *Event) Validate() error {
	if !e.Name.Valid() {
		return fmt.Errorf("unknown event kind: %q", e.Name)
	}
	if e.ArrivalTime.IsZero() {
		return fmt.Errorf("event %q has no arrival time", e.Name)
	}
	return nil
}
