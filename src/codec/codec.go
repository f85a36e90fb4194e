// Package codec serializes individual event records for the wire and the
// store. The replay core treats records as opaque beyond a round trip
// through this package.
package codec

import (
	"encoding/json"
	"fmt"

	"gridrelay/src/contracts"
)

// Serialize encodes a single event record.
func Serialize(ev *contracts.Event) (json.RawMessage, error) {
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to serialize invalid event: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}
	return data, nil
}

// Deserialize decodes a single event record and validates it.
func Deserialize(data []byte) (*contracts.Event, error) {
	var ev contracts.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to deserialize event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
