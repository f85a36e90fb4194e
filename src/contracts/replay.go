package contracts

import "encoding/json"

// Replay request types as they appear on the wire.
const (
	// RequestReplayAll asks the upstream peer for its full history.
	RequestReplayAll = "replay_all"
	// RequestReplayByTimestamp asks for events strictly after the
	// watermark carried in last_event_date.
	RequestReplayByTimestamp = "replay_by_timestamp"
)

// ReplayRequest is the catch-up request sent to an upstream replay server.
// LastEventDate holds the serialized watermark event and is present only
// for replay_by_timestamp requests.
type ReplayRequest struct {
	Type          string          `json:"type"`
	LastEventDate json.RawMessage `json:"last_event_date,omitempty"`
}

// ReplayResponse is an ordered sequence of serialized event objects,
// marshaled as a bare JSON array. A well-formed response is never null;
// no events means the empty sequence, so senders must allocate the slice.
type ReplayResponse []json.RawMessage
