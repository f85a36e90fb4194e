// Package replay implements the catch-up protocol between broker peers.
// A downstream peer that was offline asks its upstream for the events it
// missed; the upstream serves them out of the event store. The live
// pub/sub path is untouched by any of this.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gridrelay/src/codec"
	"gridrelay/src/contracts"
	"gridrelay/src/logger"
	"gridrelay/src/store"
	"gridrelay/src/transport"
)

// Server answers replay requests from a downstream peer. It is a pure
// responder: no state beyond the store it queries.
type Server struct {
	store     store.EventStore
	responder transport.Responder
	log       logger.Logger
	pollDelay time.Duration
}

// NewServer creates a replay server on an already-bound responder.
func NewServer(st store.EventStore, responder transport.Responder, log logger.Logger, pollDelay time.Duration) *Server {
	return &Server{
		store:     st,
		responder: responder,
		log:       log,
		pollDelay: pollDelay,
	}
}

// Run serves replay requests until ctx is cancelled. Receive blocks on
// the transport, so shutdown requires closing the responder alongside
// cancelling ctx.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("[ReplayServer] Serving replay requests...")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		request, err := s.responder.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("[ReplayServer] Receive failed: %v", err)
			wait(ctx, s.pollDelay)
			continue
		}

		response, err := s.handle(ctx, request)
		if err != nil {
			// Store failures are operational problems, not peer noise
			s.log.Error("[ReplayServer] %v", err)
		}

		// The requester is blocked on a lockstep channel, so a reply
		// goes out even when handling failed.
		if err := s.responder.Reply(response); err != nil {
			s.log.Warn("[ReplayServer] Reply failed: %v", err)
		}

		wait(ctx, s.pollDelay)
	}
}

// handle decodes one request and builds the response. The response is
// always a well-formed sequence; the error reports store or contract
// failures for logging.
func (s *Server) handle(ctx context.Context, request []byte) ([]byte, error) {
	empty := []byte("[]")

	if len(request) == 0 {
		return empty, nil
	}

	var req contracts.ReplayRequest
	if err := json.Unmarshal(request, &req); err != nil {
		return empty, fmt.Errorf("malformed replay request: %w", err)
	}

	s.log.Info("[ReplayServer] Got replay request %s", req.Type)

	var events []contracts.Event
	switch req.Type {
	case contracts.RequestReplayByTimestamp:
		if req.LastEventDate == nil {
			// Contract violation: the request type promises a watermark
			return empty, fmt.Errorf("replay_by_timestamp request without last_event_date")
		}
		watermark, err := codec.Deserialize(req.LastEventDate)
		if err != nil {
			return empty, fmt.Errorf("malformed watermark in replay request: %w", err)
		}
		events, err = s.store.EventsAfter(ctx, watermark.ArrivalTime)
		if err != nil {
			return empty, fmt.Errorf("store query failed: %w", err)
		}
	case contracts.RequestReplayAll:
		var err error
		events, err = s.store.AllEvents(ctx)
		if err != nil {
			return empty, fmt.Errorf("store query failed: %w", err)
		}
	default:
		return empty, fmt.Errorf("unknown replay request type %q", req.Type)
	}

	response := make(contracts.ReplayResponse, 0, len(events))
	for i := range events {
		raw, err := codec.Serialize(&events[i])
		if err != nil {
			return empty, fmt.Errorf("failed to serialize stored event: %w", err)
		}
		response = append(response, raw)
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return empty, fmt.Errorf("failed to marshal replay response: %w", err)
	}
	return payload, nil
}

// wait sleeps for d or until ctx is cancelled.
func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
