// Package live provides the steady-state relay between edge producers and
// downstream consumers. It consumes live telemetry from the edge topic,
// persists what the broker retains, and republishes everything downstream.
// Events missed while a peer is offline are recovered by the replay
// package, not here.
package live

import (
	"context"
	"fmt"

	"gridrelay/src/broker"
	"gridrelay/src/codec"
	"gridrelay/src/contracts"
	"gridrelay/src/logger"
	"gridrelay/src/store"
)

// Relay consumes the edge topic and fans events out.
type Relay struct {
	broker    broker.Broker
	store     store.EventStore
	logger    logger.Logger
	edgeTopic string
	outTopic  string
	groupID   string
}

// NewRelay creates a relay between the given topics.
func NewRelay(brk broker.Broker, st store.EventStore, log logger.Logger, edgeTopic, outTopic, groupID string) *Relay {
	return &Relay{
		broker:    brk,
		store:     st,
		logger:    log,
		edgeTopic: edgeTopic,
		outTopic:  outTopic,
		groupID:   groupID,
	}
}

// Run starts the relay's main loop.
// It subscribes to the edge topic and processes live events until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("[Relay] Starting...")

	msgChan, err := r.broker.Subscribe(ctx, r.edgeTopic, r.groupID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.edgeTopic, err)
	}

	r.logger.Info("[Relay] Listening for live events on '%s'...", r.edgeTopic)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				r.logger.Info("[Relay] Message channel closed, shutting down")
				return nil
			}

			if err := r.processEvent(ctx, msg); err != nil {
				r.logger.Error("[Relay] Error processing event: %v", err)
			}

		case <-ctx.Done():
			r.logger.Info("[Relay] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processEvent handles one live event: persist what the broker retains,
// then republish downstream with the source as the partition key.
func (r *Relay) processEvent(ctx context.Context, msg broker.Message) error {
	ev, err := codec.Deserialize(msg.Value)
	if err != nil {
		return fmt.Errorf("failed to decode live event: %w", err)
	}

	switch ev.Name {
	case contracts.KindEnergyUsage:
		if err := r.store.Persist(ctx, ev); err != nil {
			return fmt.Errorf("failed to persist live event: %w", err)
		}
	case contracts.KindWeather:
		// Relayed but not retained; replay serves only stored history
		r.logger.Debug("[Relay] Observed weather from %s (%s)", ev.Source, ev.Condition)
	default:
		return fmt.Errorf("unknown event kind %q on %s", ev.Name, r.edgeTopic)
	}

	if err := r.broker.Publish(ctx, r.outTopic, ev.Source, msg.Value); err != nil {
		return fmt.Errorf("failed to republish event: %w", err)
	}

	return nil
}
