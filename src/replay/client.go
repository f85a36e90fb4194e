package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gridrelay/src/codec"
	"gridrelay/src/contracts"
	"gridrelay/src/logger"
	"gridrelay/src/store"
	"gridrelay/src/transport"
)

// transientBackoff is how long a dispatch worker pauses after a failed
// exchange before handing control back to the tick loop.
const transientBackoff = 5 * time.Second

// Client periodically catches up from an upstream replay server. At most
// one request is in flight at any time; the periodic tick is a
// level-triggered debounce, so a slow upstream throttles the client
// instead of queueing requests.
type Client struct {
	store     store.EventStore
	requester transport.Requester
	upstream  string
	log       logger.Logger

	interval time.Duration
	timeout  time.Duration
	backoff  time.Duration

	mu         sync.Mutex
	inProgress bool
	watermark  *contracts.Event
}

// NewClient creates a replay client against the given upstream address.
// The watermark starts at the store's latest event; it is not persisted
// separately, so a restart recomputes it from here.
func NewClient(ctx context.Context, st store.EventStore, requester transport.Requester, upstream string, log logger.Logger, interval, timeout time.Duration) (*Client, error) {
	watermark, err := st.LatestEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize watermark: %w", err)
	}

	return &Client{
		store:     st,
		requester: requester,
		upstream:  upstream,
		log:       log,
		interval:  interval,
		timeout:   timeout,
		backoff:   transientBackoff,
		watermark: watermark,
	}, nil
}

// Run ticks the request loop until ctx is cancelled. Each tick dispatches
// a catch-up attempt unless one is already in flight.
func (c *Client) Run(ctx context.Context) error {
	c.log.Info("[ReplayClient] Request loop started (interval %v, upstream %s)", c.interval, c.upstream)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.dispatch(ctx)
		case <-ctx.Done():
			c.log.Info("[ReplayClient] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// dispatch launches one exchange worker if none is in flight. The lock
// covers only the flag transition and the spawn, never the network
// exchange, so the tick loop is never blocked by a slow peer.
func (c *Client) dispatch(ctx context.Context) {
	request, err := c.buildRequest()
	if err != nil {
		c.log.Error("[ReplayClient] Failed to build replay request: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inProgress {
		return
	}
	c.inProgress = true
	go c.exchange(ctx, request)
}

// buildRequest asks for everything when no history has been observed yet,
// otherwise for events after the watermark.
func (c *Client) buildRequest() ([]byte, error) {
	req := contracts.ReplayRequest{Type: contracts.RequestReplayAll}

	if watermark := c.Watermark(); watermark != nil {
		raw, err := codec.Serialize(watermark)
		if err != nil {
			return nil, err
		}
		req = contracts.ReplayRequest{
			Type:          contracts.RequestReplayByTimestamp,
			LastEventDate: raw,
		}
	}

	return json.Marshal(&req)
}

// exchange performs one request/response exchange on its own goroutine.
// The deferred release is the invariant that keeps a failed exchange from
// wedging the client forever.
func (c *Client) exchange(ctx context.Context, request []byte) {
	defer func() {
		c.mu.Lock()
		c.inProgress = false
		c.mu.Unlock()
	}()

	c.log.Info("[ReplayClient] Sending replay request to %s", c.upstream)

	response, err := c.requester.Request(c.upstream, request, c.timeout)
	if err != nil {
		c.log.Warn("[ReplayClient] Upstream unavailable: %v. Retrying on a later tick", err)
		wait(ctx, c.backoff)
		return
	}

	if err := c.apply(ctx, response); err != nil {
		c.log.Error("[ReplayClient] Failed to apply replayed events: %v", err)
	}
}

// apply consumes a response batch in upstream order and advances the
// watermark after each event by re-querying the store, so the watermark
// always reflects durably stored state even if application stops mid-batch.
func (c *Client) apply(ctx context.Context, response []byte) error {
	if len(response) == 0 {
		return nil
	}

	var batch contracts.ReplayResponse
	if err := json.Unmarshal(response, &batch); err != nil {
		// Nothing usable arrived; the next tick asks again
		c.log.Debug("[ReplayClient] Ignoring malformed replay response: %v", err)
		return nil
	}

	for _, raw := range batch {
		if err := c.applyEvent(ctx, raw); err != nil {
			return err
		}

		watermark, err := c.store.LatestEvent(ctx)
		if err != nil {
			return fmt.Errorf("failed to advance watermark: %w", err)
		}
		c.setWatermark(watermark)
	}

	return nil
}

// applyEvent dispatches one replayed event by kind. Weather events are
// observed but not persisted.
func (c *Client) applyEvent(ctx context.Context, raw json.RawMessage) error {
	ev, err := codec.Deserialize(raw)
	if err != nil {
		return fmt.Errorf("bad event in replay batch: %w", err)
	}

	switch ev.Name {
	case contracts.KindEnergyUsage:
		c.log.Info("[ReplayClient] Got energy replay from %s (%.1f Wh)", ev.Source, ev.WattHours)
		if err := c.store.Persist(ctx, ev); err != nil {
			return fmt.Errorf("failed to persist replayed event: %w", err)
		}
		return nil
	case contracts.KindWeather:
		c.log.Info("[ReplayClient] Got weather replay from %s (%s)", ev.Source, ev.Condition)
		return nil
	default:
		return fmt.Errorf("unknown event kind %q in replay batch", ev.Name)
	}
}

// Watermark returns the last confirmed event, or nil when no history has
// been observed yet.
func (c *Client) Watermark() *contracts.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watermark
}

// InFlight reports whether a dispatch worker is currently active.
func (c *Client) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inProgress
}

func (c *Client) setWatermark(watermark *contracts.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watermark = watermark
}
