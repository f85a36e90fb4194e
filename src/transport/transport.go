// Package transport provides the point-to-point request/response channel
// used by the replay protocol. It is deliberately separate from the live
// publish/subscribe channel (see the broker package): replay is a lockstep
// exchange between exactly one requester and one responder.
package transport

import "time"

// Responder binds a local endpoint and serves one exchange at a time:
// Receive blocks until a request arrives, Reply answers it. A requester
// on a lockstep channel blocks until it is answered, so every received
// request must be replied to, even if only with an empty payload.
type Responder interface {
	// Receive blocks until the next request arrives.
	Receive() ([]byte, error)

	// Reply answers the request most recently returned by Receive and
	// completes the exchange.
	Reply(payload []byte) error

	// Close releases the bound endpoint.
	Close() error
}

// Requester performs a single request/response exchange per call against
// a remote responder with fresh connection state, bounding both the
// connect and the response wait by timeout.
type Requester interface {
	Request(addr string, payload []byte, timeout time.Duration) ([]byte, error)
}
