// Package transport provides a TCP implementation of the replay channel.
// Frames are newline-delimited JSON; each connection carries exactly one
// request/response exchange.
package transport

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"time"
)

// TCPResponder is a TCP implementation of Responder.
type TCPResponder struct {
	listener net.Listener
	conn     net.Conn // connection awaiting a reply, nil between exchanges
}

// NewTCPResponder binds the given address (host:port).
func NewTCPResponder(bind string) (*TCPResponder, error) {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, fmt.Errorf("failed to bind replay endpoint %s: %w", bind, err)
	}
	return &TCPResponder{listener: listener}, nil
}

// Addr returns the bound address. Useful when binding port 0 in tests.
func (r *TCPResponder) Addr() string {
	return r.listener.Addr().String()
}

// Receive blocks until the next request arrives. The connection is held
// open until Reply completes the exchange.
func (r *TCPResponder) Receive() ([]byte, error) {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}

	conn, err := r.listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("failed to accept replay connection: %w", err)
	}

	frame, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read replay request: %w", err)
	}

	r.conn = conn
	return bytes.TrimRight(frame, "\n"), nil
}

// Reply answers the pending request and closes the connection.
func (r *TCPResponder) Reply(payload []byte) error {
	if r.conn == nil {
		return fmt.Errorf("no request pending")
	}
	defer func() {
		r.conn.Close()
		r.conn = nil
	}()

	if _, err := r.conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write replay response: %w", err)
	}
	return nil
}

// Close releases the bound endpoint.
func (r *TCPResponder) Close() error {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	return r.listener.Close()
}

// TCPRequester is a TCP implementation of Requester.
type TCPRequester struct{}

// NewTCPRequester creates a new TCP requester.
func NewTCPRequester() *TCPRequester {
	return &TCPRequester{}
}

// Request opens a fresh connection, sends one request and waits for the
// response. The timeout bounds the connect and the whole exchange.
func (q *TCPRequester) Request(addr string, payload []byte, timeout time.Duration) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to replay server %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("failed to set exchange deadline: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send replay request: %w", err)
	}

	frame, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read replay response: %w", err)
	}

	return bytes.TrimRight(frame, "\n"), nil
}
