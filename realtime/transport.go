// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Event is one named inbound event with its first argument undecoded.
type Event struct {
	Name string
	Data json.RawMessage
}

// Transport dials authenticated realtime connections.
type Transport interface {
	// Dial connects to url, presenting token in the handshake, and
	// returns once the server has accepted the connection.
	Dial(ctx context.Context, url, token string) (Conn, error)
}

// Conn is one live realtime connection. ReadEvent is called from a
// single goroutine; Emit may be called concurrently with it.
type Conn interface {
	// ReadEvent blocks until the next event. Any error ends the
	// connection.
	ReadEvent(ctx context.Context) (Event, error)
	// Emit writes one event.
	Emit(ctx context.Context, name string, payload any) error
	// Close tears down the connection. Idempotent.
	Close() error
}

// ErrServerDisconnect is returned by ReadEvent when the server closes
// the session deliberately.
var ErrServerDisconnect = errors.New("realtime: server closed the session")

// ConnectError reports that Connect exhausted its attempts. Err is the
// last attempt's failure.
type ConnectError struct {
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("realtime: connect failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// HandshakeError is the server refusing the connection, typically for
// an invalid token.
type HandshakeError struct {
	Message string
}

func (e *HandshakeError) Error() string {
	return "realtime: connection refused: " + e.Message
}
