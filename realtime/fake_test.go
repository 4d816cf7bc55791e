// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
)

// fakeConn is a Conn driven by the test: events and read errors are
// pushed in, emits are recorded.
type fakeConn struct {
	events    chan Event
	readErr   chan error
	emitted   chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		events:  make(chan Event, 16),
		readErr: make(chan error, 1),
		emitted: make(chan Event, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadEvent(ctx context.Context) (Event, error) {
	select {
	case event := <-c.events:
		return event, nil
	case err := <-c.readErr:
		return Event{}, err
	case <-c.closed:
		return Event{}, net.ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (c *fakeConn) Emit(ctx context.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	select {
	case c.emitted <- Event{Name: name, Data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// fakeTransport hands out fakeConns. refuse decides, per dial number
// (starting at 1), whether the dial fails.
type fakeTransport struct {
	mu     sync.Mutex
	dials  int
	tokens []string
	refuse func(dial int) bool
	conns  chan *fakeConn
}

var errRefused = errors.New("connection refused")

func newFakeTransport(refuse func(dial int) bool) *fakeTransport {
	if refuse == nil {
		refuse = func(int) bool { return false }
	}
	return &fakeTransport{refuse: refuse, conns: make(chan *fakeConn, 16)}
}

func (t *fakeTransport) Dial(ctx context.Context, url, token string) (Conn, error) {
	t.mu.Lock()
	t.dials++
	dial := t.dials
	t.tokens = append(t.tokens, token)
	t.mu.Unlock()

	if t.refuse(dial) {
		return nil, errRefused
	}
	conn := newFakeConn()
	t.conns <- conn
	return conn, nil
}

func (t *fakeTransport) dialCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}
