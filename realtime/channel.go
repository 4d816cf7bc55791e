// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/silicon-friends/lib/clock"
	"github.com/bureau-foundation/silicon-friends/lib/netutil"
	"github.com/bureau-foundation/silicon-friends/lib/observer"
)

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = time.Second
	defaultOutboxSize  = 64
)

// errSuperseded is returned by Connect when Disconnect (or another
// Connect) ran while it was dialing.
var errSuperseded = errors.New("realtime: connect superseded by disconnect")

// ChannelConfig holds configuration for creating a Channel.
type ChannelConfig struct {
	// URL is the realtime server, http(s) or ws(s).
	URL string
	// Transport dials connections. If nil, a SocketIOTransport is used.
	Transport Transport
	// Clock times the delay between attempts. If nil, the real clock.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// MaxAttempts caps dial attempts per connect or reconnect. Default 5.
	MaxAttempts int
	// RetryDelay is the fixed wait between attempts. Default 1s.
	RetryDelay time.Duration
	// OutboxSize bounds queued outbound signals. Default 64.
	OutboxSize int
}

// Channel is the realtime adapter. It is safe for concurrent use.
type Channel struct {
	url         string
	transport   Transport
	clock       clock.Clock
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration
	outboxSize  int

	messages      observer.Registry[MessagePayload]
	typing        observer.Registry[TypingEvent]
	friendOnline  observer.Registry[FriendEvent]
	friendOffline observer.Registry[FriendEvent]

	mu sync.Mutex
	// generation increments on every Connect and Disconnect. Background
	// work started under an older generation discards its result.
	generation      uint64
	current         *connection
	cancelReconnect context.CancelFunc
	token           string
}

// connection is one live Conn with its reader and writer goroutines.
type connection struct {
	conn      Conn
	outbox    chan outboundEvent
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

type outboundEvent struct {
	name    string
	payload any
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

// NewChannel creates a disconnected channel.
func NewChannel(config ChannelConfig) *Channel {
	channel := &Channel{
		url:         config.URL,
		transport:   config.Transport,
		clock:       config.Clock,
		logger:      config.Logger,
		maxAttempts: config.MaxAttempts,
		retryDelay:  config.RetryDelay,
		outboxSize:  config.OutboxSize,
	}
	if channel.logger == nil {
		channel.logger = slog.Default()
	}
	if channel.transport == nil {
		channel.transport = &SocketIOTransport{Logger: channel.logger}
	}
	if channel.clock == nil {
		channel.clock = clock.Real()
	}
	if channel.maxAttempts <= 0 {
		channel.maxAttempts = defaultMaxAttempts
	}
	if channel.retryDelay <= 0 {
		channel.retryDelay = defaultRetryDelay
	}
	if channel.outboxSize <= 0 {
		channel.outboxSize = defaultOutboxSize
	}
	return channel
}

// Connect establishes the connection, tearing down any previous one.
// It returns *ConnectError when every attempt fails, or the context's
// error if ctx ends first.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	previous := c.detachLocked()
	c.token = token
	c.mu.Unlock()

	if previous != nil {
		previous.close()
	}

	conn, err := c.dial(ctx, token, false)
	if err != nil {
		return err
	}

	if !c.attach(conn, generation) {
		return errSuperseded
	}
	c.logger.Info("realtime connected", "url", c.url)
	return nil
}

// Disconnect closes the connection and cancels pending reconnection.
// Safe to call at any time.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.generation++
	current := c.detachLocked()
	c.mu.Unlock()

	if current != nil {
		current.close()
		c.logger.Info("realtime disconnected", "reason", "client disconnect")
	}
}

// IsConnected reports whether a live connection exists.
func (c *Channel) IsConnected() bool {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return false
	}
	select {
	case <-current.ctx.Done():
		return false
	default:
		return true
	}
}

// detachLocked clears the current connection and pending
// reconnection, returning the connection for the caller to close
// outside the lock.
func (c *Channel) detachLocked() *connection {
	if c.cancelReconnect != nil {
		c.cancelReconnect()
		c.cancelReconnect = nil
	}
	current := c.current
	c.current = nil
	return current
}

// dial makes up to maxAttempts attempts. With delayFirst it waits one
// RetryDelay before the first attempt, as reconnection does.
func (c *Channel) dial(ctx context.Context, token string, delayFirst bool) (Conn, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 || delayFirst {
			select {
			case <-c.clock.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		conn, err := c.transport.Dial(ctx, c.url, token)
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Warn("realtime connection attempt failed",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err,
		)
	}
	return nil, &ConnectError{Attempts: c.maxAttempts, Err: lastErr}
}

// attach installs conn as the current connection if generation is
// still current, starting its goroutines. Otherwise conn is closed.
func (c *Channel) attach(conn Conn, generation uint64) bool {
	ctx, cancel := context.WithCancel(context.Background())
	live := &connection{
		conn:   conn,
		outbox: make(chan outboundEvent, c.outboxSize),
		ctx:    ctx,
		cancel: cancel,
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		live.close()
		return false
	}
	c.current = live
	c.mu.Unlock()

	go c.readLoop(live)
	go c.writeLoop(live)
	return true
}

func (c *Channel) readLoop(live *connection) {
	for {
		event, err := live.conn.ReadEvent(live.ctx)
		if err != nil {
			c.dropped(live, err)
			return
		}
		c.Dispatch(event)
	}
}

func (c *Channel) writeLoop(live *connection) {
	for {
		select {
		case <-live.ctx.Done():
			return
		case event := <-live.outbox:
			if err := live.conn.Emit(live.ctx, event.name, event.payload); err != nil {
				if live.ctx.Err() == nil {
					c.logger.Warn("realtime emit failed", "event", event.name, "error", err)
				}
			}
		}
	}
}

// dropped handles the reader ending. A connection closed by Disconnect
// or Connect is no longer current and is ignored.
func (c *Channel) dropped(live *connection, reason error) {
	c.mu.Lock()
	if c.current != live {
		c.mu.Unlock()
		return
	}
	c.current = nil
	generation := c.generation
	token := c.token
	reconnectCtx, cancel := context.WithCancel(context.Background())
	c.cancelReconnect = cancel
	c.mu.Unlock()

	live.close()
	if netutil.IsExpectedCloseError(reason) {
		c.logger.Info("realtime disconnected", "reason", reason)
	} else {
		c.logger.Warn("realtime disconnected", "reason", reason)
	}

	go c.reconnect(reconnectCtx, generation, token)
}

func (c *Channel) reconnect(ctx context.Context, generation uint64, token string) {
	conn, err := c.dial(ctx, token, true)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Error("realtime reconnection abandoned", "error", err)
		}
		return
	}
	if !c.attach(conn, generation) {
		return
	}
	c.logger.Info("realtime reconnected", "url", c.url)
}

// Dispatch decodes event and delivers it to the matching subscribers
// on the calling goroutine. Unknown events and undecodable payloads are
// logged and dropped.
func (c *Channel) Dispatch(event Event) {
	switch event.Name {
	case EventMessageNew:
		var payload MessagePayload
		if !c.decode(event, &payload) {
			return
		}
		payload.Raw = event.Data
		c.messages.Publish(payload)
	case EventTyping:
		var payload TypingEvent
		if c.decode(event, &payload) {
			c.typing.Publish(payload)
		}
	case EventFriendOnline:
		var payload FriendEvent
		if c.decode(event, &payload) {
			c.friendOnline.Publish(payload)
		}
	case EventFriendOffline:
		var payload FriendEvent
		if c.decode(event, &payload) {
			c.friendOffline.Publish(payload)
		}
	default:
		c.logger.Debug("ignoring realtime event", "event", event.Name)
	}
}

func (c *Channel) decode(event Event, target any) bool {
	if err := json.Unmarshal(event.Data, target); err != nil {
		c.logger.Warn("dropping undecodable realtime event", "event", event.Name, "error", err)
		return false
	}
	return true
}

// OnMessage subscribes to message:new events.
func (c *Channel) OnMessage(handler func(MessagePayload)) (cancel func()) {
	return c.messages.Subscribe(handler)
}

// OnTyping subscribes to typing events.
func (c *Channel) OnTyping(handler func(TypingEvent)) (cancel func()) {
	return c.typing.Subscribe(handler)
}

// OnFriendOnline subscribes to friend:online events.
func (c *Channel) OnFriendOnline(handler func(FriendEvent)) (cancel func()) {
	return c.friendOnline.Subscribe(handler)
}

// OnFriendOffline subscribes to friend:offline events.
func (c *Channel) OnFriendOffline(handler func(FriendEvent)) (cancel func()) {
	return c.friendOffline.Subscribe(handler)
}

// SendMessage queues a message:send. Nil mentions are omitted.
func (c *Channel) SendMessage(conversationID, content string, mentions []string) {
	c.emit(EventMessageSend, sendMessagePayload{
		ConversationID: conversationID,
		Content:        content,
		Mentions:       mentions,
	})
}

// MarkRead queues a message:read.
func (c *Channel) MarkRead(conversationID string) {
	c.emit(EventMessageRead, conversationPayload{ConversationID: conversationID})
}

// StartTyping queues a typing:start.
func (c *Channel) StartTyping(conversationID string) {
	c.emit(EventTypingStart, conversationPayload{ConversationID: conversationID})
}

// StopTyping queues a typing:stop.
func (c *Channel) StopTyping(conversationID string) {
	c.emit(EventTypingStop, conversationPayload{ConversationID: conversationID})
}

func (c *Channel) emit(name string, payload any) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current == nil {
		c.logger.Debug("realtime not connected, dropping emit", "event", name)
		return
	}
	select {
	case current.outbox <- outboundEvent{name: name, payload: payload}:
	default:
		c.logger.Warn("realtime outbox full, dropping emit", "event", name)
	}
}
