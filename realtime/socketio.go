// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/bureau-foundation/silicon-friends/lib/version"
)

const (
	defaultSocketIOPath = "/socket.io/"

	// Used until the open packet supplies the server's values.
	defaultPingInterval = 25 * time.Second
	defaultPingTimeout  = 20 * time.Second

	maxFrameSize = 1 << 20
)

// SocketIOTransport connects with Socket.IO v5 over the Engine.IO v4
// websocket transport. The token is sent in the connect packet's auth
// object. The zero value is ready to use.
type SocketIOTransport struct {
	// HTTPClient performs the websocket upgrade. If nil, http.DefaultClient.
	HTTPClient *http.Client
	// Path is the Engine.IO endpoint. Default "/socket.io/".
	Path string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Dial implements Transport.
func (t *SocketIOTransport) Dial(ctx context.Context, rawURL, token string) (Conn, error) {
	endpoint, err := socketIOEndpoint(rawURL, t.Path)
	if err != nil {
		return nil, err
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ws, _, err := websocket.Dial(ctx, endpoint, &websocket.DialOptions{
		HTTPClient: t.HTTPClient,
		HTTPHeader: http.Header{"User-Agent": {version.UserAgent()}},
	})
	if err != nil {
		return nil, fmt.Errorf("realtime: dialing %s: %w", endpoint, err)
	}
	ws.SetReadLimit(maxFrameSize)

	conn, err := handshake(ctx, ws, token)
	if err != nil {
		ws.Close(websocket.StatusNormalClosure, "")
		return nil, err
	}
	conn.logger = logger
	logger.Debug("socket.io session established",
		"engine_sid", conn.engineSID,
		"ping_interval", conn.pingInterval,
		"ping_timeout", conn.pingTimeout,
	)
	return conn, nil
}

// socketIOEndpoint rewrites an http(s) or ws(s) URL to the Engine.IO
// websocket endpoint on the same host.
func socketIOEndpoint(rawURL, path string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("realtime: invalid URL %q: %w", rawURL, err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("realtime: unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("realtime: URL %q has no host", rawURL)
	}
	if path == "" {
		path = defaultSocketIOPath
	}
	parsed.Path = path
	parsed.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	parsed.Fragment = ""
	return parsed.String(), nil
}

// handshake reads the open packet, sends the connect packet with the
// token, and waits for the server's connect or connect_error.
func handshake(ctx context.Context, ws *websocket.Conn, token string) (*socketConn, error) {
	conn := &socketConn{
		ws:           ws,
		pingInterval: defaultPingInterval,
		pingTimeout:  defaultPingTimeout,
	}

	open, err := conn.readPacket(ctx)
	if err != nil {
		return nil, fmt.Errorf("realtime: reading open packet: %w", err)
	}
	if open.engine != engineOpen {
		return nil, fmt.Errorf("realtime: expected open packet, got type %q", open.engine)
	}
	var parameters engineHandshake
	if err := json.Unmarshal(open.data, &parameters); err != nil {
		return nil, fmt.Errorf("realtime: parsing open packet: %w", err)
	}
	conn.engineSID = parameters.SID
	if parameters.PingInterval > 0 {
		conn.pingInterval = time.Duration(parameters.PingInterval) * time.Millisecond
	}
	if parameters.PingTimeout > 0 {
		conn.pingTimeout = time.Duration(parameters.PingTimeout) * time.Millisecond
	}

	connect, err := encodeConnect(token)
	if err != nil {
		return nil, err
	}
	if err := ws.Write(ctx, websocket.MessageText, connect); err != nil {
		return nil, fmt.Errorf("realtime: sending connect packet: %w", err)
	}

	for {
		received, err := conn.readPacket(ctx)
		if err != nil {
			return nil, fmt.Errorf("realtime: awaiting connect: %w", err)
		}
		switch {
		case received.engine == enginePing:
			if err := conn.pong(ctx); err != nil {
				return nil, err
			}
		case received.engine == engineClose:
			return nil, ErrServerDisconnect
		case received.engine == engineMessage && received.socket == socketConnect:
			return conn, nil
		case received.engine == engineMessage && received.socket == socketConnectError:
			return nil, &HandshakeError{Message: connectErrorMessage(received.data)}
		}
	}
}

// socketConn is a connected Socket.IO session.
type socketConn struct {
	ws           *websocket.Conn
	logger       *slog.Logger
	engineSID    string
	pingInterval time.Duration
	pingTimeout  time.Duration
	closeOnce    sync.Once
	closeErr     error
}

func (c *socketConn) readPacket(ctx context.Context) (packet, error) {
	messageType, frame, err := c.ws.Read(ctx)
	if err != nil {
		return packet{}, err
	}
	if messageType != websocket.MessageText {
		return packet{}, fmt.Errorf("realtime: unexpected binary frame")
	}
	return decodePacket(frame)
}

func (c *socketConn) pong(ctx context.Context) error {
	if err := c.ws.Write(ctx, websocket.MessageText, []byte{enginePong}); err != nil {
		return fmt.Errorf("realtime: sending pong: %w", err)
	}
	return nil
}

// ReadEvent implements Conn. The server pings every pingInterval; no
// frame within pingInterval+pingTimeout means the server is gone.
func (c *socketConn) ReadEvent(ctx context.Context) (Event, error) {
	for {
		readCtx, cancel := context.WithTimeout(ctx, c.pingInterval+c.pingTimeout)
		received, err := c.readPacket(readCtx)
		timedOut := readCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil
		cancel()
		if err != nil {
			if timedOut {
				return Event{}, fmt.Errorf("realtime: no ping from server within %s", c.pingInterval+c.pingTimeout)
			}
			return Event{}, err
		}

		switch received.engine {
		case enginePing:
			if err := c.pong(ctx); err != nil {
				return Event{}, err
			}
			continue
		case engineClose:
			return Event{}, ErrServerDisconnect
		case engineMessage:
		default:
			continue
		}

		switch received.socket {
		case socketEvent:
			event, err := decodeEvent(received.data)
			if err != nil {
				c.logger.Warn("dropping malformed socket.io event", "error", err)
				continue
			}
			return event, nil
		case socketDisconnect:
			return Event{}, ErrServerDisconnect
		}
	}
}

// Emit implements Conn.
func (c *socketConn) Emit(ctx context.Context, name string, payload any) error {
	frame, err := encodeEvent(name, payload)
	if err != nil {
		return err
	}
	return c.ws.Write(ctx, websocket.MessageText, frame)
}

// Close implements Conn. It sends the Socket.IO disconnect packet
// before closing the websocket.
func (c *socketConn) Close() error {
	c.closeOnce.Do(func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		c.ws.Write(writeCtx, websocket.MessageText, []byte{engineMessage, socketDisconnect})
		cancel()
		c.closeErr = c.ws.Close(websocket.StatusNormalClosure, "")
	})
	return c.closeErr
}
