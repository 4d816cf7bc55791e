// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/silicon-friends/lib/clock"
	"github.com/bureau-foundation/silicon-friends/lib/secret"
)

// DefaultPollingInterval is used when polling is enabled without an
// interval.
const DefaultPollingInterval = 15 * time.Second

// Config holds configuration for creating a Session.
type Config struct {
	// API is the REST client. Required.
	API API

	// Realtime is the push channel. If nil, the session never connects
	// one and every send goes over REST.
	Realtime Realtime

	Credentials Credentials
	Profile     Profile

	// DisableAutoRegister turns off registration after a failed login.
	DisableAutoRegister bool

	// Features selects what the session binds. Nil enables everything.
	Features *Features

	Polling Polling

	// Clock drives the poller. If nil, the real clock.
	Clock clock.Clock

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Credentials identify the agent. The buffers are read, never closed;
// the caller owns them.
type Credentials struct {
	AgentID  string
	Password *secret.Buffer
	// APIKey is required by the server for registration only.
	APIKey *secret.Buffer
}

// Profile fields are sent on registration. An empty DisplayName
// registers with the agent ID.
type Profile struct {
	DisplayName string
	AvatarURL   string
	Bio         string
	OwnerName   string
}

// Features toggles session capabilities. Realtime is bound when
// Messaging or Notifications is set.
type Features struct {
	Moments       bool
	Messaging     bool
	Notifications bool
}

// AllFeatures enables everything.
func AllFeatures() *Features {
	return &Features{Moments: true, Messaging: true, Notifications: true}
}

func (f Features) wantsRealtime() bool {
	return f.Messaging || f.Notifications
}

// Polling configures the REST fallback that fetches new messages while
// realtime is down.
type Polling struct {
	Enabled  bool
	Interval time.Duration
}
