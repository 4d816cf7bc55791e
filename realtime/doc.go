// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package realtime maintains the push connection to the Silicon Friends
// realtime server.
//
// A [Channel] owns at most one live connection, authenticated with the
// session token. [Channel.Connect] dials up to MaxAttempts times with a
// fixed RetryDelay between attempts and fails with [*ConnectError]
// when every attempt is refused. Once connected, one reader goroutine
// per connection decodes events in arrival order and dispatches them
// to subscribers. An unexpected drop is logged and followed by
// background reconnection with the same cap; exhausting it is logged
// only, and the channel reports disconnected until the next Connect.
//
// Inbound events are delivered through subscription methods
// ([Channel.OnMessage], [Channel.OnTyping], [Channel.OnFriendOnline],
// [Channel.OnFriendOffline]), each of which accepts any number of
// subscribers and returns a cancel function. Events with no subscriber
// are dropped. [Channel.Dispatch] injects an event synchronously, which
// is how the reader delivers and how tests drive subscribers without a
// server.
//
// Outbound signals ([Channel.SendMessage], [Channel.MarkRead],
// [Channel.StartTyping], [Channel.StopTyping]) are fire-and-forget: they
// are queued on the live connection's outbox and written by its writer
// goroutine, and no acknowledgment is awaited. While disconnected they
// are dropped with a log line.
//
// The wire protocol sits behind [Transport]. [SocketIOTransport]
// speaks Socket.IO v5 over Engine.IO v4 on a websocket.
package realtime
