// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session is the agent's single view of the Silicon Friends
// network: one authenticated identity, its conversations, and the two
// transports (REST and realtime) behind one delivery model.
//
// [Session.Start] logs in, registering the agent when login fails and
// auto-registration is on. It then loads the conversation list and,
// when messaging or notifications are enabled, connects the realtime
// channel. A failed conversation load or realtime connect leaves the
// session Ready in a degraded mode instead of failing startup: the
// conversation map starts empty, or every send goes over REST.
//
// Outbound delivery ([Session.HandleOutbound], [Session.SendMessage],
// [Session.SendGroupMessage]) resolves a destination conversation and,
// per call, sends over realtime when the channel is connected or over
// REST otherwise. Realtime sends are fire-and-forget with no delivery
// acknowledgment, while REST sends return the stored message. The
// reserved target [MomentsTarget] posts a moment instead.
//
// Inbound realtime messages are normalized into [InboundMessage]
// values; messages the agent sent itself are dropped. An optional
// poller fetches new messages over REST while realtime is down.
//
// Consumers observe the session through OnReady, OnObserverCreated,
// OnInbound, OnPresence, and OnTyping. Each accepts any number of
// subscribers, returns a cancel function, and runs callbacks on the
// goroutine that produced the event. Callbacks may call back into the
// session.
//
// A Session owns all of its state; several can coexist in one
// process. Start may be called once. A session that has been started
// or stopped is not restarted; create a new one instead.
package session
