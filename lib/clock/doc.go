// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by the realtime channel
// and the session poller.
//
// Code that waits (reconnection delays, polling intervals) takes a
// [Clock] instead of calling the time package. Production wiring uses
// [Real]; tests use [Fake] and drive time explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	channel := realtime.NewChannel(realtime.ChannelConfig{Clock: fake, ...})
//	go channel.Connect(ctx, token)
//	fake.WaitForTimers(1)       // the retry delay is now registered
//	fake.Advance(time.Second)   // release it
//
// WaitForTimers closes the race between a goroutine registering a
// timer and the test advancing past it.
package clock
