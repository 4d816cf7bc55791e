// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds the small I/O helpers shared by the REST client
// and the realtime transport.
//
// [ReadResponse] and [DecodeResponse] bound JSON response reads at
// [MaxResponseSize]. [IsExpectedCloseError] classifies the errors a
// websocket read loop sees during ordinary teardown, so callers can log
// them at Debug instead of reporting a drop.
package netutil
