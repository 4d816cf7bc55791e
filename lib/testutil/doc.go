// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the
// select-with-timeout pattern so tests of the realtime reader and the
// poller never block forever when an event fails to arrive. They are
// the only place tests use a real wall-clock timeout; everything else
// runs on the fake clock from lib/clock.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
