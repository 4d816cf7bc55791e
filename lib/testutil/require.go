// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the part of testing.TB these helpers call. Tests of the
// helpers themselves substitute a recorder.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch. The test fails if ch
// is closed first or nothing arrives within timeout. The optional
// trailing arguments describe what was awaited, either a single value
// or a format string followed by its operands:
//
//	message := testutil.RequireReceive(t, inbound, 5*time.Second, "inbound from %s", "bob")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, description ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case value, open := <-ch:
		if open {
			return value
		}
		t.Fatalf("channel closed without sending a value: %s", describe(description))
	case <-timer.C:
		t.Fatalf("timed out after %v: %s", timeout, describe(description))
	}
	panic("testutil: Fatalf returned")
}

// RequireClosed blocks until ch is closed or yields a value, and fails
// the test if neither happens within timeout.
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, description ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("timed out after %v waiting for channel close: %s", timeout, describe(description))
	}
}

func describe(description []any) string {
	switch {
	case len(description) == 0:
		return "(no message)"
	case len(description) == 1:
		return fmt.Sprint(description[0])
	}
	if format, ok := description[0].(string); ok {
		return fmt.Sprintf(format, description[1:]...)
	}
	return fmt.Sprint(description...)
}
