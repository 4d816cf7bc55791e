// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package observer

import (
	"slices"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	var registry Registry[string]
	var got []string

	registry.Subscribe(func(value string) { got = append(got, "first:"+value) })
	registry.Subscribe(func(value string) { got = append(got, "second:"+value) })

	if delivered := registry.Publish("hello"); delivered != 2 {
		t.Fatalf("Publish delivered to %d subscribers, want 2", delivered)
	}
	want := []string{"first:hello", "second:hello"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	var registry Registry[int]
	if delivered := registry.Publish(42); delivered != 0 {
		t.Errorf("Publish delivered to %d subscribers, want 0", delivered)
	}
}

func TestCancel(t *testing.T) {
	var registry Registry[int]
	calls := 0
	cancel := registry.Subscribe(func(int) { calls++ })

	registry.Publish(1)
	cancel()
	cancel()
	registry.Publish(2)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if registry.Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", registry.Len())
	}
}

func TestCancelInsideCallback(t *testing.T) {
	var registry Registry[int]
	var cancel func()
	calls := 0
	cancel = registry.Subscribe(func(int) {
		calls++
		cancel()
	})
	otherCalls := 0
	registry.Subscribe(func(int) { otherCalls++ })

	registry.Publish(1)
	registry.Publish(2)

	if calls != 1 {
		t.Errorf("self-cancelling handler called %d times, want 1", calls)
	}
	if otherCalls != 2 {
		t.Errorf("other handler called %d times, want 2", otherCalls)
	}
}

func TestClear(t *testing.T) {
	var registry Registry[int]
	registry.Subscribe(func(int) {})
	registry.Subscribe(func(int) {})
	registry.Clear()
	if registry.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", registry.Len())
	}
}
