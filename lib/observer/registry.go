// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package observer provides a typed multi-subscriber registry.
//
// Publish calls every subscriber synchronously, in subscription order,
// on the publishing goroutine. Subscribers may cancel themselves or
// subscribe others from inside a callback; the change applies from the
// next Publish.
package observer

import "sync"

// Registry holds the subscribers for one event type. The zero value is
// ready to use.
type Registry[T any] struct {
	mu          sync.Mutex
	nextID      uint64
	subscribers []subscriber[T]
}

type subscriber[T any] struct {
	id      uint64
	handler func(T)
}

// Subscribe registers handler and returns a function that removes it.
// The returned function is idempotent.
func (r *Registry[T]) Subscribe(handler func(T)) (cancel func()) {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subscribers = append(r.subscribers, subscriber[T]{id: id, handler: handler})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for index, entry := range r.subscribers {
		if entry.id == id {
			r.subscribers = append(r.subscribers[:index:index], r.subscribers[index+1:]...)
			return
		}
	}
}

// Publish delivers value to every current subscriber and returns how
// many received it. With no subscribers the value is dropped.
func (r *Registry[T]) Publish(value T) int {
	r.mu.Lock()
	snapshot := make([]func(T), len(r.subscribers))
	for index, entry := range r.subscribers {
		snapshot[index] = entry.handler
	}
	r.mu.Unlock()

	for _, handler := range snapshot {
		handler(value)
	}
	return len(snapshot)
}

// Len returns the number of subscribers.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// Clear removes every subscriber.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	r.subscribers = nil
	r.mu.Unlock()
}
