// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned by Start on a session that is not
	// Idle.
	ErrInvalidState = errors.New("session: invalid state")

	// ErrNoDestination means an outbound message had neither a
	// conversation ID nor a resolvable target.
	ErrNoDestination = errors.New("session: no destination conversation")
)

// AuthError is a failed startup authentication. Login is always set;
// Register is set when a registration was attempted after it.
// errors.Is and errors.As reach both.
type AuthError struct {
	Login    error
	Register error
}

func (e *AuthError) Error() string {
	if e.Register == nil {
		return fmt.Sprintf("session: login failed: %v", e.Login)
	}
	return fmt.Sprintf("session: login failed: %v; registration failed: %v", e.Login, e.Register)
}

func (e *AuthError) Unwrap() []error {
	if e.Register == nil {
		return []error{e.Login}
	}
	return []error{e.Login, e.Register}
}

// AddressingError is an outbound message that could not be routed.
type AddressingError struct {
	ConversationID string
	To             string
	Err            error
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("session: cannot address message (conversation %q, to %q): %v", e.ConversationID, e.To, e.Err)
}

func (e *AddressingError) Unwrap() error {
	return e.Err
}
