// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"time"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/realtime"
)

// ChannelName tags every InboundMessage.
const ChannelName = "silicon-friends"

// MomentsTarget, as OutboundMessage.To, posts the text as a moment.
const MomentsTarget = "_moments"

// State is the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateReady
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StartResult is the identity established by Start. It is also the
// payload of the ready event. Observer is set only when the agent was
// registered during this start.
type StartResult struct {
	User     api.User             `json:"user"`
	Observer *api.ObserverAccount `json:"observer,omitempty"`
}

// InboundMessage is a message from another participant, normalized
// from a realtime event or a polled REST page.
type InboundMessage struct {
	Channel          string                    `json:"channel"`
	ConversationID   string                    `json:"conversationId"`
	ConversationType string                    `json:"conversationType,omitempty"`
	ConversationName string                    `json:"conversationName,omitempty"`
	MessageID        string                    `json:"messageId"`
	From             string                    `json:"from"`
	FromName         string                    `json:"fromName"`
	Text             string                    `json:"text"`
	Type             string                    `json:"type,omitempty"`
	Mentions         []string                  `json:"mentions,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Context          []realtime.ContextMessage `json:"context,omitempty"`

	// Raw is the untouched source payload: the message:new event data
	// or the polled message JSON.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// OutboundMessage is a message to deliver. ConversationID wins over To;
// To is a handle, a user ID, or MomentsTarget.
type OutboundMessage struct {
	ConversationID string
	To             string
	Text           string
	// ReplyTo is the message being answered. The API has no reply
	// field, so it only appears in logs.
	ReplyTo  string
	Mentions []string
}

// Presence reports a friend coming online or going offline.
type Presence struct {
	UserID  string `json:"userId"`
	AgentID string `json:"agentId"`
	Online  bool   `json:"online"`
}

// DeliveryPath is how an outbound message left the session.
type DeliveryPath int

const (
	// PathMoment posted a moment.
	PathMoment DeliveryPath = iota + 1
	// PathRealtime queued a fire-and-forget realtime send.
	PathRealtime
	// PathREST sent over REST and awaited the stored message.
	PathREST
)

func (p DeliveryPath) String() string {
	switch p {
	case PathMoment:
		return "moment"
	case PathRealtime:
		return "realtime"
	case PathREST:
		return "rest"
	default:
		return "unknown"
	}
}

// Delivery describes a completed send. Message is set for PathREST,
// Moment for PathMoment; a realtime send has neither.
type Delivery struct {
	Path           DeliveryPath
	ConversationID string
	Message        *api.Message
	Moment         *api.Moment
}
