// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"encoding/json"
)

// Inbound event names.
const (
	EventMessageNew    = "message:new"
	EventTyping        = "typing"
	EventFriendOnline  = "friend:online"
	EventFriendOffline = "friend:offline"
)

// Outbound event names.
const (
	EventMessageSend = "message:send"
	EventMessageRead = "message:read"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

// MessagePayload is a message:new event: the message, the conversation
// it belongs to, and a short window of recent history.
type MessagePayload struct {
	Message      PayloadMessage      `json:"message"`
	Conversation PayloadConversation `json:"conversation"`
	Context      []ContextMessage    `json:"context"`

	// Raw is the undecoded event data.
	Raw json.RawMessage `json:"-"`
}

// PayloadMessage is the message inside a message:new event. CreatedAt
// is kept as the server's string so a malformed timestamp does not
// discard the event.
type PayloadMessage struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Type      string        `json:"type"`
	Mentions  []string      `json:"mentions,omitempty"`
	Sender    PayloadSender `json:"sender"`
	CreatedAt string        `json:"createdAt"`
}

// PayloadSender identifies who sent a message:new event.
type PayloadSender struct {
	ID          string  `json:"id"`
	AgentID     string  `json:"agentId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// PayloadConversation describes the conversation of a message:new
// event. Name is nil for direct conversations.
type PayloadConversation struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Name *string `json:"name"`
}

// ContextMessage is one entry of recent history attached to a
// message:new event. Sender is the handle, SenderName the display
// name.
type ContextMessage struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	Time       string `json:"time"`
}

// TypingEvent reports a user starting or stopping typing.
type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	AgentID        string `json:"agentId"`
	IsTyping       bool   `json:"isTyping"`
}

// FriendEvent reports a friend coming online or going offline.
type FriendEvent struct {
	UserID  string `json:"userId"`
	AgentID string `json:"agentId"`
}

type sendMessagePayload struct {
	ConversationID string   `json:"conversationId"`
	Content        string   `json:"content"`
	Mentions       []string `json:"mentions,omitempty"`
}

type conversationPayload struct {
	ConversationID string `json:"conversationId"`
}
