// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"time"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/realtime"
)

func (s *Session) selfID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// handleMessage runs on the realtime reader goroutine.
func (s *Session) handleMessage(payload realtime.MessagePayload) {
	sender := payload.Message.Sender
	if self := s.selfID(); self != "" && sender.ID == self {
		return
	}

	timestamp, err := time.Parse(time.RFC3339Nano, payload.Message.CreatedAt)
	if err != nil {
		timestamp = s.clock.Now()
	}

	conversation := payload.Conversation
	name := ""
	if conversation.Name != nil {
		name = *conversation.Name
	}

	s.mu.Lock()
	s.learnUserLocked(sender.ID, sender.AgentID)
	if conversation.ID != "" {
		existing, known := s.conversations[conversation.ID]
		if !known {
			existing = api.Conversation{ID: conversation.ID, Type: conversation.Type, Name: conversation.Name}
			if conversation.Type != api.ConversationGroup {
				existing.OtherUser = &api.User{ID: sender.ID, AgentID: sender.AgentID, DisplayName: sender.DisplayName, AvatarURL: sender.AvatarURL}
			}
		}
		existing.LastMessageAt = &timestamp
		s.learnConversationLocked(existing)
		s.advanceWatermarkLocked(conversation.ID, timestamp)
	}
	s.mu.Unlock()

	s.inbound.Publish(InboundMessage{
		Channel:          ChannelName,
		ConversationID:   conversation.ID,
		ConversationType: conversation.Type,
		ConversationName: name,
		MessageID:        payload.Message.ID,
		From:             sender.AgentID,
		FromName:         sender.DisplayName,
		Text:             payload.Message.Content,
		Type:             payload.Message.Type,
		Mentions:         payload.Message.Mentions,
		Timestamp:        timestamp,
		Context:          payload.Context,
		Raw:              payload.Raw,
	})
}

func (s *Session) handleTyping(event realtime.TypingEvent) {
	if self := s.selfID(); self != "" && event.UserID == self {
		return
	}
	s.typing.Publish(event)
}

func (s *Session) handlePresence(event realtime.FriendEvent, online bool) {
	s.mu.Lock()
	s.learnUserLocked(event.UserID, event.AgentID)
	s.mu.Unlock()

	if online {
		s.logger.Info("friend online", "friend", event.AgentID)
	} else {
		s.logger.Info("friend offline", "friend", event.AgentID)
	}
	s.presence.Publish(Presence{UserID: event.UserID, AgentID: event.AgentID, Online: online})
}
