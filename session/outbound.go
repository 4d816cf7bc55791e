// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/silicon-friends/api"
)

// HandleOutbound delivers message. To == MomentsTarget posts a moment
// and ignores every other field except Text. Otherwise the destination
// is ConversationID, or the direct conversation with To, which is
// created when it does not exist yet.
//
// The transport is chosen per call: realtime when connected, else
// REST. A realtime Delivery carries no Message because the send is not
// acknowledged.
func (s *Session) HandleOutbound(ctx context.Context, message OutboundMessage) (Delivery, error) {
	if message.To == MomentsTarget {
		moment, err := s.api.PostMoment(ctx, api.PostMomentRequest{Content: message.Text})
		if err != nil {
			return Delivery{}, fmt.Errorf("session: posting moment: %w", err)
		}
		return Delivery{Path: PathMoment, Moment: moment}, nil
	}

	conversationID, err := s.resolveConversation(ctx, message.ConversationID, message.To)
	if err != nil {
		return Delivery{}, err
	}
	if message.ReplyTo != "" {
		s.logger.Debug("reply target not sent, API has no reply field",
			"conversation_id", conversationID, "reply_to", message.ReplyTo)
	}
	return s.deliver(ctx, conversationID, message.Text, message.Mentions)
}

// SendMessage sends content to target, which is a handle or a user ID.
func (s *Session) SendMessage(ctx context.Context, target, content string) (Delivery, error) {
	return s.HandleOutbound(ctx, OutboundMessage{To: target, Text: content})
}

// SendGroupMessage sends content to a group conversation. mentions may
// be nil.
func (s *Session) SendGroupMessage(ctx context.Context, groupID, content string, mentions []string) (Delivery, error) {
	return s.HandleOutbound(ctx, OutboundMessage{ConversationID: groupID, Text: content, Mentions: mentions})
}

// resolveConversation maps an address to a conversation ID. A handle
// seen before resolves without a network call.
func (s *Session) resolveConversation(ctx context.Context, conversationID, to string) (string, error) {
	if conversationID != "" {
		return conversationID, nil
	}
	if to == "" {
		return "", &AddressingError{Err: ErrNoDestination}
	}

	s.mu.Lock()
	userID, known := s.userIDByAgentID[to]
	if !known {
		userID = to
	}
	cached, found := s.conversationByUserID[userID]
	s.mu.Unlock()
	if found {
		return cached, nil
	}

	conversation, err := s.api.GetOrCreateConversation(ctx, userID)
	if err != nil {
		return "", &AddressingError{To: to, Err: err}
	}
	if conversation.ID == "" {
		return "", &AddressingError{To: to, Err: ErrNoDestination}
	}

	s.mu.Lock()
	s.learnConversationLocked(*conversation)
	s.conversationByUserID[userID] = conversation.ID
	s.mu.Unlock()
	return conversation.ID, nil
}

func (s *Session) deliver(ctx context.Context, conversationID, text string, mentions []string) (Delivery, error) {
	if s.realtime != nil && s.realtime.IsConnected() {
		s.realtime.SendMessage(conversationID, text, mentions)
		return Delivery{Path: PathRealtime, ConversationID: conversationID}, nil
	}

	message, err := s.api.SendMessage(ctx, conversationID, text, mentions)
	if err != nil {
		return Delivery{}, fmt.Errorf("session: sending to conversation %s: %w", conversationID, err)
	}
	return Delivery{Path: PathREST, ConversationID: conversationID, Message: message}, nil
}
