// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/bureau-foundation/silicon-friends/api"
)

// poller fetches new messages over REST on a ticker while the realtime
// channel is down.
type poller struct {
	cancel   context.CancelFunc
	finished chan struct{}
}

// stop cancels the poll loop without waiting for it, so it is safe to
// call from an OnInbound callback the poller itself is running. It is
// idempotent. Use wait to join the loop.
func (p *poller) stop() {
	p.cancel()
}

// wait blocks until the poll loop has exited. The loop must already be
// stopped.
func (p *poller) wait() {
	<-p.finished
}

func (s *Session) startPoller() {
	ctx, cancel := context.WithCancel(context.Background())
	running := &poller{cancel: cancel, finished: make(chan struct{})}
	since := s.clock.Now()
	ticker := s.clock.NewTicker(s.polling.Interval)

	s.mu.Lock()
	s.poller = running
	s.mu.Unlock()

	s.logger.Debug("polling started", "interval", s.polling.Interval)
	go func() {
		defer close(running.finished)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				s.poll(ctx, since)
			}
		}
	}()
}

// poll runs one round. since is the watermark for conversations first
// seen by the poller: only their messages after the poller started
// are new.
func (s *Session) poll(ctx context.Context, since time.Time) {
	if s.realtime != nil && s.realtime.IsConnected() {
		return
	}

	conversations, err := s.api.Conversations(ctx)
	if err != nil {
		s.logger.Warn("polling conversations failed", "error", err)
		return
	}

	for _, conversation := range conversations {
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		watermark, seen := s.watermarks[conversation.ID]
		if !seen {
			watermark = since
		}
		s.learnConversationLocked(conversation)
		s.mu.Unlock()

		if conversation.LastMessageAt == nil || !conversation.LastMessageAt.After(watermark) {
			continue
		}
		s.pollConversation(ctx, conversation, watermark)
	}
}

// maxPollPages bounds how far back one round pages through a single
// conversation.
const maxPollPages = 20

func (s *Session) pollConversation(ctx context.Context, conversation api.Conversation, watermark time.Time) {
	messages, err := s.messagesSince(ctx, conversation.ID, watermark)
	if err != nil {
		s.logger.Warn("polling messages failed", "conversation_id", conversation.ID, "error", err)
		return
	}

	self := s.selfID()
	newest := watermark
	var fresh []api.Message
	for _, message := range messages {
		if !message.CreatedAt.After(watermark) {
			continue
		}
		if message.CreatedAt.After(newest) {
			newest = message.CreatedAt
		}
		if message.Sender.ID == self {
			continue
		}
		fresh = append(fresh, message)
	}

	s.mu.Lock()
	s.advanceWatermarkLocked(conversation.ID, newest)
	for _, message := range fresh {
		s.learnUserLocked(message.Sender.ID, message.Sender.AgentID)
	}
	s.mu.Unlock()

	name := ""
	if conversation.Name != nil {
		name = *conversation.Name
	}
	for _, message := range fresh {
		raw, err := json.Marshal(message)
		if err != nil {
			s.logger.Warn("encoding polled message", "message_id", message.ID, "error", err)
		}
		conversationID := message.ConversationID
		if conversationID == "" {
			conversationID = conversation.ID
		}
		s.inbound.Publish(InboundMessage{
			Channel:          ChannelName,
			ConversationID:   conversationID,
			ConversationType: conversation.Type,
			ConversationName: name,
			MessageID:        message.ID,
			From:             message.Sender.AgentID,
			FromName:         message.Sender.DisplayName,
			Text:             message.Content,
			Type:             message.MessageType,
			Mentions:         message.Mentions,
			Timestamp:        message.CreatedAt,
			Raw:              raw,
		})
	}
}

// messagesSince pages backwards through a conversation until it passes
// watermark and returns everything fetched, oldest first. Messages
// older than the last of maxPollPages pages are not fetched.
func (s *Session) messagesSince(ctx context.Context, conversationID string, watermark time.Time) ([]api.Message, error) {
	var collected []api.Message
	cursor := ""
	for range maxPollPages {
		page, err := s.api.Messages(ctx, conversationID, cursor)
		if err != nil {
			if len(collected) == 0 {
				return nil, err
			}
			s.logger.Warn("polling older messages failed", "conversation_id", conversationID, "error", err)
			break
		}

		// Pages are newest first.
		collected = append(collected, page.Messages...)
		reached := len(page.Messages) == 0 || !page.Messages[len(page.Messages)-1].CreatedAt.After(watermark)
		if reached || page.NextCursor == nil || *page.NextCursor == "" || *page.NextCursor == cursor {
			break
		}
		cursor = *page.NextCursor
	}
	slices.Reverse(collected)
	return collected, nil
}
