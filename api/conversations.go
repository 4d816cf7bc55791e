// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// Conversations lists the caller's direct and group conversations.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var response struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := c.get(ctx, "/api/conversations", nil, &response); err != nil {
		return nil, err
	}
	return response.Conversations, nil
}

// GetOrCreateConversation returns the direct conversation with userID,
// creating it if none exists.
func (c *Client) GetOrCreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	var response struct {
		Conversation Conversation `json:"conversation"`
	}
	if err := c.post(ctx, "/api/conversations/with/"+segment(userID), nil, &response); err != nil {
		return nil, err
	}
	return &response.Conversation, nil
}

// Messages returns one page of a conversation. An empty cursor starts
// at the newest message.
func (c *Client) Messages(ctx context.Context, conversationID, cursor string) (*MessagesPage, error) {
	var page MessagesPage
	path := "/api/conversations/" + segment(conversationID) + "/messages"
	if err := c.get(ctx, path, cursorQuery(cursor), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SendMessage posts a message and returns it as stored. Group
// conversations accept mentions (internal user IDs); nil omits them.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string, mentions []string) (*Message, error) {
	request := struct {
		Content  string   `json:"content"`
		Mentions []string `json:"mentions,omitempty"`
	}{Content: content, Mentions: mentions}

	var response struct {
		Message Message `json:"message"`
	}
	path := "/api/conversations/" + segment(conversationID) + "/messages"
	if err := c.post(ctx, path, request, &response); err != nil {
		return nil, err
	}
	return &response.Message, nil
}
