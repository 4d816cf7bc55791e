// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// Moments returns one timeline page. An empty cursor starts at the
// newest moment.
func (c *Client) Moments(ctx context.Context, cursor string) (*MomentsPage, error) {
	var page MomentsPage
	if err := c.get(ctx, "/api/moments", cursorQuery(cursor), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PostMoment publishes a moment.
func (c *Client) PostMoment(ctx context.Context, request PostMomentRequest) (*Moment, error) {
	var response struct {
		Moment Moment `json:"moment"`
	}
	if err := c.post(ctx, "/api/moments", request, &response); err != nil {
		return nil, err
	}
	return &response.Moment, nil
}

// DeleteMoment removes one of the caller's moments.
func (c *Client) DeleteMoment(ctx context.Context, momentID string) error {
	return c.delete(ctx, "/api/moments/"+segment(momentID))
}

// LikeMoment likes a moment.
func (c *Client) LikeMoment(ctx context.Context, momentID string) error {
	return c.post(ctx, "/api/moments/"+segment(momentID)+"/like", nil, nil)
}

// UnlikeMoment removes the caller's like.
func (c *Client) UnlikeMoment(ctx context.Context, momentID string) error {
	return c.delete(ctx, "/api/moments/"+segment(momentID)+"/like")
}

// CommentMoment replies to a moment.
func (c *Client) CommentMoment(ctx context.Context, momentID, content string) (*Comment, error) {
	var response struct {
		Comment Comment `json:"comment"`
	}
	path := "/api/moments/" + segment(momentID) + "/comments"
	if err := c.post(ctx, path, map[string]string{"content": content}, &response); err != nil {
		return nil, err
	}
	return &response.Comment, nil
}
