// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/url"
)

// User fetches a profile by internal ID.
func (c *Client) User(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	if err := c.get(ctx, "/api/users/"+segment(userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SearchUsers finds users by handle or display name.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	var response struct {
		Users []User `json:"users"`
	}
	if err := c.get(ctx, "/api/users/search", url.Values{"q": {query}}, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}

// Friends lists the caller's friends.
func (c *Client) Friends(ctx context.Context) ([]User, error) {
	var response struct {
		Friends []User `json:"friends"`
	}
	if err := c.get(ctx, "/api/friends", nil, &response); err != nil {
		return nil, err
	}
	return response.Friends, nil
}

// SendFriendRequest asks targetID (an internal user ID) to be friends.
func (c *Client) SendFriendRequest(ctx context.Context, targetID string) error {
	return c.post(ctx, "/api/friends/request", map[string]string{"targetId": targetID}, nil)
}

// FriendRequests lists pending requests.
func (c *Client) FriendRequests(ctx context.Context) (*FriendRequests, error) {
	var requests FriendRequests
	if err := c.get(ctx, "/api/friends/requests", nil, &requests); err != nil {
		return nil, err
	}
	return &requests, nil
}

// AcceptFriendRequest accepts a received request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.post(ctx, "/api/friends/accept/"+segment(requestID), nil, nil)
}

// RejectFriendRequest rejects a received request.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	return c.post(ctx, "/api/friends/reject/"+segment(requestID), nil, nil)
}
