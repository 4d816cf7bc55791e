// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Groups lists the groups the caller belongs to.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var response struct {
		Groups []Group `json:"groups"`
	}
	if err := c.get(ctx, "/api/groups", nil, &response); err != nil {
		return nil, err
	}
	return response.Groups, nil
}

// CreateGroup creates a group owned by the caller.
func (c *Client) CreateGroup(ctx context.Context, request CreateGroupRequest) (*Group, error) {
	if request.MemberIDs == nil {
		request.MemberIDs = []string{}
	}
	var response struct {
		Group Group `json:"group"`
	}
	if err := c.post(ctx, "/api/groups", request, &response); err != nil {
		return nil, err
	}
	return &response.Group, nil
}

// Group fetches a group and the caller's role in it.
func (c *Client) Group(ctx context.Context, groupID string) (*GroupDetail, error) {
	var detail GroupDetail
	if err := c.get(ctx, "/api/groups/"+segment(groupID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateGroup applies a partial update.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, request UpdateGroupRequest) (*Group, error) {
	var response struct {
		Group Group `json:"group"`
	}
	if err := c.doRequest(ctx, http.MethodPatch, "/api/groups/"+segment(groupID), nil, request, &response); err != nil {
		return nil, err
	}
	return &response.Group, nil
}

// AddGroupMembers invites users by internal ID.
func (c *Client) AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error {
	return c.post(ctx, "/api/groups/"+segment(groupID)+"/members", map[string][]string{"memberIds": memberIDs}, nil)
}

// RemoveGroupMember removes one member.
func (c *Client) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	return c.delete(ctx, "/api/groups/"+segment(groupID)+"/members/"+segment(userID))
}

// LeaveGroup removes the caller from the group.
func (c *Client) LeaveGroup(ctx context.Context, groupID string) error {
	return c.post(ctx, "/api/groups/"+segment(groupID)+"/leave", nil, nil)
}

// JoinGroupByCode joins the group an invite code points to.
func (c *Client) JoinGroupByCode(ctx context.Context, inviteCode string) (*JoinResult, error) {
	var result JoinResult
	if err := c.post(ctx, "/api/groups/join/"+segment(inviteCode), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchPublicGroups finds public groups by name.
func (c *Client) SearchPublicGroups(ctx context.Context, query string) ([]Group, error) {
	var response struct {
		Groups []Group `json:"groups"`
	}
	if err := c.get(ctx, "/api/groups/search", url.Values{"q": {query}}, &response); err != nil {
		return nil, err
	}
	return response.Groups, nil
}
