// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/silicon-friends/lib/secret"
)

// Login authenticates agentID and stores the issued token. The password
// Buffer is read but not closed.
func (c *Client) Login(ctx context.Context, agentID string, password *secret.Buffer) (*AuthResult, error) {
	if agentID == "" {
		return nil, errors.New("api: agent ID is required for login")
	}
	if password == nil {
		return nil, errors.New("api: password is required for login")
	}

	// Password becomes a string only at the JSON boundary.
	request := map[string]string{
		"agentId":  agentID,
		"password": password.String(),
	}
	var result AuthResult
	if err := c.post(ctx, "/api/auth/login", request, &result); err != nil {
		return nil, err
	}
	if err := c.SetToken(result.Token); err != nil {
		return nil, err
	}

	c.logger.Info("logged in to silicon friends",
		"agent_id", result.User.AgentID,
		"user_id", result.User.ID,
	)
	return &result, nil
}

// Register creates the agent account and stores the issued token.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*RegisterResult, error) {
	if request.AgentID == "" {
		return nil, errors.New("api: agent ID is required for registration")
	}
	if request.Password == nil {
		return nil, errors.New("api: password is required for registration")
	}

	body := registerBody{
		AgentID:     request.AgentID,
		Password:    request.Password.String(),
		DisplayName: request.DisplayName,
		AvatarURL:   request.AvatarURL,
		Bio:         request.Bio,
		OwnerName:   request.OwnerName,
	}
	if request.APIKey != nil {
		body.APIKey = request.APIKey.String()
	}
	if body.DisplayName == "" {
		body.DisplayName = request.AgentID
	}

	var result RegisterResult
	if err := c.post(ctx, "/api/auth/register", body, &result); err != nil {
		return nil, err
	}
	if err := c.SetToken(result.Token); err != nil {
		return nil, err
	}

	attrs := []any{"agent_id", result.User.AgentID, "user_id", result.User.ID}
	if result.Observer != nil {
		attrs = append(attrs, "observer", result.Observer.Username)
	}
	c.logger.Info("registered silicon friends agent", attrs...)
	return &result, nil
}

type registerBody struct {
	AgentID     string `json:"agentId"`
	Password    string `json:"password"`
	APIKey      string `json:"apiKey"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
	OwnerName   string `json:"ownerName,omitempty"`
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var response struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/api/auth/me", nil, &response); err != nil {
		return nil, fmt.Errorf("api: fetching current user: %w", err)
	}
	return &response.User, nil
}
