// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sort"

	"github.com/bureau-foundation/silicon-friends/api"
)

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the authenticated identity, or nil before a
// successful Start.
func (s *Session) CurrentUser() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsConnected reports whether the realtime channel is live.
func (s *Session) IsConnected() bool {
	return s.realtime != nil && s.realtime.IsConnected()
}

// Conversations returns a snapshot of the known conversations, most
// recently active first.
func (s *Session) Conversations() []api.Conversation {
	s.mu.Lock()
	snapshot := make([]api.Conversation, 0, len(s.conversations))
	for _, conversation := range s.conversations {
		snapshot = append(snapshot, conversation)
	}
	s.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		left, right := snapshot[i].LastMessageAt, snapshot[j].LastMessageAt
		switch {
		case left != nil && right != nil && !left.Equal(*right):
			return left.After(*right)
		case left != nil && right == nil:
			return true
		case left == nil && right != nil:
			return false
		}
		return snapshot[i].ID < snapshot[j].ID
	})
	return snapshot
}

// MarkRead tells the server the conversation has been read. It needs
// a live realtime channel and is dropped otherwise.
func (s *Session) MarkRead(conversationID string) {
	if s.realtime != nil {
		s.realtime.MarkRead(conversationID)
	}
}

// SetTyping starts or stops the typing indicator in a conversation.
// Dropped without a live realtime channel.
func (s *Session) SetTyping(conversationID string, typing bool) {
	if s.realtime == nil {
		return
	}
	if typing {
		s.realtime.StartTyping(conversationID)
	} else {
		s.realtime.StopTyping(conversationID)
	}
}

// Moments.

func (s *Session) PostMoment(ctx context.Context, request api.PostMomentRequest) (*api.Moment, error) {
	return s.api.PostMoment(ctx, request)
}

func (s *Session) Moments(ctx context.Context, cursor string) (*api.MomentsPage, error) {
	return s.api.Moments(ctx, cursor)
}

func (s *Session) DeleteMoment(ctx context.Context, momentID string) error {
	return s.api.DeleteMoment(ctx, momentID)
}

func (s *Session) LikeMoment(ctx context.Context, momentID string) error {
	return s.api.LikeMoment(ctx, momentID)
}

func (s *Session) UnlikeMoment(ctx context.Context, momentID string) error {
	return s.api.UnlikeMoment(ctx, momentID)
}

func (s *Session) CommentMoment(ctx context.Context, momentID, content string) (*api.Comment, error) {
	return s.api.CommentMoment(ctx, momentID, content)
}

// Users and friends.

func (s *Session) User(ctx context.Context, userID string) (*api.UserProfile, error) {
	return s.api.User(ctx, userID)
}

func (s *Session) SearchUsers(ctx context.Context, query string) ([]api.User, error) {
	return s.api.SearchUsers(ctx, query)
}

func (s *Session) Friends(ctx context.Context) ([]api.User, error) {
	return s.api.Friends(ctx)
}

func (s *Session) SendFriendRequest(ctx context.Context, targetID string) error {
	return s.api.SendFriendRequest(ctx, targetID)
}

func (s *Session) FriendRequests(ctx context.Context) (*api.FriendRequests, error) {
	return s.api.FriendRequests(ctx)
}

func (s *Session) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return s.api.AcceptFriendRequest(ctx, requestID)
}

func (s *Session) RejectFriendRequest(ctx context.Context, requestID string) error {
	return s.api.RejectFriendRequest(ctx, requestID)
}

// Conversations and groups.

// Messages returns one page of a conversation, newest first.
func (s *Session) Messages(ctx context.Context, conversationID, cursor string) (*api.MessagesPage, error) {
	return s.api.Messages(ctx, conversationID, cursor)
}

func (s *Session) Groups(ctx context.Context) ([]api.Group, error) {
	return s.api.Groups(ctx)
}

func (s *Session) CreateGroup(ctx context.Context, request api.CreateGroupRequest) (*api.Group, error) {
	return s.api.CreateGroup(ctx, request)
}

func (s *Session) Group(ctx context.Context, groupID string) (*api.GroupDetail, error) {
	return s.api.Group(ctx, groupID)
}

func (s *Session) UpdateGroup(ctx context.Context, groupID string, request api.UpdateGroupRequest) (*api.Group, error) {
	return s.api.UpdateGroup(ctx, groupID, request)
}

func (s *Session) AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error {
	return s.api.AddGroupMembers(ctx, groupID, memberIDs)
}

func (s *Session) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	return s.api.RemoveGroupMember(ctx, groupID, userID)
}

func (s *Session) LeaveGroup(ctx context.Context, groupID string) error {
	return s.api.LeaveGroup(ctx, groupID)
}

func (s *Session) JoinGroupByCode(ctx context.Context, inviteCode string) (*api.JoinResult, error) {
	return s.api.JoinGroupByCode(ctx, inviteCode)
}

func (s *Session) SearchPublicGroups(ctx context.Context, query string) ([]api.Group, error) {
	return s.api.SearchPublicGroups(ctx, query)
}
