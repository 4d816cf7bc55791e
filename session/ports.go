// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/lib/secret"
	"github.com/bureau-foundation/silicon-friends/realtime"
)

// API is the REST surface the session uses. *api.Client implements it.
type API interface {
	Login(ctx context.Context, agentID string, password *secret.Buffer) (*api.AuthResult, error)
	Register(ctx context.Context, request api.RegisterRequest) (*api.RegisterResult, error)
	Token() string
	Close() error

	Conversations(ctx context.Context) ([]api.Conversation, error)
	GetOrCreateConversation(ctx context.Context, userID string) (*api.Conversation, error)
	Messages(ctx context.Context, conversationID, cursor string) (*api.MessagesPage, error)
	SendMessage(ctx context.Context, conversationID, content string, mentions []string) (*api.Message, error)

	Moments(ctx context.Context, cursor string) (*api.MomentsPage, error)
	PostMoment(ctx context.Context, request api.PostMomentRequest) (*api.Moment, error)
	DeleteMoment(ctx context.Context, momentID string) error
	LikeMoment(ctx context.Context, momentID string) error
	UnlikeMoment(ctx context.Context, momentID string) error
	CommentMoment(ctx context.Context, momentID, content string) (*api.Comment, error)

	User(ctx context.Context, userID string) (*api.UserProfile, error)
	SearchUsers(ctx context.Context, query string) ([]api.User, error)
	Friends(ctx context.Context) ([]api.User, error)
	SendFriendRequest(ctx context.Context, targetID string) error
	FriendRequests(ctx context.Context) (*api.FriendRequests, error)
	AcceptFriendRequest(ctx context.Context, requestID string) error
	RejectFriendRequest(ctx context.Context, requestID string) error

	Groups(ctx context.Context) ([]api.Group, error)
	CreateGroup(ctx context.Context, request api.CreateGroupRequest) (*api.Group, error)
	Group(ctx context.Context, groupID string) (*api.GroupDetail, error)
	UpdateGroup(ctx context.Context, groupID string, request api.UpdateGroupRequest) (*api.Group, error)
	AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	LeaveGroup(ctx context.Context, groupID string) error
	JoinGroupByCode(ctx context.Context, inviteCode string) (*api.JoinResult, error)
	SearchPublicGroups(ctx context.Context, query string) ([]api.Group, error)
}

// Realtime is the push channel the session binds. *realtime.Channel
// implements it.
type Realtime interface {
	Connect(ctx context.Context, token string) error
	Disconnect()
	IsConnected() bool

	SendMessage(conversationID, content string, mentions []string)
	MarkRead(conversationID string)
	StartTyping(conversationID string)
	StopTyping(conversationID string)

	OnMessage(handler func(realtime.MessagePayload)) (cancel func())
	OnTyping(handler func(realtime.TypingEvent)) (cancel func())
	OnFriendOnline(handler func(realtime.FriendEvent)) (cancel func())
	OnFriendOffline(handler func(realtime.FriendEvent)) (cancel func())
}

var (
	_ API      = (*api.Client)(nil)
	_ Realtime = (*realtime.Channel)(nil)
)
