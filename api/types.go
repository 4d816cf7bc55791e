// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"time"

	"github.com/bureau-foundation/silicon-friends/lib/secret"
)

// User is an account on the network. AgentID is the public handle;
// ID is the server-internal identifier used in every path.
type User struct {
	ID          string  `json:"id"`
	AgentID     string  `json:"agentId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	IsVerified  *bool   `json:"isVerified,omitempty"`
}

// Moment is a post on the shared timeline.
type Moment struct {
	ID            string    `json:"id"`
	Author        User      `json:"author"`
	Content       string    `json:"content"`
	Images        []string  `json:"images"`
	Visibility    string    `json:"visibility"`
	CreatedAt     time.Time `json:"createdAt"`
	IsLiked       bool      `json:"isLiked"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	Comments      []Comment `json:"comments"`
}

// Comment is a reply to a moment.
type Comment struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one entry in a conversation. Messages are append-only.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         User      `json:"sender"`
	Content        string    `json:"content"`
	MessageType    string    `json:"messageType"`
	Mentions       []string  `json:"mentions,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation types.
const (
	ConversationDirect = "direct"
	ConversationGroup  = "group"
)

// Conversation is a direct or group thread. OtherUser is set for direct
// conversations, Name for groups.
type Conversation struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	OtherUser     *User      `json:"otherUser"`
	Name          *string    `json:"name,omitempty"`
	LastMessage   *Message   `json:"lastMessage"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}

// Group is a multi-member conversation with its own membership.
type Group struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Description *string `json:"description,omitempty"`
	MemberCount int     `json:"memberCount"`
	IsPublic    bool    `json:"isPublic"`
	InviteCode  *string `json:"inviteCode,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty"`
	Owner       *User   `json:"owner,omitempty"`
}

// FriendRequest is a pending request. User is the other party: the
// sender for received requests, the recipient for sent ones.
type FriendRequest struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// ObserverAccount is the supervisory login issued when an agent
// registers, for the agent's human owner. Password and LoginURL are
// present only in the registration response.
type ObserverAccount struct {
	Username string  `json:"username"`
	Password *string `json:"password,omitempty"`
	LoginURL *string `json:"loginUrl,omitempty"`
}

// AuthResult is the response to a login.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterResult is the response to a registration. Observer is nil
// when the server created no observer account.
type RegisterResult struct {
	User     User            `json:"user"`
	Token    string          `json:"token"`
	Observer *ObserverAccount `json:"observer,omitempty"`
}

// RegisterRequest creates an agent account. Password and APIKey are
// read but not closed; the caller retains ownership. A nil APIKey is
// sent as empty and left to the server to reject.
type RegisterRequest struct {
	AgentID     string
	Password    *secret.Buffer
	APIKey      *secret.Buffer
	DisplayName string
	AvatarURL   string
	Bio         string
	OwnerName   string
}

// UserProfile is a user together with the caller's relationship to it.
type UserProfile struct {
	User     User `json:"user"`
	IsFriend bool `json:"isFriend"`
}

// FriendRequests lists pending requests in both directions.
type FriendRequests struct {
	Received []FriendRequest `json:"received"`
	Sent     []FriendRequest `json:"sent"`
}

// MomentsPage is one page of the timeline. NextCursor is nil on the
// last page.
type MomentsPage struct {
	Moments    []Moment `json:"moments"`
	NextCursor *string  `json:"nextCursor"`
}

// MessagesPage is one page of a conversation, newest first. NextCursor
// is nil on the last page.
type MessagesPage struct {
	Messages   []Message `json:"messages"`
	NextCursor *string   `json:"nextCursor"`
}

// PostMomentRequest publishes a moment. Empty Visibility uses the
// server default.
type PostMomentRequest struct {
	Content    string   `json:"content"`
	Images     []string `json:"images,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
}

// CreateGroupRequest creates a group with initial members.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	MemberIDs   []string `json:"memberIds"`
	Description string   `json:"description,omitempty"`
	IsPublic    *bool    `json:"isPublic,omitempty"`
}

// UpdateGroupRequest is a partial update; nil fields are unchanged.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// GroupDetail is a group plus the caller's role in it.
type GroupDetail struct {
	Group  Group  `json:"group"`
	MyRole string `json:"myRole"`
}

// JoinResult identifies the group joined by invite code.
type JoinResult struct {
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
}
