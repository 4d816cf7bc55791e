// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/lib/observer"
	"github.com/bureau-foundation/silicon-friends/lib/secret"
	"github.com/bureau-foundation/silicon-friends/realtime"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	alice = api.User{ID: "u-alice", AgentID: "alice", DisplayName: "Alice"}
	bob   = api.User{ID: "u-bob", AgentID: "bob", DisplayName: "Bob"}
	carol = api.User{ID: "u-carol", AgentID: "carol", DisplayName: "Carol"}
)

// fakeAPI records every call as "Method arg..." and serves the
// behavior its function fields provide. Methods it does not override
// panic through the nil embedded interface.
type fakeAPI struct {
	API

	mu    sync.Mutex
	calls []string
	token string

	login          func(agentID string) (*api.AuthResult, error)
	register       func(request api.RegisterRequest) (*api.RegisterResult, error)
	conversations  func() ([]api.Conversation, error)
	getOrCreate    func(userID string) (*api.Conversation, error)
	messages       func(conversationID, cursor string) (*api.MessagesPage, error)
	sendMessage    func(conversationID, content string, mentions []string) (*api.Message, error)
	registerSecret string
}

// newFakeAPI returns an API where alice can log in, bob's direct
// conversation is c-bob, and there are no existing conversations.
func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		login: func(agentID string) (*api.AuthResult, error) {
			if agentID != "alice" {
				return nil, &api.RequestError{StatusCode: 401, Message: "Invalid credentials"}
			}
			return &api.AuthResult{User: alice, Token: "token-alice"}, nil
		},
		register: func(request api.RegisterRequest) (*api.RegisterResult, error) {
			return nil, &api.RequestError{StatusCode: 403, Message: "Invalid API key"}
		},
		conversations: func() ([]api.Conversation, error) {
			return []api.Conversation{}, nil
		},
		getOrCreate: func(userID string) (*api.Conversation, error) {
			peer := api.User{ID: userID, AgentID: strings.TrimPrefix(userID, "u-")}
			return &api.Conversation{ID: "c-" + peer.AgentID, Type: api.ConversationDirect, OtherUser: &peer}, nil
		},
		messages: func(string, string) (*api.MessagesPage, error) {
			return &api.MessagesPage{}, nil
		},
		sendMessage: func(conversationID, content string, mentions []string) (*api.Message, error) {
			return &api.Message{ID: "m-sent", ConversationID: conversationID, Sender: alice, Content: content, Mentions: mentions, CreatedAt: epoch}, nil
		},
	}
}

func (f *fakeAPI) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls.
func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// count returns how many recorded calls start with prefix.
func (f *fakeAPI) count(prefix string) int {
	count := 0
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

func (f *fakeAPI) Login(_ context.Context, agentID string, password *secret.Buffer) (*api.AuthResult, error) {
	f.record("Login %s", agentID)
	result, err := f.login(agentID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.token = result.Token
	f.mu.Unlock()
	return result, nil
}

func (f *fakeAPI) Register(_ context.Context, request api.RegisterRequest) (*api.RegisterResult, error) {
	f.record("Register %s", request.AgentID)
	if request.APIKey != nil {
		f.mu.Lock()
		f.registerSecret = request.APIKey.String()
		f.mu.Unlock()
	}
	result, err := f.register(request)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.token = result.Token
	f.mu.Unlock()
	return result, nil
}

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Close() error {
	f.record("Close")
	return nil
}

func (f *fakeAPI) Conversations(context.Context) ([]api.Conversation, error) {
	f.record("Conversations")
	return f.conversations()
}

func (f *fakeAPI) GetOrCreateConversation(_ context.Context, userID string) (*api.Conversation, error) {
	f.record("GetOrCreateConversation %s", userID)
	return f.getOrCreate(userID)
}

func (f *fakeAPI) Messages(_ context.Context, conversationID, cursor string) (*api.MessagesPage, error) {
	f.record("Messages %s", conversationID)
	return f.messages(conversationID, cursor)
}

func (f *fakeAPI) SendMessage(_ context.Context, conversationID, content string, mentions []string) (*api.Message, error) {
	f.record("SendMessage %s %s", conversationID, content)
	return f.sendMessage(conversationID, content, mentions)
}

func (f *fakeAPI) PostMoment(_ context.Context, request api.PostMomentRequest) (*api.Moment, error) {
	f.record("PostMoment %s", request.Content)
	return &api.Moment{ID: "moment-1", Author: alice, Content: request.Content, CreatedAt: epoch}, nil
}

func (f *fakeAPI) Friends(context.Context) ([]api.User, error) {
	f.record("Friends")
	return []api.User{bob, carol}, nil
}

func (f *fakeAPI) LikeMoment(_ context.Context, momentID string) error {
	f.record("LikeMoment %s", momentID)
	return nil
}

func (f *fakeAPI) JoinGroupByCode(_ context.Context, inviteCode string) (*api.JoinResult, error) {
	f.record("JoinGroupByCode %s", inviteCode)
	return &api.JoinResult{GroupID: "g-1", GroupName: "Agents"}, nil
}

func (f *fakeAPI) AddGroupMembers(_ context.Context, groupID string, memberIDs []string) error {
	f.record("AddGroupMembers %s %s", groupID, strings.Join(memberIDs, ","))
	return errors.New("not a member")
}

type sentMessage struct {
	ConversationID string
	Content        string
	Mentions       []string
}

// fakeRealtime is a Realtime whose connection state is set by the
// test. Inbound events are injected through the registries.
type fakeRealtime struct {
	mu          sync.Mutex
	connected   bool
	connectErr  error
	tokens      []string
	disconnects int
	sent        []sentMessage
	signals     []string

	messages observer.Registry[realtime.MessagePayload]
	typing   observer.Registry[realtime.TypingEvent]
	online   observer.Registry[realtime.FriendEvent]
	offline  observer.Registry[realtime.FriendEvent]
}

func (f *fakeRealtime) Connect(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeRealtime) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.connected = false
}

func (f *fakeRealtime) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeRealtime) setConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = connected
}

func (f *fakeRealtime) SendMessage(conversationID, content string, mentions []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ConversationID: conversationID, Content: content, Mentions: mentions})
}

func (f *fakeRealtime) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeRealtime) MarkRead(conversationID string) {
	f.signal("read " + conversationID)
}

func (f *fakeRealtime) StartTyping(conversationID string) {
	f.signal("typing:start " + conversationID)
}

func (f *fakeRealtime) StopTyping(conversationID string) {
	f.signal("typing:stop " + conversationID)
}

func (f *fakeRealtime) signal(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, value)
}

func (f *fakeRealtime) OnMessage(handler func(realtime.MessagePayload)) func() {
	return f.messages.Subscribe(handler)
}

func (f *fakeRealtime) OnTyping(handler func(realtime.TypingEvent)) func() {
	return f.typing.Subscribe(handler)
}

func (f *fakeRealtime) OnFriendOnline(handler func(realtime.FriendEvent)) func() {
	return f.online.Subscribe(handler)
}

func (f *fakeRealtime) OnFriendOffline(handler func(realtime.FriendEvent)) func() {
	return f.offline.Subscribe(handler)
}

func testSecret(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// newTestSession builds a session for agentID over the fakes. modify
// may adjust the config before New.
func newTestSession(t *testing.T, agentID string, backend *fakeAPI, channel *fakeRealtime, modify func(*Config)) *Session {
	t.Helper()
	config := Config{
		API: backend,
		Credentials: Credentials{
			AgentID:  agentID,
			Password: testSecret(t, "hunter2"),
			APIKey:   testSecret(t, "sf-key"),
		},
	}
	if channel != nil {
		config.Realtime = channel
	}
	if modify != nil {
		modify(&config)
	}
	session, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(session.Stop)
	return session
}

// startTestSession is newTestSession followed by a successful Start.
func startTestSession(t *testing.T, backend *fakeAPI, channel *fakeRealtime, modify func(*Config)) *Session {
	t.Helper()
	session := newTestSession(t, "alice", backend, channel, modify)
	if _, err := session.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return session
}
