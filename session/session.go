// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/lib/clock"
	"github.com/bureau-foundation/silicon-friends/lib/observer"
	"github.com/bureau-foundation/silicon-friends/realtime"
)

// Session is one authenticated agent identity. Create with New, then
// call Start.
type Session struct {
	api          API
	realtime     Realtime
	credentials  Credentials
	profile      Profile
	autoRegister bool
	features     Features
	polling      Polling
	clock        clock.Clock
	logger       *slog.Logger

	// mu guards everything below. It is held for single map or field
	// updates only, never across a network call or a publish.
	mu    sync.Mutex
	state State
	user  *api.User

	conversations        map[string]api.Conversation
	userIDByAgentID      map[string]string
	conversationByUserID map[string]string

	// watermarks is the newest message time seen per conversation.
	// The poller only surfaces messages after it.
	watermarks map[string]time.Time

	unsubscribe []func()
	poller      *poller

	readySignal     observer.Registry[StartResult]
	observerCreated observer.Registry[api.ObserverAccount]
	inbound         observer.Registry[InboundMessage]
	presence        observer.Registry[Presence]
	typing          observer.Registry[realtime.TypingEvent]
}

// New creates an Idle session. API and Credentials.AgentID are
// required.
func New(config Config) (*Session, error) {
	if config.API == nil {
		return nil, errors.New("session: API is required")
	}
	if config.Credentials.AgentID == "" {
		return nil, errors.New("session: Credentials.AgentID is required")
	}

	features := AllFeatures()
	if config.Features != nil {
		features = config.Features
	}
	polling := config.Polling
	if polling.Enabled && polling.Interval <= 0 {
		polling.Interval = DefaultPollingInterval
	}
	sessionClock := config.Clock
	if sessionClock == nil {
		sessionClock = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		api:                  config.API,
		realtime:             config.Realtime,
		credentials:          config.Credentials,
		profile:              config.Profile,
		autoRegister:         !config.DisableAutoRegister,
		features:             *features,
		polling:              polling,
		clock:                sessionClock,
		logger:               logger.With("agent_id", config.Credentials.AgentID),
		conversations:        make(map[string]api.Conversation),
		userIDByAgentID:      make(map[string]string),
		conversationByUserID: make(map[string]string),
		watermarks:           make(map[string]time.Time),
	}, nil
}

// Start authenticates and brings the session to Ready. Only an Idle
// session can be started; any other state returns ErrInvalidState.
//
// Authentication failure returns an *AuthError and leaves the session
// Idle with no identity. Failures loading conversations or connecting
// realtime are logged and do not fail Start.
func (s *Session) Start(ctx context.Context) (StartResult, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		s.logger.Warn("start on a session that is not idle", "state", state)
		return StartResult{}, ErrInvalidState
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	result, err := s.authenticate(ctx)
	if err != nil {
		s.mu.Lock()
		if s.state == StateAuthenticating {
			s.state = StateIdle
		}
		s.mu.Unlock()
		return StartResult{}, err
	}

	s.mu.Lock()
	user := result.User
	s.user = &user
	s.mu.Unlock()

	if result.Observer != nil {
		s.observerCreated.Publish(*result.Observer)
	}

	s.loadConversations(ctx)

	if s.realtime != nil && s.features.wantsRealtime() {
		s.bindRealtime(ctx)
	}
	if s.polling.Enabled {
		s.startPoller()
	}

	s.mu.Lock()
	if s.state != StateAuthenticating {
		// Stopped while starting up. Release what startup acquired
		// after Stop ran.
		s.mu.Unlock()
		s.teardown()
		return StartResult{}, ErrInvalidState
	}
	s.state = StateReady
	s.mu.Unlock()

	s.logger.Info("session ready",
		"user_id", result.User.ID,
		"registered", result.Observer != nil,
		"realtime", s.IsConnected(),
	)
	s.readySignal.Publish(result)
	return result, nil
}

func (s *Session) authenticate(ctx context.Context) (StartResult, error) {
	auth, loginErr := s.api.Login(ctx, s.credentials.AgentID, s.credentials.Password)
	if loginErr == nil {
		return StartResult{User: auth.User}, nil
	}
	if !s.autoRegister {
		s.logger.Error("login failed", "error", loginErr)
		return StartResult{}, &AuthError{Login: loginErr}
	}

	s.logger.Info("login failed, registering", "error", loginErr)
	registered, registerErr := s.api.Register(ctx, api.RegisterRequest{
		AgentID:     s.credentials.AgentID,
		Password:    s.credentials.Password,
		APIKey:      s.credentials.APIKey,
		DisplayName: s.profile.DisplayName,
		AvatarURL:   s.profile.AvatarURL,
		Bio:         s.profile.Bio,
		OwnerName:   s.profile.OwnerName,
	})
	if registerErr != nil {
		s.logger.Error("registration failed", "error", registerErr)
		return StartResult{}, &AuthError{Login: loginErr, Register: registerErr}
	}

	return StartResult{User: registered.User, Observer: registered.Observer}, nil
}

func (s *Session) loadConversations(ctx context.Context) {
	conversations, err := s.api.Conversations(ctx)
	if err != nil {
		s.logger.Warn("loading conversations failed, continuing with none", "error", err)
		return
	}

	s.mu.Lock()
	for _, conversation := range conversations {
		s.learnConversationLocked(conversation)
		if conversation.LastMessageAt != nil {
			s.advanceWatermarkLocked(conversation.ID, *conversation.LastMessageAt)
		}
	}
	s.mu.Unlock()
	s.logger.Debug("conversations loaded", "count", len(conversations))
}

// bindRealtime subscribes before connecting so no event that arrives
// right after the handshake is missed.
func (s *Session) bindRealtime(ctx context.Context) {
	token := s.api.Token()
	if token == "" {
		s.logger.Warn("no session token, realtime not started")
		return
	}

	cancels := []func(){
		s.realtime.OnMessage(s.handleMessage),
		s.realtime.OnTyping(s.handleTyping),
		s.realtime.OnFriendOnline(func(event realtime.FriendEvent) { s.handlePresence(event, true) }),
		s.realtime.OnFriendOffline(func(event realtime.FriendEvent) { s.handlePresence(event, false) }),
	}
	s.mu.Lock()
	s.unsubscribe = append(s.unsubscribe, cancels...)
	s.mu.Unlock()

	if err := s.realtime.Connect(ctx, token); err != nil {
		s.logger.Warn("realtime unavailable, sends will use REST", "error", err)
		return
	}
	s.logger.Info("realtime connected")
}

// learnConversationLocked records a conversation and, for a direct
// conversation, its peer's handle and user ID.
func (s *Session) learnConversationLocked(conversation api.Conversation) {
	s.conversations[conversation.ID] = conversation
	if conversation.Type == api.ConversationGroup || conversation.OtherUser == nil {
		return
	}
	peer := conversation.OtherUser
	s.conversationByUserID[peer.ID] = conversation.ID
	if peer.AgentID != "" {
		s.userIDByAgentID[peer.AgentID] = peer.ID
	}
}

func (s *Session) learnUserLocked(userID, agentID string) {
	if userID == "" || agentID == "" {
		return
	}
	s.userIDByAgentID[agentID] = userID
}

func (s *Session) advanceWatermarkLocked(conversationID string, at time.Time) {
	if at.After(s.watermarks[conversationID]) {
		s.watermarks[conversationID] = at
	}
}

// Stop unsubscribes from realtime, stops the poller, and disconnects
// the realtime channel. The API token is kept, so facade calls keep
// working. Stop is idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	s.mu.Unlock()

	s.teardown()
	s.logger.Info("session stopped")
}

// Close stops the session, waits for the poll loop to exit, and
// releases the API client's secrets. It must not be called from an
// OnInbound callback, which may be running on the poll loop.
func (s *Session) Close() error {
	s.Stop()

	s.mu.Lock()
	running := s.poller
	s.mu.Unlock()
	if running != nil {
		running.wait()
	}
	return s.api.Close()
}

func (s *Session) teardown() {
	s.mu.Lock()
	cancels := s.unsubscribe
	s.unsubscribe = nil
	running := s.poller
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if running != nil {
		running.stop()
	}
	if s.realtime != nil {
		s.realtime.Disconnect()
	}
}

// OnReady subscribes to the ready signal, published once by a
// successful Start.
func (s *Session) OnReady(handler func(StartResult)) (cancel func()) {
	return s.readySignal.Subscribe(handler)
}

// OnObserverCreated subscribes to the observer account issued when
// Start registers the agent. It is published before ready.
func (s *Session) OnObserverCreated(handler func(api.ObserverAccount)) (cancel func()) {
	return s.observerCreated.Subscribe(handler)
}

// OnInbound subscribes to messages from other participants.
func (s *Session) OnInbound(handler func(InboundMessage)) (cancel func()) {
	return s.inbound.Subscribe(handler)
}

// OnPresence subscribes to friends coming online and going offline.
func (s *Session) OnPresence(handler func(Presence)) (cancel func()) {
	return s.presence.Subscribe(handler)
}

// OnTyping subscribes to typing notifications.
func (s *Session) OnTyping(handler func(realtime.TypingEvent)) (cancel func()) {
	return s.typing.Subscribe(handler)
}
