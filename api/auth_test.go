// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestLogin(t *testing.T) {
	t.Run("stores token", func(t *testing.T) {
		client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/api/auth/login":
				if request.Method != http.MethodPost {
					t.Errorf("login method = %s, want POST", request.Method)
				}
				var body map[string]string
				if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
					t.Fatalf("decoding login body: %v", err)
				}
				if body["agentId"] != "alice" || body["password"] != "pw" {
					t.Errorf("login body = %v", body)
				}
				writeJSON(writer, http.StatusOK, AuthResult{
					User:  User{ID: "u-alice", AgentID: "alice", DisplayName: "Alice"},
					Token: "tok-alice",
				})
			case "/api/auth/me":
				if got := request.Header.Get("Authorization"); got != "Bearer tok-alice" {
					t.Errorf("Authorization = %q after login", got)
				}
				writeJSON(writer, http.StatusOK, map[string]any{"user": User{ID: "u-alice", AgentID: "alice"}})
			default:
				t.Errorf("unexpected path: %s", request.URL.Path)
				writer.WriteHeader(http.StatusNotFound)
			}
		})

		result, err := client.Login(context.Background(), "alice", testBuffer(t, "pw"))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.User.AgentID != "alice" {
			t.Errorf("AgentID = %q, want alice", result.User.AgentID)
		}
		if client.Token() != "tok-alice" {
			t.Errorf("Token() = %q, want tok-alice", client.Token())
		}

		me, err := client.Me(context.Background())
		if err != nil {
			t.Fatalf("Me failed: %v", err)
		}
		if me.ID != "u-alice" {
			t.Errorf("Me().ID = %q", me.ID)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
			writeJSON(writer, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		})

		_, err := client.Login(context.Background(), "alice", testBuffer(t, "wrong"))
		if !IsStatus(err, http.StatusUnauthorized) {
			t.Fatalf("Login error = %v, want 401 RequestError", err)
		}
		if client.Token() != "" {
			t.Errorf("Token() = %q after failed login, want empty", client.Token())
		}
	})

	t.Run("argument validation", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "http://localhost"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := client.Login(context.Background(), "", testBuffer(t, "pw")); err == nil {
			t.Error("expected error for empty agent ID")
		}
		if _, err := client.Login(context.Background(), "alice", nil); err == nil {
			t.Error("expected error for nil password")
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/api/auth/register" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			var body map[string]any
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding register body: %v", err)
			}
			want := map[string]any{
				"agentId":     "carol",
				"password":    "pw",
				"apiKey":      "key-1",
				"displayName": "Carol",
				"bio":         "helpful",
				"ownerName":   "Dana",
			}
			for key, value := range want {
				if body[key] != value {
					t.Errorf("body[%q] = %v, want %v", key, body[key], value)
				}
			}
			if _, present := body["avatarUrl"]; present {
				t.Error("avatarUrl should be omitted when empty")
			}
			loginURL := "https://friends.example/observe"
			writeJSON(writer, http.StatusOK, RegisterResult{
				User:     User{ID: "u-carol", AgentID: "carol"},
				Token:    "tok-carol",
				Observer: &ObserverAccount{Username: "carol-observer", LoginURL: &loginURL},
			})
		})

		result, err := client.Register(context.Background(), RegisterRequest{
			AgentID:     "carol",
			Password:    testBuffer(t, "pw"),
			APIKey:      testBuffer(t, "key-1"),
			DisplayName: "Carol",
			Bio:         "helpful",
			OwnerName:   "Dana",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.Observer == nil || result.Observer.Username != "carol-observer" {
			t.Errorf("Observer = %+v, want carol-observer", result.Observer)
		}
		if client.Token() != "tok-carol" {
			t.Errorf("Token() = %q, want tok-carol", client.Token())
		}
	})

	t.Run("display name defaults to agent ID", func(t *testing.T) {
		client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
			var body map[string]any
			json.NewDecoder(request.Body).Decode(&body)
			if body["displayName"] != "erin" {
				t.Errorf("displayName = %v, want erin", body["displayName"])
			}
			if body["apiKey"] != "" {
				t.Errorf("apiKey = %v, want empty string for nil key", body["apiKey"])
			}
			writeJSON(writer, http.StatusForbidden, map[string]string{"error": "Invalid API key"})
		})

		_, err := client.Register(context.Background(), RegisterRequest{
			AgentID:  "erin",
			Password: testBuffer(t, "pw"),
		})
		if !IsStatus(err, http.StatusForbidden) {
			t.Fatalf("Register error = %v, want 403", err)
		}
	})
}
