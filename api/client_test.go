// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bureau-foundation/silicon-friends/lib/secret"
)

// testBuffer creates a secret.Buffer from a string for testing. The
// buffer is closed when the test completes.
func testBuffer(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

// writeJSON writes value as a JSON response with the given status.
func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

// newTestClient returns a client pointed at handler, authenticated with
// token when it is non-empty.
func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	if token != "" {
		if err := client.SetToken(token); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "https://friends.example/"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.BaseURL() != "https://friends.example" {
			t.Errorf("BaseURL() = %q, want trailing slash stripped", client.BaseURL())
		}
		if client.Token() != "" {
			t.Errorf("Token() = %q before login, want empty", client.Token())
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "://invalid"}); err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})

	t.Run("relative URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "/api"}); err == nil {
			t.Fatal("expected error for relative URL")
		}
	})
}

func TestRequestHeaders(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
			if got := request.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", got)
			}
			if got := request.Header.Get("Authorization"); got != "" {
				t.Errorf("Authorization = %q, want none before login", got)
			}
			writeJSON(writer, http.StatusOK, map[string]any{"friends": []User{}})
		})
		if _, err := client.Friends(context.Background()); err != nil {
			t.Fatalf("Friends failed: %v", err)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		client := newTestClient(t, "tok-1", func(writer http.ResponseWriter, request *http.Request) {
			if got := request.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q, want Bearer tok-1", got)
			}
			if got := request.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q, want application/json on a GET too", got)
			}
			writeJSON(writer, http.StatusOK, map[string]any{"friends": []User{}})
		})
		if _, err := client.Friends(context.Background()); err != nil {
			t.Fatalf("Friends failed: %v", err)
		}
	})
}

func TestRequestError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"error field", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"json without error", http.StatusInternalServerError, `{"detail":"boom"}`, "HTTP 500"},
		{"empty error field", http.StatusBadRequest, `{"error":""}`, "HTTP 400"},
		{"json array", http.StatusConflict, `[1,2]`, "HTTP 409"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed"},
		{"empty body", http.StatusServiceUnavailable, ``, "Request failed"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, "", func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(test.status)
				writer.Write([]byte(test.body))
			})

			_, err := client.Conversations(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			var requestErr *RequestError
			if !errors.As(err, &requestErr) {
				t.Fatalf("error %v is not a *RequestError", err)
			}
			if requestErr.StatusCode != test.status {
				t.Errorf("StatusCode = %d, want %d", requestErr.StatusCode, test.status)
			}
			if requestErr.Message != test.wantMessage {
				t.Errorf("Message = %q, want %q", requestErr.Message, test.wantMessage)
			}
			if requestErr.Method != http.MethodGet || requestErr.Path != "/api/conversations" {
				t.Errorf("request = %s %s", requestErr.Method, requestErr.Path)
			}
			if !IsStatus(err, test.status) {
				t.Errorf("IsStatus(err, %d) = false", test.status)
			}
		})
	}
}

func TestNoRetry(t *testing.T) {
	calls := 0
	client := newTestClient(t, "tok", func(writer http.ResponseWriter, request *http.Request) {
		calls++
		writeJSON(writer, http.StatusServiceUnavailable, map[string]string{"error": "down"})
	})

	if _, err := client.SendMessage(context.Background(), "c1", "hello", nil); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want exactly 1", calls)
	}
}

func TestTokenLifecycle(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if err := client.SetToken("first"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := client.SetToken("second"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if client.Token() != "second" {
		t.Errorf("Token() = %q, want second", client.Token())
	}
	if err := client.SetToken(""); err != nil {
		t.Fatalf("SetToken(\"\") failed: %v", err)
	}
	if client.Token() != "" {
		t.Errorf("Token() = %q after clearing, want empty", client.Token())
	}

	client.SetToken("third")
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if client.Token() != "" {
		t.Errorf("Token() = %q after Close, want empty", client.Token())
	}
}
