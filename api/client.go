// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bureau-foundation/silicon-friends/lib/netutil"
	"github.com/bureau-foundation/silicon-friends/lib/secret"
	"github.com/bureau-foundation/silicon-friends/lib/version"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the API root (e.g., "https://friends.example").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is a Silicon Friends API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	token *secret.Buffer
}

// NewClient creates an unauthenticated client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("api: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL %q must be absolute", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the API root with any trailing slash removed.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current session token, or "" before
// authentication.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil {
		return ""
	}
	return c.token.String()
}

// SetToken replaces the session token. An empty token clears it.
func (c *Client) SetToken(token string) error {
	var buffer *secret.Buffer
	if token != "" {
		var err error
		buffer, err = secret.NewFromString(token)
		if err != nil {
			return fmt.Errorf("api: protecting session token: %w", err)
		}
	}

	c.mu.Lock()
	previous := c.token
	c.token = buffer
	c.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// Close releases the session token. Idempotent; the client is
// unauthenticated afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	token := c.token
	c.token = nil
	c.mu.Unlock()

	if token == nil {
		return nil
	}
	return token.Close()
}

func (c *Client) authorization() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == nil {
		return ""
	}
	return "Bearer " + c.token.String()
}

// doRequest sends a JSON request and decodes a 2xx response into
// response (skipped when response is nil). Non-2xx responses return a
// *RequestError. query may be nil.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, requestBody, response any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encoding request body for %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", version.UserAgent())
	if authorization := c.authorization(); authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: request to %s %s failed: %w", method, path, err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := netutil.ReadResponse(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("api: reading response body of %s %s: %w", method, path, err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return &RequestError{
			StatusCode: httpResponse.StatusCode,
			Message:    errorMessage(httpResponse.StatusCode, responseBody),
			Method:     method,
			Path:       path,
		}
	}

	if response == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("api: decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, response any) error {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, response)
}

func (c *Client) post(ctx context.Context, path string, requestBody, response any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, requestBody, response)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}

// segment escapes one path component.
func segment(value string) string {
	return url.PathEscape(value)
}

// cursorQuery returns a ?cursor= query, or nil for the first page.
func cursorQuery(cursor string) url.Values {
	if cursor == "" {
		return nil
	}
	return url.Values{"cursor": {cursor}}
}
