// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// RequestError is a non-2xx response from the API. Callers can use
// errors.As to inspect it:
//
//	var requestErr *api.RequestError
//	if errors.As(err, &requestErr) && requestErr.StatusCode == http.StatusUnauthorized { ... }
type RequestError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the server's "error" field, "HTTP <status>" when the
	// body is JSON without one, or "Request failed" when the body is
	// not JSON.
	Message string
	// Method and Path identify the failed request.
	Method string
	Path   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api: %s %s (%d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsStatus reports whether err is a *RequestError with the given
// status code.
func IsStatus(err error, statusCode int) bool {
	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return requestErr.StatusCode == statusCode
	}
	return false
}

// errorMessage extracts the human-readable reason from an error body.
func errorMessage(statusCode int, body []byte) string {
	if !json.Valid(body) {
		return "Request failed"
	}
	var parsed struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if message, ok := parsed.Error.(string); ok && message != "" {
			return message
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
