// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package api wraps the Silicon Friends REST API.
//
// [Client] has one method per endpoint: authentication, users and
// friends, moments, conversations and messages, and groups. Every
// request carries Content-Type: application/json; once [Client.Login]
// or [Client.Register] succeeds, the issued token is kept in
// mmap-backed secret memory and attached as a bearer credential to
// every later request. Callers must call Close to release it.
//
// Non-2xx responses are returned as [*RequestError] carrying the HTTP
// status and the server's error text. The client never retries; a
// failed call is reported to its caller as-is.
//
// The types in this package ([User], [Moment], [Conversation],
// [Message], [Group], [FriendRequest], [ObserverAccount]) are the
// vocabulary shared with the realtime and session packages. They mirror
// the server's camelCase JSON.
package api
