// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the CBOR configuration used for event recordings.
//
// Encoding is Core Deterministic (RFC 8949 §4.2) so the same record
// always produces the same bytes. Decoding into an any-typed target
// yields map[string]any, which keeps decoded payloads interchangeable
// with encoding/json values.
package codec
