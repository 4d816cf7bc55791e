// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog records session events as a CBOR sequence.
//
// Each [Record] carries a kind (for example "inbound" or "ready"), the
// time it was observed, and the event itself encoded as nested CBOR.
// The file extension selects compression: ".zst" streams through
// zstd, ".lz4" through the lz4 frame format, anything else is stored
// uncompressed. [Read] reverses the same choice, so a recording can be
// replayed without knowing how it was written.
package eventlog
