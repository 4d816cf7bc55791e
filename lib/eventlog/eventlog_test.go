// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/silicon-friends/lib/clock"
)

type inboundFixture struct {
	ConversationID string `cbor:"conversation_id"`
	Text           string `cbor:"text"`
}

func TestCompressionForPath(t *testing.T) {
	tests := map[string]Compression{
		"session.cbor":     CompressionNone,
		"session.cbor.zst": CompressionZstd,
		"session.lz4":      CompressionLZ4,
		"session":          CompressionNone,
	}
	for path, want := range tests {
		if got := CompressionForPath(path); got != want {
			t.Errorf("CompressionForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRoundTripPerCompression(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			fake := clock.Fake(start)
			var buffer bytes.Buffer

			writer, err := NewWriter(&buffer, compression, fake)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			if err := writer.Append("inbound", inboundFixture{ConversationID: "c1", Text: "hi"}); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
			fake.Advance(time.Second)
			if err := writer.Append("presence", map[string]any{"agent_id": "bob", "online": true}); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			records, err := Read(bytes.NewReader(buffer.Bytes()), compression)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("got %d records, want 2", len(records))
			}
			if records[0].Kind != "inbound" || records[1].Kind != "presence" {
				t.Errorf("kinds = %q, %q", records[0].Kind, records[1].Kind)
			}
			if !records[1].ReceivedAt.Equal(start.Add(time.Second)) {
				t.Errorf("second ReceivedAt = %v, want %v", records[1].ReceivedAt, start.Add(time.Second))
			}

			var inbound inboundFixture
			if err := records[0].Decode(&inbound); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if inbound.ConversationID != "c1" || inbound.Text != "hi" {
				t.Errorf("decoded %+v", inbound)
			}
		})
	}
}

func TestCreateAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.cbor.zst")

	writer, err := Create(path, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for index := range 5 {
		if err := writer.Append("inbound", inboundFixture{ConversationID: "c", Text: string(rune('a' + index))}); err != nil {
			t.Fatalf("Append %d failed: %v", index, err)
		}
	}
	if writer.Count() != 5 {
		t.Errorf("Count() = %d, want 5", writer.Count())
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Append("late", nil); err == nil {
		t.Error("expected error appending after Close")
	}

	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
}

func TestReadTruncated(t *testing.T) {
	var buffer bytes.Buffer
	writer, err := NewWriter(&buffer, CompressionNone, nil)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	writer.Append("inbound", inboundFixture{ConversationID: "c1", Text: "first"})
	writer.Append("inbound", inboundFixture{ConversationID: "c1", Text: "second"})
	writer.Close()

	data := buffer.Bytes()
	records, err := Read(bytes.NewReader(data[:len(data)-3]), CompressionNone)
	if err == nil {
		t.Fatal("expected error reading truncated recording")
	}
	if len(records) != 1 {
		t.Errorf("got %d records before truncation, want 1", len(records))
	}
}
