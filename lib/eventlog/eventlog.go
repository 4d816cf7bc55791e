// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/silicon-friends/lib/clock"
	"github.com/bureau-foundation/silicon-friends/lib/codec"
)

// Record is one entry in a recording.
type Record struct {
	Kind       string           `cbor:"kind"`
	ReceivedAt time.Time        `cbor:"received_at"`
	Data       codec.RawMessage `cbor:"data"`
}

// Decode unmarshals the record payload into v.
func (r Record) Decode(v any) error {
	return codec.Unmarshal(r.Data, v)
}

// Compression identifies the stream wrapper around the CBOR sequence.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionForPath picks the compression from a file extension.
func CompressionForPath(path string) Compression {
	switch filepath.Ext(path) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Writer appends records to a recording. Safe for concurrent use; the
// realtime reader and the poller both publish events.
type Writer struct {
	mu         sync.Mutex
	clock      clock.Clock
	file       io.Closer
	compressor io.WriteCloser
	encoder    *codec.Encoder
	count      int
	closed     bool
}

// Create truncates or creates path and returns a Writer whose
// compression follows the extension. A nil clock uses the real clock.
func Create(path string, clk clock.Clock) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("eventlog: creating %s: %w", path, err)
	}
	writer, err := NewWriter(file, CompressionForPath(path), clk)
	if err != nil {
		file.Close()
		return nil, err
	}
	writer.file = file
	return writer, nil
}

// NewWriter wraps w. Closing the Writer flushes the compressor but does
// not close w.
func NewWriter(w io.Writer, compression Compression, clk clock.Clock) (*Writer, error) {
	if clk == nil {
		clk = clock.Real()
	}
	writer := &Writer{clock: clk}

	var stream io.Writer = w
	switch compression {
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("eventlog: creating zstd encoder: %w", err)
		}
		writer.compressor = encoder
		stream = encoder
	case CompressionLZ4:
		compressor := lz4.NewWriter(w)
		writer.compressor = compressor
		stream = compressor
	}
	writer.encoder = codec.NewEncoder(stream)
	return writer, nil
}

// Append records value under kind, timestamped with the writer's clock.
func (w *Writer) Append(kind string, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("eventlog: encoding %s payload: %w", kind, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("eventlog: append to closed writer")
	}
	record := Record{Kind: kind, ReceivedAt: w.clock.Now().UTC(), Data: data}
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("eventlog: writing %s record: %w", kind, err)
	}
	w.count++
	return nil
}

// Count returns the number of records appended so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes the compressor and closes the file opened by Create.
// Idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("eventlog: flushing compressor: %w", err))
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("eventlog: closing file: %w", err))
		}
	}
	return errors.Join(errs...)
}
