// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/silicon-friends/lib/codec"
)

// ReadFile decodes every record in the recording at path.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: opening %s: %w", path, err)
	}
	defer file.Close()
	return Read(file, CompressionForPath(path))
}

// Read decodes records from r until end of stream. A truncated final
// record (a recording cut short by a crash) is reported as an error
// along with the records decoded before it.
func Read(r io.Reader, compression Compression) ([]Record, error) {
	stream := r
	switch compression {
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("eventlog: creating zstd decoder: %w", err)
		}
		defer decoder.Close()
		stream = decoder
	case CompressionLZ4:
		stream = lz4.NewReader(r)
	}

	decoder := codec.NewDecoder(stream)
	var records []Record
	for {
		var record Record
		err := decoder.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("eventlog: decoding record %d: %w", len(records), err)
		}
		records = append(records, record)
	}
}
