// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/lib/eventlog"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:    "replay",
		Summary: "Print a recorded event log",
		Description: `Decode an event log written by "sfagent run --record" and print each
event. A log cut short by a crash prints every complete event and then
reports the truncation.`,
		Usage: "sfagent replay <path>",
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one event log path is required")
			}
			records, readErr := eventlog.ReadFile(args[0])
			for _, record := range records {
				line, err := renderRecord(record)
				if err != nil {
					return fmt.Errorf("decoding %s event: %w", record.Kind, err)
				}
				fmt.Fprintln(stdout, line)
			}
			return readErr
		},
	}
}
