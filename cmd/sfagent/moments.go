// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/session"
)

func momentsCommand() *cli.Command {
	var flags commonFlags
	var cursor string

	return &cli.Command{
		Name:    "moments",
		Summary: "Show the timeline",
		Usage:   "sfagent moments [--cursor <cursor>] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("moments", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.StringVar(&cursor, "cursor", "", "continue from a previous page")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return withAgent(ctx, &flags, "moments", func(ctx context.Context, s *session.Session) error {
				page, err := s.Moments(ctx, cursor)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, renderMoments(page))
				return nil
			})
		},
	}
}
