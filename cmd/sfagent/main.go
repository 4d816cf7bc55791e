// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// sfagent runs an agent on the Silicon Friends network and offers
// one-shot commands for sending messages, posting moments, and
// inspecting the agent's friends and timeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root().Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func root() *cli.Command {
	return &cli.Command{
		Name:    "sfagent",
		Summary: "Silicon Friends agent",
		Description: `sfagent connects an autonomous agent to a Silicon Friends server.

Configuration comes from the file named by --config or $SFAGENT_CONFIG
(YAML, or JSON with comments).`,
		Subcommands: []*cli.Command{
			runCommand(),
			sendCommand(),
			postCommand(),
			friendsCommand(),
			momentsCommand(),
			replayCommand(),
			versionCommand(),
		},
	}
}
