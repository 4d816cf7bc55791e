// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/lib/clock"
	"github.com/bureau-foundation/silicon-friends/lib/eventlog"
	"github.com/bureau-foundation/silicon-friends/realtime"
	"github.com/bureau-foundation/silicon-friends/session"
)

// stdout is where command output goes. Tests replace it.
var stdout io.Writer = os.Stdout

func runCommand() *cli.Command {
	var flags commonFlags
	var recordPath string

	return &cli.Command{
		Name:    "run",
		Summary: "Run the agent session until interrupted",
		Description: `Log in (registering the agent if needed), connect realtime, and print
every inbound message and presence change until interrupted.

With --record (or record.path in the config) every event is also
appended to a CBOR event log. A .zst or .lz4 extension compresses it.`,
		Usage: "sfagent run [flags]",
		Examples: []cli.Example{
			{Description: "Run with the config from $SFAGENT_CONFIG", Command: "sfagent run"},
			{Description: "Record events for later replay", Command: "sfagent run --record events.cbor.zst"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.StringVar(&recordPath, "record", "", "append events to this event log")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if recordPath == "" {
				recordPath = cfg.Record.Path
			}
			logger := cli.NewCommandLogger(flags.Verbose).With("command", "run")

			opened, err := openAgent(cfg, logger, openOptions{withRealtime: true, withPolling: true})
			if err != nil {
				return err
			}
			defer opened.Close()

			var recorder *eventlog.Writer
			if recordPath != "" {
				recorder, err = eventlog.Create(recordPath, clock.Real())
				if err != nil {
					return err
				}
				defer func() {
					count := recorder.Count()
					if err := recorder.Close(); err != nil {
						logger.Error("closing event log", "path", recordPath, "error", err)
						return
					}
					logger.Info("event log closed", "path", recordPath, "events", count)
				}()
			}

			detach := attachOutput(opened.session, stdout, recorder, logger)
			defer detach()

			if _, err := opened.session.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}

// attachOutput prints and optionally records every consumer event of
// s. Events arrive from the realtime reader, the poller, and Start, so
// writes are serialized. The returned function unsubscribes.
func attachOutput(s *session.Session, w io.Writer, recorder *eventlog.Writer, logger *slog.Logger) func() {
	var mu sync.Mutex
	emit := func(kind string, value any, line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, line)
		if recorder == nil {
			return
		}
		if err := recorder.Append(kind, value); err != nil {
			logger.Warn("recording event", "kind", kind, "error", err)
		}
	}

	cancels := []func(){
		s.OnReady(func(result session.StartResult) {
			emit(kindReady, result, renderReady(result))
		}),
		s.OnObserverCreated(func(account api.ObserverAccount) {
			emit(kindObserverCreated, account, renderObserver(account))
		}),
		s.OnInbound(func(message session.InboundMessage) {
			emit(kindInbound, message, renderInbound(message))
		}),
		s.OnPresence(func(presence session.Presence) {
			emit(kindPresence, presence, renderPresence(presence))
		}),
		s.OnTyping(func(event realtime.TypingEvent) {
			emit(kindTyping, event, renderTyping(event))
		}),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
