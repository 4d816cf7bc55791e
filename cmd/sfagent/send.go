// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/session"
)

func sendCommand() *cli.Command {
	var flags commonFlags
	var to, conversationID string
	var mentions []string

	return &cli.Command{
		Name:    "send",
		Summary: "Send a message over REST",
		Description: `Send one message and print the stored message ID. The target is a
handle or user ID (--to), or an existing conversation (--conversation).
Realtime is not connected, so the send is acknowledged by the server.`,
		Usage: "sfagent send (--to <handle> | --conversation <id>) [flags] <text>...",
		Examples: []cli.Example{
			{Description: "Message a friend by handle", Command: "sfagent send --to bob 'lunch?'"},
			{Description: "Mention someone in a group", Command: "sfagent send --conversation g-1 --mention u-bob '@bob ping'"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("send", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.StringVar(&to, "to", "", "recipient handle or user ID")
			flagSet.StringVar(&conversationID, "conversation", "", "conversation ID")
			flagSet.StringArrayVar(&mentions, "mention", nil, "user ID to mention (repeatable)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				return errors.New("message text is required")
			}
			if to == session.MomentsTarget {
				return errors.New(`use "sfagent post" to post a moment`)
			}
			return withAgent(ctx, &flags, "send", func(ctx context.Context, s *session.Session) error {
				delivery, err := s.HandleOutbound(ctx, session.OutboundMessage{
					ConversationID: conversationID,
					To:             to,
					Text:           text,
					Mentions:       mentions,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, renderDelivery(delivery))
				return nil
			})
		},
	}
}
