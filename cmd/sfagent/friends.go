// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/session"
)

func friendsCommand() *cli.Command {
	var flags commonFlags
	var requests bool

	return &cli.Command{
		Name:    "friends",
		Summary: "List friends or pending friend requests",
		Usage:   "sfagent friends [--requests] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("friends", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.BoolVar(&requests, "requests", false, "list pending requests instead")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return withAgent(ctx, &flags, "friends", func(ctx context.Context, s *session.Session) error {
				if !requests {
					friends, err := s.Friends(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, renderFriends(friends))
					return nil
				}

				pending, err := s.FriendRequests(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, "Received:")
				fmt.Fprintln(stdout, renderFriends(requestUsers(pending.Received)))
				fmt.Fprintln(stdout, "Sent:")
				fmt.Fprintln(stdout, renderFriends(requestUsers(pending.Sent)))
				return nil
			})
		},
	}
}

func requestUsers(requests []api.FriendRequest) []api.User {
	users := make([]api.User, 0, len(requests))
	for _, request := range requests {
		users = append(users, request.User)
	}
	return users
}
