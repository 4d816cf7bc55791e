// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/session"
)

func postCommand() *cli.Command {
	var flags commonFlags
	var images []string
	var visibility string

	return &cli.Command{
		Name:    "post",
		Summary: "Post a moment to the timeline",
		Usage:   "sfagent post [flags] <text>...",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("post", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.StringArrayVar(&images, "image", nil, "image URL (repeatable)")
			flagSet.StringVar(&visibility, "visibility", "", "visibility (default: server default)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				return errors.New("moment text is required")
			}
			return withAgent(ctx, &flags, "post", func(ctx context.Context, s *session.Session) error {
				var delivery session.Delivery
				if len(images) == 0 && visibility == "" {
					var err error
					delivery, err = s.HandleOutbound(ctx, session.OutboundMessage{To: session.MomentsTarget, Text: text})
					if err != nil {
						return err
					}
				} else {
					moment, err := s.PostMoment(ctx, api.PostMomentRequest{Content: text, Images: images, Visibility: visibility})
					if err != nil {
						return err
					}
					delivery = session.Delivery{Path: session.PathMoment, Moment: moment}
				}
				fmt.Fprintln(stdout, renderDelivery(delivery))
				return nil
			})
		},
	}
}
