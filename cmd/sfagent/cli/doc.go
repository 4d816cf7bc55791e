// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for sfagent: a tree of
// [Command] values dispatched by name, with pflag flag sets, generated
// help, and typo suggestions for unknown commands and flags.
//
// It also holds the pieces every subcommand shares: the structured
// logger ([NewCommandLogger]), the password prompt ([ReadPassword]),
// and [ExitError] for commands that report their own failure.
package cli
