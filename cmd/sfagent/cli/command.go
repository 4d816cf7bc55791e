// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree. A node either dispatches to
// Subcommands or handles its arguments itself with Run.
type Command struct {
	// Name is what the user types to select the command.
	Name string

	// Summary is the one-line description in the parent's listing.
	Summary string

	// Description is the longer text at the top of the command's help.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per parse
	// and once per help rendering, so it must bind into variables that
	// outlive it.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(ctx context.Context, args []string) error

	// Output receives help text. Nil inherits from the parent, then
	// falls back to os.Stderr.
	Output io.Writer

	parent *Command
}

// Example is a usage example shown in help output.
type Example struct {
	Description string
	Command     string
}

// errHelpShown ends Execute successfully after help was printed.
var errHelpShown = errors.New("help shown")

// Execute resolves args against the tree and runs the selected command.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if sub, rest, err := c.dispatch(args); sub != nil || err != nil {
			if err != nil {
				return err
			}
			return sub.Execute(ctx, rest)
		}
	}

	positional, err := c.parseFlags(args)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Run(ctx, positional)
}

// dispatch selects the subcommand named by args[0]. It returns a nil
// command and nil error when c should handle args itself.
func (c *Command) dispatch(args []string) (*Command, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		if c.Run != nil {
			return nil, nil, nil
		}
		c.PrintHelp(c.output())
		if len(args) == 0 {
			return nil, nil, errors.New("subcommand required")
		}
		return nil, nil, fmt.Errorf("subcommand required (got flag %q)", args[0])
	}

	names := make([]string, 0, len(c.Subcommands))
	for _, sub := range c.Subcommands {
		if sub.Name == args[0] {
			sub.parent = c
			return sub, args[1:], nil
		}
		names = append(names, sub.Name)
	}
	if c.Run != nil {
		return nil, nil, nil
	}
	return nil, nil, c.usageError(fmt.Sprintf("unknown command %q", args[0]), quoted(closest(args[0], names)))
}

func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Run == nil {
		c.PrintHelp(c.output())
		return nil, fmt.Errorf("no action defined for %q", c.path())
	}
	if c.Flags == nil {
		return args, nil
	}

	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	err := flagSet.Parse(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		c.PrintHelp(c.output())
		return nil, errHelpShown
	case err != nil:
		return nil, c.usageError(err.Error(), suggestFlag(args, c.Flags()))
	}
	return flagSet.Args(), nil
}

func (c *Command) usageError(message, suggestion string) error {
	if suggestion != "" {
		message += " (did you mean " + suggestion + "?)"
	}
	return fmt.Errorf("%s\n\nRun '%s --help' for usage.", message, c.path())
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	switch {
	case c.Description != "":
		fmt.Fprintf(w, "%s\n\n", c.Description)
	case c.Summary != "":
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", c.usage())

	if len(c.Subcommands) > 0 {
		fmt.Fprintln(w, "\nCommands:")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); usages != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.path())
	}
}

func (c *Command) usage() string {
	switch {
	case c.Usage != "":
		return c.Usage
	case len(c.Subcommands) > 0:
		return c.path() + " <command> [flags]"
	default:
		return c.path() + " [flags]"
	}
}

func (c *Command) output() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Output != nil {
			return command.Output
		}
	}
	return os.Stderr
}

// path is the command's full invocation, e.g. "sfagent send".
func (c *Command) path() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.path() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}

func quoted(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%q", name)
}
