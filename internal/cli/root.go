// Package cli implements the hydronet command-line interface.
//
// This package provides commands for loading barrier databases into
// normalized records, summarizing the assembled drainage network, and
// running trace and aggregate queries against it. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - load: Read a SQLite barrier database and write a JSON record file
//   - summary: Print tier counts, totals and integrity warnings
//   - trace: List the entities upstream or downstream of one entity
//   - measure: Sum stream length or catchment area over a tier
//   - browse: Pick a tributary interactively and inspect it
//   - cache: Manage the record cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise
// the level comes from the [log] section of the --config file.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the hydronet CLI with args and returns an error if the
// command fails.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exactInput is the argument validator for commands taking one input path.
var exactInput = cobra.ExactArgs(1)
