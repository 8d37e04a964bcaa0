package cli

import (
	"os"

	"github.com/spf13/cobra"

	recio "github.com/matzehuels/hydronet/pkg/io"
	"github.com/matzehuels/hydronet/pkg/pipeline"
)

// loadCommand creates the load command, which converts a SQLite barrier
// database into a JSON record file.
func (c *CLI) loadCommand() *cobra.Command {
	var (
		flags  inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "load <database>",
		Short: "Read a SQLite barrier database into a JSON record file",
		Long: `Read the barrier, road-stream crossing, dam, flowline, catchment and
tributary tables from a SQLite database, join crossings and dams onto
barriers, and write the normalized records as JSON.

Table and column names come from the [source] section of --config.`,
		Example: `  hydronet load basin.db -o basin.json
  hydronet load basin.db -o basin.json --config greatlakes.toml`,
		Args: exactInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.options(args[0], flags)
			if opts.Format == "" {
				opts.Format = pipeline.FormatSQLite
			}

			spinner := newSpinner(cmd.Context(), os.Stderr, "Reading tables...")
			spinner.Start()
			set, cached, err := runner.LoadWithCacheInfo(cmd.Context(), opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			if err := recio.ExportJSON(set, output); err != nil {
				return err
			}

			printSuccess("Wrote normalized records")
			printRows(set.Barriers.Len(), set.Flowlines.Len(), set.Catchments.Len(), set.Tributaries.Len(), cached)
			printFile(output)
			printNewline()
			printNextStep("Summarize the network", "hydronet summary "+output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
