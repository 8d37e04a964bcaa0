package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/pipeline"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for hydronet. Completion covers commands,
flags and the fixed values of --tier, --direction, --scope, --quantity and
--format.`,
		Example: `  source <(hydronet completion bash)
  hydronet completion zsh > "${fpath[1]}/_hydronet"
  hydronet completion fish > ~/.config/fish/completions/hydronet.fish
  hydronet completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// completeValues registers a fixed set of completions for flag.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// completeInput registers the shared input flag completions.
func completeInput(cmd *cobra.Command) {
	completeValues(cmd, "format", pipeline.FormatRecords, pipeline.FormatSQLite)
}
