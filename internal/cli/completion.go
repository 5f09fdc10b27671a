package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tessera.

To load completions:

Bash:
  $ source <(tessera completion bash)

Zsh:
  $ tessera completion zsh > "${fpath[1]}/_tessera"

Fish:
  $ tessera completion fish | source

PowerShell:
  PS> tessera completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerFlagCompletions offers generator and format names for the flags
// of cmd that take them.
func registerFlagCompletions(cmd *cobra.Command) {
	if cmd.Flags().Lookup("generator") != nil {
		cmd.RegisterFlagCompletionFunc("generator", fixedCompletion(dataset.Generators))
	}
	if cmd.Flags().Lookup("format") != nil {
		cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	}
}

func fixedCompletion(values []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// formatCompletion completes the last element of a comma-separated format
// list, keeping what was already typed as a prefix.
func formatCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := pipeline.ParseFormats(prefix)

	var out []string
	for _, f := range pipeline.FormatNames() {
		if !slices.Contains(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
