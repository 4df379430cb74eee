package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd writes shell completion scripts. Dynamic completion for
// `set` arguments is provided by categoryValidArgs.
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion script",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("missing shell argument; expected one of: bash, zsh, fish, powershell")
		}
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(Stdout)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
