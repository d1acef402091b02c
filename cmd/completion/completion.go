// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installHints = map[string]string{
	"bash":       "contentkit completion bash > /etc/bash_completion.d/contentkit",
	"zsh":        "contentkit completion zsh > ~/.zsh/completions/_contentkit",
	"fish":       "contentkit completion fish > ~/.config/fish/completions/contentkit.fish",
	"powershell": "contentkit completion powershell >> $PROFILE",
}

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for contentkit.

Install instructions:
  Bash:       contentkit completion bash > /etc/bash_completion.d/contentkit
              echo 'source <(contentkit completion bash)' >> ~/.bashrc
  Zsh:        contentkit completion zsh > ~/.zsh/completions/_contentkit
  Fish:       contentkit completion fish > ~/.config/fish/completions/contentkit.fish
  PowerShell: contentkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			hint, ok := installHints[shell]
			if !ok {
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", shell)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# contentkit %s completion\n", shell)
			fmt.Fprintf(out, "# Install: %s\n\n", hint)

			switch shell {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
	return cmd
}
