package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for jigsaw.

To load completions:

Bash:
  $ source <(jigsaw completion bash)

  # To load completions for each session, execute once:
  $ jigsaw completion bash > /etc/bash_completion.d/jigsaw

Zsh:
  # If shell completion is not already enabled in your environment,
  # execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ jigsaw completion zsh > "${fpath[1]}/_jigsaw"

Fish:
  $ jigsaw completion fish | source
  $ jigsaw completion fish > ~/.config/fish/completions/jigsaw.fish

PowerShell:
  PS> jigsaw completion powershell | Out-String | Invoke-Expression
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
