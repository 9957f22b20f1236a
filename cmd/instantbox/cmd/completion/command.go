// Package completion implements the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/cmd/completion"
	"github.com/agentstation/instantbox/internal/cmd/constants"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `To load completions:

Bash:
  $ source <(instantbox completion bash)

Zsh:
  $ instantbox completion zsh > "${fpath[1]}/_instantbox"

Fish:
  $ instantbox completion fish | source

Or install them into the standard location:
  $ instantbox completion install zsh`,
		GroupID:               "management",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{constants.ShellBash, constants.ShellZsh, constants.ShellFish, constants.ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case constants.ShellBash:
				return root.GenBashCompletionV2(w, true)
			case constants.ShellZsh:
				return root.GenZshCompletion(w)
			case constants.ShellFish:
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "install <shell>",
			Short:     "Install completions for a shell",
			ValidArgs: constants.InstallableShells,
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := completion.Install(cmd.OutOrStdout(), cmd.Root(), args[0])
				return err
			},
		},
		&cobra.Command{
			Use:       "uninstall <shell>",
			Short:     "Remove installed completions for a shell",
			ValidArgs: constants.InstallableShells,
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := completion.Uninstall(cmd.OutOrStdout(), args[0])
				return err
			},
		},
	)
	return cmd
}
