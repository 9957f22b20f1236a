package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/cmd/instantbox/cmd/camera"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/catalog"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/completion"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/groups"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/load"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/pack"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/report"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/serve"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/sync"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Inventory
	rootCmd.AddCommand(camera.NewCommand(a))
	rootCmd.AddCommand(pack.NewCommand(a))
	rootCmd.AddCommand(groups.NewCommand(a))

	// Film
	rootCmd.AddCommand(load.NewLoadCommand(a))
	rootCmd.AddCommand(load.NewUnloadCommand(a))
	rootCmd.AddCommand(load.NewEjectCommand(a))
	rootCmd.AddCommand(load.NewShootCommand(a))

	// Management
	rootCmd.AddCommand(catalog.NewCommand(a))
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(report.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "instantbox %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
				fmt.Fprintf(w, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
