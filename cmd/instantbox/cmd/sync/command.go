// Package sync implements the sync command.
package sync

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/internal/cmd/table"
	"github.com/agentstation/instantbox/pkg/merge"
	pkgsync "github.com/agentstation/instantbox/pkg/sync"
)

// NewCommand creates the sync command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dryRun      bool
		collections []string
		strategy    string
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "management",
		Short:   "Reconcile the inventory with the remote replica",
		Long: `Sync merges each collection with the remote replica, cameras first, and
pushes the merged result back. Requires sync_enabled and a replication driver.`,
		Example: `  instantbox sync
  instantbox sync --dry-run
  instantbox sync --collections filmPacks --strategy latest-wins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []pkgsync.Option{pkgsync.WithDryRun(dryRun)}
			if len(collections) > 0 {
				opts = append(opts, pkgsync.WithCollections(collections...))
			}
			if strategy != "" {
				st, err := merge.ParseStrategyType(strategy)
				if err != nil {
					return err
				}
				opts = append(opts, pkgsync.WithStrategy(st))
			}
			if timeout > 0 {
				opts = append(opts, pkgsync.WithTimeout(timeout))
			}

			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			start := time.Now()
			res, err := box.Sync(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			app.Logger().Debug().
				Dur("took", time.Since(start)).
				Bool("changed", res.HasChanges()).
				Msg("Sync finished")

			printer := cmdutil.Printer(cmd, app)
			if !printer.Tabular() {
				return printer.Value(res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", emoji.Sync, res.Summary())
			if len(res.Collections) == 0 {
				return nil
			}
			return printer.Value(resultTable(res))
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "merge without changing anything")
	cmd.Flags().StringSliceVar(&collections, "collections", nil, "collections to sync: cameras, filmPacks")
	cmd.Flags().StringVar(&strategy, "strategy", "", "merge strategy: remote-wins, latest-wins")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout per collection")
	return cmd
}

func resultTable(res *pkgsync.Result) table.Data {
	data := table.Data{
		Headers: []string{"Collection", "Remote", "Added", "Replaced", "Local Only", "Changed", "Pushed"},
		ColumnAlignment: []table.Align{
			table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignRight, table.AlignCenter, table.AlignCenter,
		},
	}
	for _, c := range res.Collections {
		data.Rows = append(data.Rows, []string{
			c.Collection,
			strconv.Itoa(c.Remote),
			strconv.Itoa(c.Added),
			strconv.Itoa(c.Replaced),
			strconv.Itoa(c.Kept),
			check(c.Changed),
			check(c.Pushed),
		})
	}
	return data
}

func check(b bool) string {
	if b {
		return emoji.Success
	}
	return emoji.Optional
}
