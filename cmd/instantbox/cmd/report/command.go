// Package report implements the report command.
package report

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/report"
	pkgerrors "github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// NewCommand creates the report command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "report",
		GroupID: "management",
		Short:   "Write a Markdown report of the inventory",
		Example: `  instantbox report
  instantbox report --out inventory.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			snap := report.Snapshot{
				Cameras: box.Cameras(app.CameraSort()),
				Packs:   box.FilmPacks(ordering.PolicyStable),
				Groups:  box.Groups(app.PackSort()),
				Now:     time.Now(),
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out) // #nosec G304 - path chosen by the user
				if err != nil {
					return pkgerrors.WrapIO("create", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := report.Write(w, snap); err != nil {
				return err
			}
			if out != "" {
				app.Logger().Info().Str("path", out).Msg("Report written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")
	return cmd
}
