// Package catalog implements the reference catalog commands.
package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/pkg/errors"
)

// NewCommand creates the catalog command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		GroupID: "management",
		Short:   "Show or refresh the reference catalog of cameras and film",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			printer := cmdutil.Printer(cmd, app)
			if printer.Tabular() {
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog origin: %s\n\n", box.CatalogOrigin())
			}
			return printer.Catalog(box.Catalog())
		},
	}
	cmd.AddCommand(newRefreshCommand(app), newModelsCommand(app))
	return cmd
}

func newRefreshCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download the catalog, ignoring the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			origin, err := box.RefreshCatalog(cmd.Context())
			if err != nil {
				app.Logger().Warn().Err(err).Str("origin", string(origin)).Msg("Catalog refresh failed, using fallback")
				return err
			}
			return cmdutil.Printer(cmd, app).Done(map[string]string{"origin": string(origin)}, "%s Catalog refreshed (%s)", emoji.Success, origin)
		},
	}
}

func newModelsCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "models <film-type>",
		Short: "List the film models of a film type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			cat := box.Catalog()
			if _, ok := cat.FilmPackType(args[0]); !ok {
				return errors.NewNotFoundError("film type", args[0])
			}
			models := cat.ModelsForType(args[0])
			printer := cmdutil.Printer(cmd, app)
			if !printer.Tabular() {
				return printer.Value(models)
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}
