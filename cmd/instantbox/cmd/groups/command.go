// Package groups implements the typology view commands.
package groups

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// NewCommand creates the groups command. With a type and model it lists the
// packs of that group.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:     "groups [type model]",
		Aliases: []string{"group", "typology"},
		GroupID: "core",
		Short:   "Show film packs grouped by type and model",
		Example: `  instantbox groups --sort name-asc
  instantbox groups 600 Color`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return errors.NewValidationError("args", args, "give both a film type and a model")
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := app.PackSort()
			if sort != "" {
				var err error
				if policy, err = ordering.ParsePolicy(sort); err != nil {
					return err
				}
			}
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			printer := cmdutil.Printer(cmd, app)

			if len(args) == 0 {
				return printer.Groups(box.Groups(policy))
			}

			key := inventory.GroupKey(args[0], args[1])
			_, packs, ok := box.Group(key)
			if !ok {
				return errors.NewNotFoundError("group", key)
			}
			return printer.FilmPacks(packs, box.Cameras(ordering.CameraDateAdded))
		},
	}
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "order: stable, name-asc, name-desc, purchase-asc, purchase-desc")
	return cmd
}
