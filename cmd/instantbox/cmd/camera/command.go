// Package camera implements the camera subcommands.
package camera

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/internal/cmd/table"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// NewCommand creates the camera command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "camera",
		Aliases: []string{"cameras", "cam"},
		GroupID: "core",
		Short:   "Manage cameras",
		Example: `  instantbox camera add 600 --nickname "Sun 660"
  instantbox camera list --sort loaded-first
  instantbox camera show <id>
  instantbox camera edit <id> --nickname Beach
  instantbox camera delete <id>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newAddCommand(app),
		newListCommand(app),
		newShowCommand(app),
		newEditCommand(app),
		newDeleteCommand(app),
	)
	return cmd
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		nickname    string
		description string
		filmType    string
		capacity    int
		color       string
	)
	cmd := &cobra.Command{
		Use:   "add <model>",
		Short: "Add a camera",
		Long: `Add a camera. Capacity, icon, brand and compatible film are taken from
the reference catalog entry for the model unless given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			cam, err := box.AddCamera(cmd.Context(), instantbox.CameraInput{
				Model:       strings.Join(args, " "),
				Nickname:    nickname,
				Description: cmdutil.NonEmpty(description),
				FilmType:    cmdutil.NonEmpty(filmType),
				Capacity:    capacity,
				IconColor:   color,
			})
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Done(cam, "%s Added %s (%s)", emoji.Success, cam.DisplayName(), cam.ID)
		},
	}
	cmd.Flags().StringVarP(&nickname, "nickname", "n", "", "display name (defaults to the model)")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&filmType, "film-type", "", "compatible film, e.g. \"600/i-Type\"")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "shots per pack (defaults to the catalog)")
	cmd.Flags().StringVar(&color, "color", "", fmt.Sprintf("icon color: %s", strings.Join(inventory.IconColors, ", ")))
	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cameras",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order := app.CameraSort()
			if sort != "" {
				var err error
				if order, err = ordering.ParseCameraSort(sort); err != nil {
					return err
				}
			}
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Cameras(box.Cameras(order), box.FilmPacks(ordering.PolicyStable))
		},
	}
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "order: name-asc, name-desc, date-added, date-added-reverse, loaded-first, unloaded-first")
	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a camera and its loaded pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			cam, err := box.Camera(args[0])
			if err != nil {
				return err
			}
			pack, loaded := box.PackInCamera(cam.ID)

			printer := cmdutil.Printer(cmd, app)
			if !printer.Tabular() {
				detail := struct {
					inventory.Camera `yaml:",inline"`
					Pack             *inventory.FilmPack `json:"pack,omitempty" yaml:"pack,omitempty"`
				}{Camera: cam}
				if loaded {
					detail.Pack = &pack
				}
				return printer.Value(detail)
			}

			film := emoji.Optional
			if loaded {
				film = fmt.Sprintf("%s %s, %d/%d shots (%s)", pack.Type, pack.Model, pack.Remaining, pack.Total, pack.ID)
			}
			rows := [][2]string{
				{"ID", cam.ID},
				{"Name", cam.DisplayName()},
				{"Model", cam.Model},
				{"Capacity", fmt.Sprint(cam.Capacity)},
				{"Loaded", film},
			}
			if cam.Brand != "" {
				rows = append(rows, [2]string{"Brand", cam.Brand})
			}
			if cam.FilmType != nil {
				rows = append(rows, [2]string{"Film Type", *cam.FilmType})
			}
			if cam.Description != nil {
				rows = append(rows, [2]string{"Description", *cam.Description})
			}
			rows = append(rows, [2]string{"Added", cam.CreatedAt.Format(table.DateLayout)})
			return printer.Value(table.KeyValue(rows...))
		},
	}
}

func newEditCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change camera attributes",
		Long:  `Change camera attributes. Changing the model derives capacity, icon and film type again.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := instantbox.CameraPatch{
				Nickname:    cmdutil.ChangedString(cmd, "nickname"),
				Model:       cmdutil.ChangedString(cmd, "model"),
				Description: cmdutil.ChangedString(cmd, "description"),
				FilmType:    cmdutil.ChangedString(cmd, "film-type"),
				IconColor:   cmdutil.ChangedString(cmd, "color"),
			}
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			cam, err := box.UpdateCamera(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Done(cam, "%s Updated %s", emoji.Success, cam.DisplayName())
		},
	}
	cmd.Flags().StringP("nickname", "n", "", "display name")
	cmd.Flags().String("model", "", "camera model")
	cmd.Flags().String("description", "", "free-form description")
	cmd.Flags().String("film-type", "", "compatible film")
	cmd.Flags().String("color", "", "icon color")
	return cmd
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a camera and the pack loaded in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			removed, err := box.DeleteCamera(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result := map[string]any{"id": args[0], "packs_removed": removed}
			return cmdutil.Printer(cmd, app).Done(result, "%s Deleted camera %s (%d packs removed)", emoji.Success, args[0], removed)
		},
	}
}
