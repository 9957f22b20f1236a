// Package pack implements the film pack subcommands.
package pack

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/internal/cmd/table"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// NewCommand creates the pack command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pack",
		Aliases: []string{"packs", "film"},
		GroupID: "core",
		Short:   "Manage film packs",
		Example: `  instantbox pack add 600 Color --expires 2026-09-01
  instantbox pack list --type 600 --sort purchase-desc
  instantbox pack duplicate <id>
  instantbox pack cameras <id>`,
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
		newDuplicateCommand(app),
		newCamerasCommand(app),
	)
	return cmd
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		color     string
		total     int
		note      string
		purchased string
		expires   string
		count     int
	)
	cmd := &cobra.Command{
		Use:   "add <type> <model>",
		Short: "Add film packs",
		Long: `Add film packs. The shot count defaults to the catalog capacity of the
type and the purchase date to today.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := instantbox.FilmPackInput{
				Type:  args[0],
				Model: strings.Join(args[1:], " "),
				Color: cmdutil.NonEmpty(color),
				Total: total,
				Note:  cmdutil.NonEmpty(note),
			}
			if purchased != "" {
				t, err := cmdutil.ParseDate(purchased)
				if err != nil {
					return err
				}
				in.PurchaseDate = t
			}
			if expires != "" {
				t, err := cmdutil.ParseDate(expires)
				if err != nil {
					return err
				}
				in.ExpiryDate = &t
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			added := make([]inventory.FilmPack, 0, count)
			for range count {
				p, err := box.AddFilmPack(cmd.Context(), in)
				if err != nil {
					return err
				}
				added = append(added, p)
			}

			printer := cmdutil.Printer(cmd, app)
			if len(added) == 1 {
				p := added[0]
				return printer.Done(p, "%s Added %s %s, %d shots (%s)", emoji.Success, p.Type, p.Model, p.Total, p.ID)
			}
			return printer.Done(added, "%s Added %d × %s %s", emoji.Success, len(added), in.Type, in.Model)
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "frame color")
	cmd.Flags().IntVar(&total, "shots", 0, "shots in the pack (defaults to the catalog)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&purchased, "purchased", "", "purchase date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&expires, "expires", "", "expiry date, YYYY-MM-DD")
	cmd.Flags().IntVar(&count, "count", 1, "number of identical packs to add")
	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	var (
		sort         string
		filmType     string
		model        string
		loaded       bool
		available    bool
		expiringSoon bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List film packs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			now := time.Now()
			var packs []inventory.FilmPack
			for _, p := range box.FilmPacks(policy) {
				switch {
				case filmType != "" && !strings.EqualFold(p.Type, filmType):
				case model != "" && !strings.EqualFold(p.Model, model):
				case loaded && !p.InUse():
				case available && p.InUse():
				case expiringSoon && !p.IsExpiringSoon(now):
				default:
					packs = append(packs, p)
				}
			}
			return cmdutil.Printer(cmd, app).FilmPacks(packs, box.Cameras(ordering.CameraDateAdded))
		},
	}
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "order: stable, name-asc, name-desc, purchase-asc, purchase-desc")
	cmd.Flags().StringVarP(&filmType, "type", "t", "", "only packs of this film type")
	cmd.Flags().StringVarP(&model, "model", "m", "", "only packs of this film model")
	cmd.Flags().BoolVar(&loaded, "loaded", false, "only packs loaded in a camera")
	cmd.Flags().BoolVar(&available, "available", false, "only packs not loaded in a camera")
	cmd.Flags().BoolVar(&expiringSoon, "expiring", false, "only packs expiring within 30 days")
	cmd.MarkFlagsMutuallyExclusive("loaded", "available")
	return cmd
}

func newShowCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a film pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			p, err := box.FilmPack(args[0])
			if err != nil {
				return err
			}

			printer := cmdutil.Printer(cmd, app)
			if !printer.Tabular() {
				return printer.Value(p)
			}

			now := time.Now()
			rows := [][2]string{
				{"ID", p.ID},
				{"Film", p.Type + " " + p.Model},
				{"Shots", fmt.Sprintf("%d/%d (%.0f%% used)", p.Remaining, p.Total, p.UsagePercent())},
				{"Status", table.PackStatus(p, now)},
				{"Purchased", p.PurchaseDate.Format(table.DateLayout)},
			}
			if p.ExpiryDate != nil {
				days, _ := p.DaysUntilExpiry(now)
				rows = append(rows, [2]string{"Expiry", fmt.Sprintf("%s (%d days)", p.ExpiryDate.Format(table.DateLayout), days)})
			}
			if p.AssociatedCamera != nil {
				camera := *p.AssociatedCamera
				if c, err := box.Camera(camera); err == nil {
					camera = c.DisplayName()
				}
				rows = append(rows, [2]string{"Camera", camera})
			}
			if p.Color != nil {
				rows = append(rows, [2]string{"Color", *p.Color})
			}
			if p.Note != nil {
				rows = append(rows, [2]string{"Note", *p.Note})
			}
			return printer.Value(table.KeyValue(rows...))
		},
	}
}

func newEditCommand(app appcontext.Interface) *cobra.Command {
	var clearExpiry bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change film pack attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := instantbox.FilmPackPatch{
				Type:        cmdutil.ChangedString(cmd, "type"),
				Model:       cmdutil.ChangedString(cmd, "model"),
				Color:       cmdutil.ChangedString(cmd, "color"),
				Total:       cmdutil.ChangedInt(cmd, "shots"),
				Remaining:   cmdutil.ChangedInt(cmd, "remaining"),
				Note:        cmdutil.ChangedString(cmd, "note"),
				ClearExpiry: clearExpiry,
			}
			var err error
			if patch.PurchaseDate, err = cmdutil.ChangedDate(cmd, "purchased"); err != nil {
				return err
			}
			if patch.ExpiryDate, err = cmdutil.ChangedDate(cmd, "expires"); err != nil {
				return err
			}

			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			p, err := box.UpdateFilmPack(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Done(p, "%s Updated %s %s (%d/%d shots)", emoji.Success, p.Type, p.Model, p.Remaining, p.Total)
		},
	}
	cmd.Flags().String("type", "", "film type")
	cmd.Flags().String("model", "", "film model")
	cmd.Flags().String("color", "", "frame color")
	cmd.Flags().Int("shots", 0, "total shots")
	cmd.Flags().Int("remaining", 0, "remaining shots")
	cmd.Flags().String("note", "", "free-form note")
	cmd.Flags().String("purchased", "", "purchase date, YYYY-MM-DD")
	cmd.Flags().String("expires", "", "expiry date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearExpiry, "clear-expiry", false, "remove the expiry date")
	cmd.MarkFlagsMutuallyExclusive("expires", "clear-expiry")
	return cmd
}

func newDeleteCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a film pack",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			if err := box.DeleteFilmPack(cmd.Context(), args[0]); err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Done(map[string]string{"id": args[0]}, "%s Deleted film pack %s", emoji.Success, args[0])
		},
	}
}

func newDuplicateCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <id>",
		Aliases: []string{"dup"},
		Short:   "Add a fresh, unloaded copy of a film pack",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			p, err := box.DuplicateFilmPack(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Done(p, "%s Added %s %s (%s)", emoji.Success, p.Type, p.Model, p.ID)
		},
	}
}

func newCamerasCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "cameras <id>",
		Short: "List the cameras a film pack can be loaded in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			cameras, err := box.CompatibleCameras(args[0])
			if err != nil {
				return err
			}
			return cmdutil.Printer(cmd, app).Cameras(cameras, box.FilmPacks(ordering.PolicyStable))
		},
	}
}
