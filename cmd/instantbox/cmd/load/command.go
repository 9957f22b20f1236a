// Package load implements the commands that move film through cameras:
// load, unload, eject and shoot.
package load

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/cmdutil"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/pkg/association"
)

// RefusedError reports a load that did not happen.
type RefusedError struct {
	Reason association.Reason
}

func (e *RefusedError) Error() string {
	return e.Reason.Message()
}

// NoFilmError reports a camera without a loaded pack.
type NoFilmError struct {
	CameraID string
}

func (e *NoFilmError) Error() string {
	return fmt.Sprintf("no film loaded in camera %s", e.CameraID)
}

// NewLoadCommand creates the load command.
func NewLoadCommand(app appcontext.Interface) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:     "load <pack-id> <camera-id>",
		GroupID: "film",
		Short:   "Load a film pack into a camera",
		Long: `Load a film pack into a camera. A pack already in the camera is ejected
and stays in the inventory. Finished, expired, incompatible packs and packs
loaded elsewhere are refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			packID, cameraID := args[0], args[1]

			var res association.LoadResult
			if check {
				res = box.CheckLoad(packID, cameraID)
			} else {
				res = box.Load(cmd.Context(), packID, cameraID)
			}
			if !res.OK {
				return &RefusedError{Reason: res.Reason}
			}

			printer := cmdutil.Printer(cmd, app)
			switch {
			case check:
				return printer.Done(map[string]any{"ok": true}, "%s Pack %s can be loaded", emoji.Success, packID)
			case res.AlreadyLoaded:
				return printer.Done(res.Pack, "%s Pack %s is already loaded", emoji.Success, packID)
			case res.Ejected != nil:
				return printer.Done(res.Pack, "%s Loaded %s %s, ejected %s", emoji.Success, res.Pack.Type, res.Pack.Model, res.Ejected.ID)
			default:
				return printer.Done(res.Pack, "%s Loaded %s %s (%d shots left)", emoji.Success, res.Pack.Type, res.Pack.Model, res.Pack.Remaining)
			}
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "only check whether the pack can be loaded")
	return cmd
}

// NewUnloadCommand creates the unload command. Unloading deletes the pack.
func NewUnloadCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "unload <camera-id>",
		GroupID: "film",
		Short:   "Remove the film from a camera and delete the pack",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			p, ok := box.Unload(cmd.Context(), args[0])
			if !ok {
				return &NoFilmError{CameraID: args[0]}
			}
			return cmdutil.Printer(cmd, app).Done(p, "%s Unloaded and removed %s %s", emoji.Success, p.Type, p.Model)
		},
	}
}

// NewEjectCommand creates the eject command. The pack stays in the inventory.
func NewEjectCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "eject <camera-id>",
		GroupID: "film",
		Short:   "Take the film out of a camera, keeping the pack",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}
			p, ok := box.Eject(cmd.Context(), args[0])
			if !ok {
				return &NoFilmError{CameraID: args[0]}
			}
			return cmdutil.Printer(cmd, app).Done(p, "%s Ejected %s %s (%d shots left)", emoji.Success, p.Type, p.Model, p.Remaining)
		},
	}
}

// NewShootCommand creates the shoot command.
func NewShootCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "shoot <camera-id> [shots]",
		GroupID: "film",
		Short:   "Record exposures taken with a camera",
		Long: `Record exposures taken with a camera. A pack that reaches zero shots is
removed from the inventory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 2 {
				var err error
				if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
					return fmt.Errorf("invalid shot count %q", args[1])
				}
			}
			box, err := cmdutil.Client(cmd, app)
			if err != nil {
				return err
			}

			res := box.Shoot(cmd.Context(), args[0], n)
			printer := cmdutil.Printer(cmd, app)
			switch res.Status {
			case association.ConsumeNoFilm:
				return &NoFilmError{CameraID: args[0]}
			case association.ConsumeRejected:
				return fmt.Errorf("only %d shots left, cannot take %d", res.Remaining, n)
			case association.ConsumeFinished:
				return printer.Done(res, "%s Pack finished and removed", emoji.Film)
			default:
				return printer.Done(res, "%s %d shots left", emoji.Film, res.Remaining)
			}
		},
	}
}
