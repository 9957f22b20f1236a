// Package cmdutil provides flag parsing helpers shared by instantbox commands.
package cmdutil

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/internal/cmd/output"
	"github.com/agentstation/instantbox/pkg/constants"
)

// ParseDate parses a calendar date (YYYY-MM-DD) at local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// ChangedString returns the flag value when it was set on the command line.
func ChangedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return &v
}

// ChangedInt returns the flag value when it was set on the command line.
func ChangedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return &v
}

// ChangedDate parses a date flag when it was set on the command line.
func ChangedDate(cmd *cobra.Command, name string) (*time.Time, error) {
	s := ChangedString(cmd, name)
	if s == nil {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &t, nil
}

// NonEmpty returns nil for an empty string.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Printer returns a printer on the command's output stream.
func Printer(cmd *cobra.Command, app appcontext.Interface) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
}

// Client opens the inventory client with the command's context.
func Client(cmd *cobra.Command, app appcontext.Interface) (instantbox.Client, error) {
	return app.Client(cmd.Context())
}
