// Package appcontext provides the shared application context interface
// used by all commands. Commands accept it rather than the concrete App so
// they can be tested with Mock.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/instantbox/app implements it.
type Interface interface {
	// Client returns the inventory client, opening storage and the replica
	// on first use. Later calls return the same instance.
	Client(ctx context.Context) (instantbox.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// CameraSort is the default camera list order.
	CameraSort() ordering.CameraSort

	// PackSort is the default film pack and group order.
	PackSort() ordering.Policy

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
