// Package sync provides options and results for merge passes between the
// local inventory and its remote replica.
package sync

import (
	"slices"
	"time"

	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/merge"
)

// Collections lists the collections a pass can cover, in pass order.
var Collections = []string{inventory.CollectionCameras, inventory.CollectionFilmPacks}

// Options controls a sync run.
type Options struct {
	DryRun      bool               // Merge and report without replacing, persisting or pushing
	Timeout     time.Duration      // Timeout for the whole run; zero means none
	Collections []string           // Which collections to sync (empty means all)
	Strategy    merge.StrategyType // Overrides the client's merge strategy when set
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Targets returns the collections to sync, in pass order.
func (o *Options) Targets() []string {
	if len(o.Collections) == 0 {
		return slices.Clone(Collections)
	}
	var out []string
	for _, c := range Collections {
		if slices.Contains(o.Collections, c) {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return errors.NewValidationError("Timeout", o.Timeout, "timeout must be non-negative")
	}
	for _, c := range o.Collections {
		if !slices.Contains(Collections, c) {
			return errors.NewValidationError("Collections", c, "unknown collection")
		}
	}
	if o.Strategy != "" {
		if _, err := merge.ParseStrategyType(string(o.Strategy)); err != nil {
			return err
		}
	}
	return nil
}

// Option configures sync Options.
type Option func(*Options)

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithCollections restricts the run to the named collections.
func WithCollections(collections ...string) Option {
	return func(o *Options) {
		o.Collections = collections
	}
}

// WithStrategy overrides the merge strategy for this run.
func WithStrategy(strategy merge.StrategyType) Option {
	return func(o *Options) {
		o.Strategy = strategy
	}
}
