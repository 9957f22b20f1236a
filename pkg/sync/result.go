package sync

import (
	"fmt"
	"strings"
)

// Result is the outcome of a sync run.
type Result struct {
	Collections []*CollectionResult
	DryRun      bool
}

// CollectionResult is the outcome of one merge pass.
type CollectionResult struct {
	Collection string
	Remote     int  // Items fetched from the replica
	Replaced   int  // Local items replaced by their remote version
	Added      int  // Remote-only items appended
	Kept       int  // Local items the replica did not have
	Changed    bool // Whether the local collection changed
	Pushed     bool // Whether the merged collection was pushed
}

// HasChanges reports whether any collection changed locally.
func (r *Result) HasChanges() bool {
	for _, c := range r.Collections {
		if c.Changed {
			return true
		}
	}
	return false
}

// Collection returns the result for the named collection.
func (r *Result) Collection(name string) (*CollectionResult, bool) {
	for _, c := range r.Collections {
		if c.Collection == name {
			return c, true
		}
	}
	return nil, false
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	if len(r.Collections) == 0 {
		return "Nothing to sync"
	}
	parts := make([]string, 0, len(r.Collections))
	for _, c := range r.Collections {
		parts = append(parts, c.Summary())
	}
	s := strings.Join(parts, "; ")
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}

// Summary returns a human-readable summary of the pass.
func (c *CollectionResult) Summary() string {
	if !c.Changed {
		return fmt.Sprintf("%s: up to date", c.Collection)
	}
	return fmt.Sprintf("%s: %d added, %d replaced, %d local only", c.Collection, c.Added, c.Replaced, c.Kept)
}
