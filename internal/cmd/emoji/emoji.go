// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants for CLI output provide a consistent visual language across commands.
const (
	// Success represents successful completion of an operation.
	Success = "✓"

	// Error represents failures such as a refused load.
	Error = "✗"

	// Warning represents non-fatal issues, e.g. expired film.
	Warning = "!"

	// Optional marks an empty or unset value.
	Optional = "-"

	// Camera prefixes camera related messages.
	Camera = "📷"

	// Film prefixes film pack related messages.
	Film = "🎞"

	// Sync prefixes replication messages.
	Sync = "🔄"
)
