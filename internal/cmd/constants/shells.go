// Package constants provides shared constants for CLI commands.
package constants

// Shells that completion scripts can be generated for.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// InstallableShells have a well-known completion directory.
var InstallableShells = []string{ShellBash, ShellZsh, ShellFish}

// BinaryName is the executable name completion files are registered for.
const BinaryName = "instantbox"
