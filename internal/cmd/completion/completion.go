// Package completion installs and removes shell completion files.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/instantbox/internal/cmd/constants"
	"github.com/agentstation/instantbox/internal/cmd/emoji"
	pkgconstants "github.com/agentstation/instantbox/pkg/constants"
)

type shellInfo struct {
	// brewDir is relative to a Homebrew prefix, userDir to the home directory.
	brewDir  []string
	userDir  []string
	file     string
	fallback []string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = map[string]shellInfo{
	constants.ShellBash: {
		brewDir: []string{"etc", "bash_completion.d"},
		userDir: []string{".bash_completion.d"},
		file:    constants.BinaryName,
		fallback: []string{
			"/etc/bash_completion.d/" + constants.BinaryName,
			"/usr/share/bash-completion/completions/" + constants.BinaryName,
		},
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	constants.ShellZsh: {
		brewDir: []string{"share", "zsh", "site-functions"},
		userDir: []string{".zsh", "completions"},
		file:    "_" + constants.BinaryName,
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	constants.ShellFish: {
		brewDir: []string{"share", "fish", "vendor_completions.d"},
		userDir: []string{".config", "fish", "completions"},
		file:    constants.BinaryName + ".fish",
		fallback: []string{
			"/usr/share/fish/completions/" + constants.BinaryName + ".fish",
		},
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
}

// brewPrefixes are probed for a Homebrew installation when HOMEBREW_PREFIX
// is unset.
var brewPrefixes = []string{"/opt/homebrew", "/usr/local"}

// Path returns where the completion file for shell is installed. Homebrew
// directories are preferred over the user's home directory.
func Path(shell string) (string, error) {
	info, ok := shells[shell]
	if !ok {
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return filepath.Join(append(append([]string{prefix}, info.brewDir...), info.file)...), nil
	}
	for _, prefix := range brewPrefixes {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return filepath.Join(append(append([]string{prefix}, info.brewDir...), info.file)...), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, info.userDir...), info.file)...), nil
}

// Install writes the completion script of root for shell to its system
// location and reports progress to w.
func Install(w io.Writer, root *cobra.Command, shell string) (string, error) {
	info, ok := shells[shell]
	if !ok {
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
	target, err := Path(shell)
	if err != nil {
		return "", fmt.Errorf("determining %s completion path: %w", shell, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), pkgconstants.DirPermissions); err != nil {
		return "", fmt.Errorf("creating completion directory: %w", err)
	}

	f, err := os.Create(target) // #nosec G304 - path is built from fixed shell directories
	if err != nil {
		return "", fmt.Errorf("creating completion file: %w", err)
	}
	if err := info.generate(root, f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("generating %s completion: %w", shell, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	fmt.Fprintf(w, "%s %s completions installed to: %s\n", emoji.Success, shell, target)
	fmt.Fprintln(w, "Start a new shell session to enable them.")
	return target, nil
}

// Uninstall removes the completion file for shell from its install location
// and from common system locations. It reports how many files were removed.
func Uninstall(w io.Writer, shell string) (int, error) {
	info, ok := shells[shell]
	if !ok {
		return 0, fmt.Errorf("unsupported shell: %s", shell)
	}
	target, err := Path(shell)
	if err != nil {
		return 0, fmt.Errorf("determining %s completion path: %w", shell, err)
	}

	removed := 0
	for _, path := range append([]string{target}, info.fallback...) {
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(w, "%s Could not remove %s (try: sudo rm -f %s)\n", emoji.Error, path, path)
			continue
		}
		fmt.Fprintf(w, "%s Removed %s\n", emoji.Success, path)
		removed++
	}
	if removed == 0 {
		fmt.Fprintf(w, "No %s completions found.\n", shell)
	}
	return removed, nil
}
