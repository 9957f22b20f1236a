package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestPath_HomebrewPrefix(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	tests := map[string]string{
		"bash": filepath.Join(prefix, "etc", "bash_completion.d", "instantbox"),
		"zsh":  filepath.Join(prefix, "share", "zsh", "site-functions", "_instantbox"),
		"fish": filepath.Join(prefix, "share", "fish", "vendor_completions.d", "instantbox.fish"),
	}
	for shell, want := range tests {
		got, err := Path(shell)
		if err != nil {
			t.Fatalf("Path(%s) error = %v", shell, err)
		}
		if got != want {
			t.Errorf("Path(%s) = %s, want %s", shell, got, want)
		}
	}

	if _, err := Path("tcsh"); err == nil {
		t.Error("Path(tcsh) should fail")
	}
}

func TestInstallUninstall(t *testing.T) {
	t.Setenv("HOMEBREW_PREFIX", t.TempDir())
	root := &cobra.Command{Use: "instantbox"}
	root.AddCommand(&cobra.Command{Use: "camera", Run: func(*cobra.Command, []string) {}})

	var out bytes.Buffer
	target, err := Install(&out, root, "zsh")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "instantbox") {
		t.Error("completion script does not mention the binary")
	}

	out.Reset()
	n, err := Uninstall(&out, "zsh")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Uninstall() removed %d files, want 1\n%s", n, out.String())
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("completion file still exists")
	}

	n, _ = Uninstall(&out, "zsh")
	if n != 0 {
		t.Errorf("second Uninstall() removed %d files", n)
	}
}
