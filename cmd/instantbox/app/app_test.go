package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/cmd/instantbox/cmd/load"
	"github.com/agentstation/instantbox/pkg/association"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2025-01-01", "test",
		WithConfig(&Config{
			DBPath:        MemoryDB,
			MergeStrategy: "remote-wins",
			CameraSort:    "name-asc",
			PackSort:      "stable",
			LogFormat:     "json",
			LogOutput:     "discard",
		}),
		WithLogger(&logger),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// run executes one CLI invocation against app and returns its output.
func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	// flags write into the shared config; keep invocations independent
	saved := *app.config
	defer func() { *app.config = saved }()

	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := run(t, app, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", s, err)
	}
	return v
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.CameraSort() != ordering.CameraNameAsc {
		t.Errorf("CameraSort() = %s, want name-asc", app.CameraSort())
	}
	if app.PackSort() != ordering.PolicyStable {
		t.Errorf("PackSort() = %s, want stable", app.PackSort())
	}
}

// TestApp_SortFallback verifies unknown sort settings fall back to defaults.
func TestApp_SortFallback(t *testing.T) {
	app := newTestApp(t)
	app.config.CameraSort = "sideways"
	app.config.PackSort = "random"

	if app.CameraSort() != ordering.CameraDateAdded {
		t.Errorf("CameraSort() = %s, want date-added", app.CameraSort())
	}
	if app.PackSort() != ordering.PolicyStable {
		t.Errorf("PackSort() = %s, want stable", app.PackSort())
	}
}

// TestApp_Client_ThreadSafe verifies concurrent Client() calls share one instance.
func TestApp_Client_ThreadSafe(t *testing.T) {
	app := newTestApp(t)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]instantbox.Client, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Goroutine %d: Client() failed: %v", i, err)
		}
	}
	for i, c := range results[1:] {
		if c != results[0] {
			t.Errorf("Goroutine %d got different client instance", i+1)
		}
	}
}

// TestApp_BadMergeStrategy verifies invalid settings surface when the client opens.
func TestApp_BadMergeStrategy(t *testing.T) {
	app := newTestApp(t)
	app.config.MergeStrategy = "coin-flip"

	if _, err := app.Client(context.Background()); err == nil {
		t.Fatal("Client() should fail with an unknown merge strategy")
	}
}

// TestApp_FilmWorkflow drives the CLI through a camera's life.
func TestApp_FilmWorkflow(t *testing.T) {
	app := newTestApp(t)

	cam := decode[inventory.Camera](t, mustRun(t, app, "camera", "add", "600", "--nickname", "Sun", "-o", "json"))
	if cam.Capacity != 8 || cam.Nickname != "Sun" {
		t.Fatalf("camera = %+v", cam)
	}

	pack := decode[inventory.FilmPack](t, mustRun(t, app, "pack", "add", "600", "Color", "--expires", "2099-01-01", "-o", "json"))
	if pack.Total != 8 || pack.Remaining != 8 {
		t.Fatalf("pack = %+v", pack)
	}

	out := mustRun(t, app, "load", pack.ID, cam.ID, "-o", "table")
	if !strings.Contains(out, "Loaded 600 Color") {
		t.Errorf("load output = %q", out)
	}

	res := decode[association.ConsumeResult](t, mustRun(t, app, "shoot", cam.ID, "3", "-o", "json"))
	if res.Status != association.ConsumeConsumed || res.Remaining != 5 {
		t.Errorf("shoot = %+v", res)
	}

	if _, err := run(t, app, "shoot", cam.ID, "6"); err == nil {
		t.Error("shooting more than remaining should fail")
	}

	out = mustRun(t, app, "camera", "list", "-o", "table")
	if !strings.Contains(out, "600 Color (5/8)") {
		t.Errorf("camera list does not show the loaded pack:\n%s", out)
	}

	groups := decode[[]ordering.TypologyGroup](t, mustRun(t, app, "groups", "-o", "json"))
	if len(groups) != 1 || groups[0].RemainingShots != 5 {
		t.Errorf("groups = %+v", groups)
	}

	out = mustRun(t, app, "report")
	if !strings.HasPrefix(out, "# Instant Film Inventory") {
		t.Errorf("report output:\n%s", out)
	}

	res = decode[association.ConsumeResult](t, mustRun(t, app, "shoot", cam.ID, "5", "-o", "json"))
	if !res.Finished {
		t.Errorf("last shots should finish the pack: %+v", res)
	}

	_, err := run(t, app, "shoot", cam.ID)
	var noFilm *load.NoFilmError
	if !errors.As(err, &noFilm) {
		t.Errorf("shoot on empty camera error = %v, want NoFilmError", err)
	}
}

// TestApp_LoadRefused verifies refusals come back as RefusedError.
func TestApp_LoadRefused(t *testing.T) {
	app := newTestApp(t)

	cam := decode[inventory.Camera](t, mustRun(t, app, "camera", "add", "600", "-o", "json"))
	pack := decode[inventory.FilmPack](t, mustRun(t, app, "pack", "add", "Go", "Color", "-o", "json"))

	_, err := run(t, app, "load", "--check", pack.ID, cam.ID)
	var refused *load.RefusedError
	if !errors.As(err, &refused) {
		t.Fatalf("load error = %v, want RefusedError", err)
	}
	if refused.Reason != association.ReasonIncompatible {
		t.Errorf("Reason = %s, want incompatible", refused.Reason)
	}
}

// TestApp_VersionCommand verifies version output.
func TestApp_VersionCommand(t *testing.T) {
	app := newTestApp(t)

	out := mustRun(t, app, "version", "-v")
	if !strings.Contains(out, "instantbox 1.0.0") || !strings.Contains(out, "commit:   abc123") {
		t.Errorf("version output = %q", out)
	}
}
