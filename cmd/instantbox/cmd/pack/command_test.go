package pack

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/appcontext"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

func setup(t *testing.T) (*appcontext.Mock, instantbox.Client) {
	t.Helper()
	box, err := instantbox.New(context.Background())
	if err != nil {
		t.Fatalf("instantbox.New() error = %v", err)
	}
	t.Cleanup(func() { _ = box.Close() })
	return &appcontext.Mock{
		ClientFunc:       func(context.Context) (instantbox.Client, error) { return box, nil },
		OutputFormatFunc: func() string { return "json" },
	}, box
}

func execute(t *testing.T, app appcontext.Interface, args ...string) ([]byte, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.Bytes(), err
}

func TestAdd_Count(t *testing.T) {
	app, box := setup(t)

	out, err := execute(t, app, "add", "i-Type", "Color", "--count", "3", "--purchased", "2025-02-01", "--expires", "2026-02-01")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	var added []inventory.FilmPack
	if err := json.Unmarshal(out, &added); err != nil {
		t.Fatalf("output is not a JSON list: %v", err)
	}
	if len(added) != 3 {
		t.Fatalf("added %d packs, want 3", len(added))
	}
	if got := added[0].PurchaseDate.Format("2006-01-02"); got != "2025-02-01" {
		t.Errorf("purchase date = %s", got)
	}
	if added[0].ExpiryDate == nil {
		t.Error("expiry date not set")
	}
	if n := len(box.FilmPacks(ordering.PolicyStable)); n != 3 {
		t.Errorf("inventory has %d packs, want 3", n)
	}
}

func TestAdd_BadDate(t *testing.T) {
	app, _ := setup(t)
	if _, err := execute(t, app, "add", "600", "Color", "--expires", "next week"); err == nil {
		t.Error("invalid date should fail")
	}
}

func TestEdit(t *testing.T) {
	app, box := setup(t)
	p, err := box.AddFilmPack(context.Background(), instantbox.FilmPackInput{Type: "600", Model: "Color"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, app, "edit", p.ID, "--remaining", "4", "--note", "beach trip")
	if err != nil {
		t.Fatalf("edit error = %v", err)
	}
	var got inventory.FilmPack
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Remaining != 4 || got.Note == nil || *got.Note != "beach trip" || got.Model != "Color" {
		t.Errorf("edited pack = %+v", got)
	}
}

func TestList_Filters(t *testing.T) {
	app, box := setup(t)
	ctx := context.Background()
	for _, in := range []instantbox.FilmPackInput{
		{Type: "600", Model: "Color"},
		{Type: "600", Model: "B&W"},
		{Type: "SX-70", Model: "Color"},
	} {
		if _, err := box.AddFilmPack(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		args []string
		want int
	}{
		{[]string{"list"}, 3},
		{[]string{"list", "--type", "600"}, 2},
		{[]string{"list", "--model", "color"}, 2},
		{[]string{"list", "--type", "600", "--model", "b&w"}, 1},
		{[]string{"list", "--loaded"}, 0},
	}
	for _, tt := range tests {
		out, err := execute(t, app, tt.args...)
		if err != nil {
			t.Fatalf("%v error = %v", tt.args, err)
		}
		var packs []inventory.FilmPack
		if err := json.Unmarshal(out, &packs); err != nil {
			t.Fatalf("%v output is not JSON: %v (%s)", tt.args, err, out)
		}
		if len(packs) != tt.want {
			t.Errorf("%v returned %d packs, want %d", tt.args, len(packs), tt.want)
		}
	}
}

func TestDuplicateAndDelete(t *testing.T) {
	app, box := setup(t)
	p, _ := box.AddFilmPack(context.Background(), instantbox.FilmPackInput{Type: "Go", Model: "Color"})

	out, err := execute(t, app, "duplicate", p.ID)
	if err != nil {
		t.Fatalf("duplicate error = %v", err)
	}
	var dup inventory.FilmPack
	if err := json.Unmarshal(out, &dup); err != nil {
		t.Fatal(err)
	}
	if dup.ID == p.ID || dup.Type != "Go" {
		t.Errorf("duplicate = %+v", dup)
	}

	if _, err := execute(t, app, "delete", p.ID); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if _, err := execute(t, app, "show", p.ID); err == nil {
		t.Error("show of a deleted pack should fail")
	}
}
