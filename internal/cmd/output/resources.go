package output

import (
	"fmt"
	"io"
	"time"

	"github.com/agentstation/instantbox/internal/cmd/table"
	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Printer writes inventory values in the configured format.
type Printer struct {
	w      io.Writer
	format Format
	now    func() time.Time
}

// NewPrinter returns a Printer for the given format. An empty format is
// detected from the terminal.
func NewPrinter(w io.Writer, format string) *Printer {
	return &Printer{w: w, format: DetectFormat(format), now: time.Now}
}

// Format returns the resolved output format.
func (p *Printer) Format() Format { return p.format }

// Tabular reports whether output is a table.
func (p *Printer) Tabular() bool {
	return p.format == FormatTable || p.format == FormatWide || p.format == ""
}

func (p *Printer) print(raw any, tab func(wide bool) table.Data) error {
	formatter := NewFormatter(p.format)
	if p.Tabular() {
		return formatter.Format(p.w, tab(p.format == FormatWide))
	}
	return formatter.Format(p.w, raw)
}

// Cameras prints cameras with the pack loaded in each.
func (p *Printer) Cameras(cameras []inventory.Camera, packs []inventory.FilmPack) error {
	loaded := make(map[string]inventory.FilmPack)
	for _, pack := range packs {
		if pack.AssociatedCamera != nil {
			loaded[*pack.AssociatedCamera] = pack
		}
	}
	return p.print(cameras, func(wide bool) table.Data {
		return table.CamerasToTableData(cameras, loaded, wide)
	})
}

// FilmPacks prints film packs.
func (p *Printer) FilmPacks(packs []inventory.FilmPack, cameras []inventory.Camera) error {
	byID := make(map[string]inventory.Camera, len(cameras))
	for _, c := range cameras {
		byID[c.ID] = c
	}
	return p.print(packs, func(wide bool) table.Data {
		return table.FilmPacksToTableData(packs, byID, p.now(), wide)
	})
}

// Groups prints typology groups.
func (p *Printer) Groups(groups []ordering.TypologyGroup) error {
	return p.print(groups, func(bool) table.Data {
		return table.GroupsToTableData(groups)
	})
}

// Catalog prints the camera models and film types of a reference catalog.
func (p *Printer) Catalog(c *catalog.Catalog) error {
	if !p.Tabular() {
		return NewFormatter(p.format).Format(p.w, map[string]any{
			"camera_models":    c.CameraModels(),
			"film_pack_types":  c.FilmPackTypes(),
			"film_pack_models": c.FilmPackModels(),
		})
	}
	formatter := NewFormatter(p.format)
	if err := formatter.Format(p.w, table.CameraModelsToTableData(c.CameraModels())); err != nil {
		return err
	}
	if _, err := io.WriteString(p.w, "\n"); err != nil {
		return err
	}
	return formatter.Format(p.w, table.FilmTypesToTableData(c))
}

// Value prints any value. Tables fall back to reflection over its fields.
func (p *Printer) Value(v any) error {
	return NewFormatter(p.format).Format(p.w, v)
}

// Done reports a completed action. Tables print the message, other formats
// print v.
func (p *Printer) Done(v any, format string, args ...any) error {
	if p.Tabular() {
		_, err := fmt.Fprintf(p.w, format+"\n", args...)
		return err
	}
	return NewFormatter(p.format).Format(p.w, v)
}
