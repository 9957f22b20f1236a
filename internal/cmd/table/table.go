// Package table converts inventory values into rows for tabular CLI output.
package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agentstation/instantbox/internal/cmd/emoji"
	"github.com/agentstation/instantbox/pkg/catalog"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// DateLayout is the layout used for purchase and expiry dates.
const DateLayout = time.DateOnly

// CamerasToTableData converts cameras to table format. loaded maps a camera id
// to the pack loaded in it.
func CamerasToTableData(cameras []inventory.Camera, loaded map[string]inventory.FilmPack, wide bool) Data {
	headers := []string{"ID", "Name", "Model", "Capacity", "Loaded"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Brand", "Year", "Film Type", "Added")
		align = append(align, AlignLeft, AlignRight, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(cameras))
	for _, c := range cameras {
		pack := emoji.Optional
		if p, ok := loaded[c.ID]; ok {
			pack = fmt.Sprintf("%s %s (%d/%d)", p.Type, p.Model, p.Remaining, p.Total)
		}
		row := []string{c.ID, c.DisplayName(), c.Model, strconv.Itoa(c.Capacity), pack}
		if wide {
			year := emoji.Optional
			if c.Year > 0 {
				year = strconv.Itoa(c.Year)
			}
			row = append(row, orDash(c.Brand), year, orDash(deref(c.FilmType)), c.CreatedAt.Format(DateLayout))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FilmPacksToTableData converts film packs to table format. cameras resolves
// the display name of the camera a pack is loaded in.
func FilmPacksToTableData(packs []inventory.FilmPack, cameras map[string]inventory.Camera, now time.Time, wide bool) Data {
	headers := []string{"ID", "Type", "Model", "Shots", "Expiry", "Status"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Color", "Purchased", "Camera", "Note")
		align = append(align, AlignLeft, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(packs))
	for _, p := range packs {
		expiry := emoji.Optional
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format(DateLayout)
		}
		row := []string{
			p.ID,
			p.Type,
			p.Model,
			fmt.Sprintf("%d/%d", p.Remaining, p.Total),
			expiry,
			PackStatus(p, now),
		}
		if wide {
			camera := emoji.Optional
			if p.AssociatedCamera != nil {
				camera = *p.AssociatedCamera
				if c, ok := cameras[camera]; ok {
					camera = c.DisplayName()
				}
			}
			note := deref(p.Note)
			if len(note) > 40 {
				note = note[:37] + "..."
			}
			row = append(row, orDash(deref(p.Color)), p.PurchaseDate.Format(DateLayout), camera, orDash(note))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// PackStatus summarizes a pack's state in one word.
func PackStatus(p inventory.FilmPack, now time.Time) string {
	switch {
	case p.IsFinished():
		return "finished"
	case p.IsExpired(now):
		return emoji.Warning + " expired"
	case p.InUse():
		return "loaded"
	case p.IsExpiringSoon(now):
		return "expiring soon"
	default:
		return "available"
	}
}

// GroupsToTableData converts typology groups to table format.
func GroupsToTableData(groups []ordering.TypologyGroup) Data {
	headers := []string{"Key", "Type", "Model", "Packs", "Shots", "Available", "Expiring", "Expired", "Finished"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			g.Type,
			g.Model,
			strconv.Itoa(g.TotalPacks),
			strconv.Itoa(g.RemainingShots),
			strconv.Itoa(g.Available),
			strconv.Itoa(g.ExpiringSoon),
			strconv.Itoa(g.Expired),
			strconv.Itoa(g.Finished),
		})
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CameraModelsToTableData converts catalog camera models to table format.
func CameraModelsToTableData(models []catalog.CameraModel) Data {
	headers := []string{"Name", "Brand", "Capacity", "Film Type", "Year"}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		year := emoji.Optional
		if m.YearIntroduced > 0 {
			year = strconv.Itoa(m.YearIntroduced)
		}
		rows = append(rows, []string{m.Name, orDash(m.Brand), strconv.Itoa(m.Capacity), orDash(m.FilmType), year})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight},
	}
}

// FilmTypesToTableData converts catalog film types to table format, listing the
// models of each type.
func FilmTypesToTableData(c *catalog.Catalog) Data {
	headers := []string{"Type", "Capacity", "Models"}
	types := c.FilmPackTypes()
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		models := c.ModelsForType(t.Name)
		list := emoji.Optional
		if len(models) > 0 {
			list = joinLimit(models, 6)
		}
		rows = append(rows, []string{t.Name, strconv.Itoa(t.DefaultCapacity), list})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// KeyValue builds a two column property table.
func KeyValue(pairs ...[2]string) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func joinLimit(items []string, n int) string {
	out := ""
	for i, s := range items {
		if i == n {
			return out + fmt.Sprintf(", +%d more", len(items)-n)
		}
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return emoji.Optional
	}
	return s
}
