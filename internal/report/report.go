// Package report renders an inventory snapshot as a Markdown document.
package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/instantbox/internal/cmd/table"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Snapshot is the inventory state a report is written from.
type Snapshot struct {
	Cameras []inventory.Camera
	Packs   []inventory.FilmPack
	Groups  []ordering.TypologyGroup
	Now     time.Time
}

// Summary holds the headline counts of a snapshot.
type Summary struct {
	Cameras        int
	LoadedCameras  int
	Packs          int
	RemainingShots int
	Finished       int
	Expired        int
	ExpiringSoon   int
}

// Summarize computes the headline counts.
func (s Snapshot) Summarize() Summary {
	sum := Summary{Cameras: len(s.Cameras), Packs: len(s.Packs)}
	for _, p := range s.Packs {
		sum.RemainingShots += p.Remaining
		switch {
		case p.IsFinished():
			sum.Finished++
		case p.IsExpired(s.Now):
			sum.Expired++
		case p.IsExpiringSoon(s.Now):
			sum.ExpiringSoon++
		}
		if p.InUse() {
			sum.LoadedCameras++
		}
	}
	return sum
}

// Write renders the report to w.
func Write(w io.Writer, s Snapshot) error {
	doc := md.NewMarkdown(w)
	sum := s.Summarize()

	doc.H1("Instant Film Inventory").LF()
	doc.PlainText(md.Italic("Generated " + s.Now.Format(time.RFC1123))).LF()

	doc.H2("Summary").LF()
	doc.BulletList(
		fmt.Sprintf("%s cameras, %d loaded", md.Bold(strconv.Itoa(sum.Cameras)), sum.LoadedCameras),
		fmt.Sprintf("%s film packs with %d shots left", md.Bold(strconv.Itoa(sum.Packs)), sum.RemainingShots),
		fmt.Sprintf("%d finished, %d expired, %d expiring soon", sum.Finished, sum.Expired, sum.ExpiringSoon),
	).LF()

	if len(s.Cameras) > 0 {
		loaded := make(map[string]inventory.FilmPack)
		for _, p := range s.Packs {
			if p.AssociatedCamera != nil {
				loaded[*p.AssociatedCamera] = p
			}
		}
		data := table.CamerasToTableData(s.Cameras, loaded, false)
		doc.H2("Cameras").LF()
		doc.Table(md.TableSet{Header: data.Headers[1:], Rows: dropFirst(data.Rows)}).LF()
	}

	if len(s.Groups) > 0 {
		data := table.GroupsToTableData(s.Groups)
		doc.H2("Film by Type").LF()
		doc.Table(md.TableSet{Header: data.Headers[1:], Rows: dropFirst(data.Rows)}).LF()
	}

	if attention := needsAttention(s.Packs, s.Now); len(attention) > 0 {
		doc.H2("Needs Attention").LF()
		items := make([]string, 0, len(attention))
		for _, p := range attention {
			days, _ := p.DaysUntilExpiry(s.Now)
			label := fmt.Sprintf("%s %s, %d/%d shots", p.Type, p.Model, p.Remaining, p.Total)
			if days < 0 {
				items = append(items, fmt.Sprintf("%s: expired %d days ago", label, -days))
			} else {
				items = append(items, fmt.Sprintf("%s: expires in %d days", label, days))
			}
		}
		doc.BulletList(items...).LF()
	}

	return doc.Build()
}

// needsAttention returns unfinished packs that are expired or expiring soon,
// soonest expiry first.
func needsAttention(packs []inventory.FilmPack, now time.Time) []inventory.FilmPack {
	var out []inventory.FilmPack
	for _, p := range packs {
		if p.IsFinished() || p.ExpiryDate == nil {
			continue
		}
		if p.IsExpired(now) || p.IsExpiringSoon(now) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b inventory.FilmPack) int {
		return a.ExpiryDate.Compare(*b.ExpiryDate)
	})
	return out
}

func dropFirst(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r[1:]
	}
	return out
}
