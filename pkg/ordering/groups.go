package ordering

import (
	"time"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/inventory"
)

// TypologyGroup summarizes every pack sharing a film type and model.
// It is derived on demand and never stored.
type TypologyGroup struct {
	Key              string    `json:"key" yaml:"key"`
	Type             string    `json:"type" yaml:"type"`
	Model            string    `json:"model" yaml:"model"`
	TotalPacks       int       `json:"totalPacks" yaml:"total_packs"`
	RemainingShots   int       `json:"remainingShots" yaml:"remaining_shots"`
	Available        int       `json:"available" yaml:"available"`
	ExpiringSoon     int       `json:"expiringSoon" yaml:"expiring_soon"`
	Expired          int       `json:"expired" yaml:"expired"`
	Finished         int       `json:"finished" yaml:"finished"`
	EarliestPurchase time.Time `json:"earliestPurchase" yaml:"earliest_purchase"`
	LatestPurchase   time.Time `json:"latestPurchase" yaml:"latest_purchase"`
}

// Label is "type model", the text name-based policies sort on.
func (g TypologyGroup) Label() string {
	return g.Type + " " + g.Model
}

// BuildGroups aggregates packs into groups, in order of first appearance.
//
// A pack with shots left counts as available when it has no expiry or
// expires after now, as expiring soon when it expires within 30 days, and
// as expired otherwise. Expiring-soon packs are also available.
func BuildGroups(packs []inventory.FilmPack, now time.Time) []TypologyGroup {
	soon := now.Add(constants.ExpiringSoonDays * 24 * time.Hour)
	index := make(map[string]int)
	var groups []TypologyGroup

	for _, p := range packs {
		key := p.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TypologyGroup{
				Key:              key,
				Type:             p.Type,
				Model:            p.Model,
				EarliestPurchase: p.PurchaseDate,
				LatestPurchase:   p.PurchaseDate,
			})
		}
		g := &groups[i]

		g.TotalPacks++
		g.RemainingShots += p.Remaining
		if p.PurchaseDate.Before(g.EarliestPurchase) {
			g.EarliestPurchase = p.PurchaseDate
		}
		if p.PurchaseDate.After(g.LatestPurchase) {
			g.LatestPurchase = p.PurchaseDate
		}

		if p.Remaining == 0 {
			g.Finished++
			continue
		}
		switch {
		case p.ExpiryDate == nil:
			g.Available++
		case p.ExpiryDate.After(now):
			g.Available++
			if !p.ExpiryDate.After(soon) {
				g.ExpiringSoon++
			}
		default:
			g.Expired++
		}
	}
	return groups
}

// FindGroup builds the group with the given key.
func FindGroup(packs []inventory.FilmPack, key string, now time.Time) (TypologyGroup, bool) {
	var members []inventory.FilmPack
	for _, p := range packs {
		if p.GroupKey() == key {
			members = append(members, p)
		}
	}
	if len(members) == 0 {
		return TypologyGroup{}, false
	}
	return BuildGroups(members, now)[0], true
}
