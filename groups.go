package instantbox

import (
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Compile-time interface check to ensure proper implementation.
var _ Groups = (*client)(nil)

// Groups provides the typology view: packs grouped by type and model.
type Groups interface {
	// Groups returns the typology groups ordered by policy
	Groups(policy ordering.Policy) []ordering.TypologyGroup
	// Group returns one group and its packs in detail order
	Group(key string) (ordering.TypologyGroup, []inventory.FilmPack, bool)
}

// Groups returns the typology groups ordered by policy.
func (c *client) Groups(policy ordering.Policy) []ordering.TypologyGroup {
	return c.order.Groups(c.store.FilmPacks(), policy)
}

// Group returns one group and its packs in detail order.
func (c *client) Group(key string) (ordering.TypologyGroup, []inventory.FilmPack, bool) {
	packs := c.store.FilmPacks()
	g, ok := ordering.FindGroup(packs, key, c.now())
	if !ok {
		return ordering.TypologyGroup{}, nil, false
	}
	return g, c.order.Detail(packs, key), true
}
