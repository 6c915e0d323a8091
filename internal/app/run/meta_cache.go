package run

import (
	"context"

	"loothound/internal/app/ports"
	"loothound/internal/domain/game"
)

// metaCache pre-resolves every item id visible in a snapshot so the
// decision engine can stay pure. Catalog entries are immutable once
// minted, so the cache lives for the process.
type metaCache struct {
	catalog ports.ItemCatalog
	entries map[int]game.ItemMeta
}

func newMetaCache(catalog ports.ItemCatalog) *metaCache {
	return &metaCache{catalog: catalog, entries: map[int]game.ItemMeta{}}
}

func (c *metaCache) Meta(itemID int) (game.ItemMeta, bool) {
	meta, ok := c.entries[itemID]
	return meta, ok
}

func (c *metaCache) warm(ctx context.Context, state game.DerivedState) {
	ids := make([]int, 0, len(state.BagItems)+len(state.Market)+len(game.AllSlots))
	for _, slot := range game.AllSlots {
		if item := state.Equipment.ForSlot(slot); !item.IsEmpty() {
			ids = append(ids, item.ID)
		}
	}
	for _, item := range state.BagItems {
		ids = append(ids, item.ID)
	}
	ids = append(ids, state.Market...)

	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := c.entries[id]; ok {
			continue
		}
		meta, err := c.catalog.ItemMeta(ctx, id)
		if err != nil {
			// Missing metadata downgrades the item to unknown; the engine
			// skips candidates it cannot score.
			continue
		}
		c.entries[id] = meta
	}
}
