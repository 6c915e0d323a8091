package chain

import (
	"context"
	"fmt"
	"sync"

	"loothound/internal/domain/game"
)

// Catalog resolves item metadata from the read-only on-chain catalog.
// Entries are immutable once minted, so every hit is cached for the
// process lifetime. Safe for concurrent use.
type Catalog struct {
	Client *Client

	mu    sync.Mutex
	cache map[int]game.ItemMeta
}

type itemMetaParams struct {
	ItemID int `json:"item_id"`
}

func (c *Catalog) ItemMeta(ctx context.Context, itemID int) (game.ItemMeta, error) {
	c.mu.Lock()
	if c.cache == nil {
		c.cache = map[int]game.ItemMeta{}
	}
	if meta, ok := c.cache[itemID]; ok {
		c.mu.Unlock()
		return meta, nil
	}
	c.mu.Unlock()

	var meta game.ItemMeta
	if err := c.Client.Call(ctx, "game_getItemMeta", itemMetaParams{ItemID: itemID}, &meta); err != nil {
		return game.ItemMeta{}, fmt.Errorf("item meta %d: %w", itemID, err)
	}

	c.mu.Lock()
	c.cache[itemID] = meta
	c.mu.Unlock()
	return meta, nil
}
