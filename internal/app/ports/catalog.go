package ports

import (
	"context"

	"loothound/internal/domain/game"
)

// ItemCatalog resolves immutable item metadata. Entries never change once
// minted, so implementations are expected to cache for process lifetime.
type ItemCatalog interface {
	ItemMeta(ctx context.Context, itemID int) (game.ItemMeta, error)
}
