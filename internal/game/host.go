package game

import "context"

type Currency string

const (
	CurrencyDiamond Currency = "diamond"
)

// Item is an entry of the host's underground item catalog.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"itemName"`
}

// Host is the running game the automation drives. Nothing here is owned by
// the automation, every call reaches the live game state.
type Host interface {
	UndergroundAccessible(ctx context.Context) (bool, error)
	// InventoryLoaded is false until the player save has been loaded by the host.
	InventoryLoaded(ctx context.Context) (bool, error)
	UndergroundItem(ctx context.Context, name string) (Item, bool, error)
	ItemQuantity(ctx context.Context, name string) (int, error)
	Sell(ctx context.Context, itm Item, quantity int) error
	Currency(ctx context.Context, c Currency) (int, error)
}
