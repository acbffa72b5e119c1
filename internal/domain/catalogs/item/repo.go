package item

import (
	"context"

	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id id.ID) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)

	// GetForUpdate retrieves the item with a row lock. Used by the movement
	// processor so aggregate and cost writes serialize per item.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)

	Update(ctx context.Context, it *Item) error
	List(ctx context.Context, includeDeleted bool) ([]*Item, error)
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// SetAggregates overwrites the denormalized stock totals.
	// Always called with freshly re-summed values, within the caller's transaction.
	SetAggregates(ctx context.Context, id id.ID, total, reserved, available types.Quantity) error

	// SetUnitCost overwrites the weighted-average unit cost.
	SetUnitCost(ctx context.Context, id id.ID, cost types.Money) error
}
