package ledger

import (
	"context"

	"stockcore/internal/core/id"
)

// Repository defines persistence operations for stock rows.
//
// All mutating callers are expected to hold the row lock obtained through
// GetOrCreateRowForUpdate for the duration of the enclosing transaction.
type Repository interface {
	// GetRow returns the row, or a zero-valued row when the pair has never
	// been touched by a movement.
	GetRow(ctx context.Context, warehouseID, itemID id.ID) (StockRow, error)

	// GetOrCreateRowForUpdate returns the existing row or creates one at
	// zero, locked for the rest of the transaction.
	GetOrCreateRowForUpdate(ctx context.Context, warehouseID, itemID id.ID) (StockRow, error)

	// UpdateRow persists the mutated row.
	UpdateRow(ctx context.Context, row StockRow) error

	// SumByItem re-sums quantity and reserved over all rows of the item.
	SumByItem(ctx context.Context, itemID id.ID) (ItemTotals, error)

	// ListByWarehouse returns all non-zero rows in a warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]StockRow, error)

	// ListByItem returns rows across all warehouses for an item.
	ListByItem(ctx context.Context, itemID id.ID) ([]StockRow, error)
}
