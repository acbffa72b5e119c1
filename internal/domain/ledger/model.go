// Package ledger provides the stock ledger engine: per-(warehouse, item)
// quantity rows, item aggregates, and weighted-average cost.
package ledger

import (
	"time"

	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
)

// StockRow is one ledger row per (warehouse, item) pair.
// Created lazily on the first movement touching that pair.
//
// Invariant after every committed operation:
// 0 <= ReservedQuantity <= Quantity and
// AvailableQuantity = Quantity - ReservedQuantity.
type StockRow struct {
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID `db:"item_id" json:"itemId"`

	Quantity          types.Quantity `db:"quantity" json:"quantity"`
	ReservedQuantity  types.Quantity `db:"reserved_quantity" json:"reservedQuantity"`
	AvailableQuantity types.Quantity `db:"available_quantity" json:"availableQuantity"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// recompute derives AvailableQuantity from the other two fields.
func (r *StockRow) recompute() {
	r.AvailableQuantity = r.Quantity - r.ReservedQuantity
	r.UpdatedAt = time.Now().UTC()
}

// ItemTotals is the result of re-summing all rows for one item.
type ItemTotals struct {
	Total    types.Quantity `db:"total"`
	Reserved types.Quantity `db:"reserved"`
}

// Available derives the available aggregate.
func (t ItemTotals) Available() types.Quantity {
	return t.Total - t.Reserved
}
