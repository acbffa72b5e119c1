// Package item provides the Item catalog: bulk, non-serialized stock-keeping
// units tracked by aggregate quantity.
package item

import (
	"context"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/entity"
	"stockcore/internal/core/types"
)

// Status defines the administrative state of an item.
type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDiscontinued Status = "discontinued"
)

// Item represents a bulk stock-keeping unit.
//
// TotalStock, ReservedStock and AvailableStock are denormalized aggregates
// over the item's stock rows. They are overwritten by full re-aggregation
// inside every transaction that mutates a row, never patched incrementally.
type Item struct {
	entity.Catalog

	// UnitOfMeasure is the counting unit (pcs, kg, m)
	UnitOfMeasure string `db:"unit_of_measure" json:"unitOfMeasure"`

	// Currency tags all cost values on this item
	Currency string `db:"currency" json:"currency"`

	// UnitCost is the weighted-average unit cost, recalculated on each
	// qualifying inbound movement
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// Aggregates over stock rows. Invariant:
	// AvailableStock = TotalStock - ReservedStock
	TotalStock     types.Quantity `db:"total_stock" json:"totalStock"`
	ReservedStock  types.Quantity `db:"reserved_stock" json:"reservedStock"`
	AvailableStock types.Quantity `db:"available_stock" json:"availableStock"`

	// Replenishment thresholds
	MinStock     types.Quantity `db:"min_stock" json:"minStock"`
	MaxStock     types.Quantity `db:"max_stock" json:"maxStock"`
	ReorderPoint types.Quantity `db:"reorder_point" json:"reorderPoint"`

	Status Status `db:"status" json:"status"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name, unitOfMeasure, currency string) *Item {
	return &Item{
		Catalog:       entity.NewCatalog(code, name),
		UnitOfMeasure: unitOfMeasure,
		Currency:      currency,
		UnitCost:      types.ZeroMoney(),
		Status:        StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.UnitOfMeasure == "" {
		return apperror.NewValidation("unit of measure is required").
			WithDetail("field", "unitOfMeasure")
	}

	if i.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	switch i.Status {
	case StatusActive, StatusInactive, StatusDiscontinued:
	default:
		return apperror.NewValidation("invalid item status").
			WithDetail("field", "status").
			WithDetail("value", string(i.Status))
	}

	return nil
}

// BelowReorderPoint reports whether available stock has dropped to the
// reorder threshold.
func (i *Item) BelowReorderPoint() bool {
	return i.ReorderPoint.IsPositive() && i.AvailableStock <= i.ReorderPoint
}
