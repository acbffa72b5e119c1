// Package product provides the Product catalog: parents of serialized or
// lot-tracked units, carrying derived rollup counters over their units.
package product

import (
	"context"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/entity"
)

// Product represents the parent of individually tracked units.
type Product struct {
	entity.Catalog

	// Category is a free-form grouping (tools, vehicles, it-equipment)
	Category string `db:"category" json:"category"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`

	Rollup
}

// Rollup holds the six derived unit counters. They are overwritten by full
// re-aggregation over the product's units after every unit mutation.
type Rollup struct {
	TotalUnits     int `db:"total_units" json:"totalUnits"`
	AvailableUnits int `db:"available_units" json:"availableUnits"`
	AssignedUnits  int `db:"assigned_units" json:"assignedUnits"`
	InTransitUnits int `db:"in_transit_units" json:"inTransitUnits"`
	DamagedUnits   int `db:"damaged_units" json:"damagedUnits"`
	RetiredUnits   int `db:"retired_units" json:"retiredUnits"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, category string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Category: category,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Code == "" {
		// Product codes prefix unit codes, so unlike other catalogs the
		// code cannot be deferred to save time.
		return apperror.NewValidation("product code is required").
			WithDetail("field", "code")
	}

	return nil
}
