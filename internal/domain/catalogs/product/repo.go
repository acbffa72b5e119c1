package product

import (
	"context"

	"stockcore/internal/core/id"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id id.ID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	List(ctx context.Context, includeDeleted bool) ([]*Product, error)
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// SetRollup overwrites the derived unit counters.
	// Always called with freshly re-aggregated values, within the caller's transaction.
	SetRollup(ctx context.Context, id id.ID, rollup Rollup) error
}
