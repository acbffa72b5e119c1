package warehouse

import (
	"context"

	"stockcore/internal/core/id"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	Create(ctx context.Context, wh *Warehouse) error
	GetByID(ctx context.Context, id id.ID) (*Warehouse, error)
	GetByCode(ctx context.Context, code string) (*Warehouse, error)
	Update(ctx context.Context, wh *Warehouse) error
	List(ctx context.Context, includeDeleted bool) ([]*Warehouse, error)
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error
}
