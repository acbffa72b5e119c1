package movement

import (
	"context"
	"time"

	"stockcore/internal/core/id"
)

// ListFilter narrows movement listings. Zero values mean "no filter".
type ListFilter struct {
	ItemID      *id.ID
	WarehouseID *id.ID
	Type        *Type
	Reason      *Reason
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Repository defines persistence for movement records.
// Movements are append-only; there is no Update or Delete.
type Repository interface {
	Create(ctx context.Context, mv *Movement) error
	GetByID(ctx context.Context, id id.ID) (*Movement, error)
	GetByCode(ctx context.Context, code string) (*Movement, error)
	List(ctx context.Context, filter ListFilter) ([]*Movement, error)
}
