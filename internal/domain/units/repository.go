package units

import (
	"context"

	"stockcore/internal/core/id"
)

// Repository defines persistence for units.
type Repository interface {
	// CreateBatch inserts all units in one round trip.
	CreateBatch(ctx context.Context, us []*Unit) error

	GetByID(ctx context.Context, id id.ID) (*Unit, error)

	// GetForUpdate retrieves the unit with a row lock so concurrent
	// transitions on the same unit serialize.
	GetForUpdate(ctx context.Context, id id.ID) (*Unit, error)

	GetByCode(ctx context.Context, code string) (*Unit, error)
	Update(ctx context.Context, u *Unit) error
	ListByProduct(ctx context.Context, productID id.ID) ([]*Unit, error)
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Unit, error)

	// SerialExists checks serial uniqueness over all units, soft-deleted
	// included.
	SerialExists(ctx context.Context, serial string) (bool, error)

	// CountByStatus counts non-deleted units of the product per status.
	CountByStatus(ctx context.Context, productID id.ID) (map[Status]int, error)
}

// HistoryRepository persists the append-only transition log.
// There are deliberately no update or delete operations.
type HistoryRepository interface {
	Append(ctx context.Context, e *HistoryEntry) error
	AppendBatch(ctx context.Context, es []*HistoryEntry) error
	ListByUnit(ctx context.Context, unitID id.ID) ([]*HistoryEntry, error)
}

// HolderDirectory resolves assignment targets against the HR and project
// subsystems. Read-only; this core never writes their tables.
type HolderDirectory interface {
	EmployeeExists(ctx context.Context, employeeID id.ID) (bool, error)
	ProjectExists(ctx context.Context, projectID id.ID) (bool, error)
}
