// Package movement_repo provides the PostgreSQL implementation of the
// movement repository. Movements are append-only; this package deliberately
// has no update or delete statements.
package movement_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/domain/movement"
	"stockcore/internal/infrastructure/storage/postgres"
)

const movementsTable = "inv_movements"

// Compile-time check.
var _ movement.Repository = (*MovementRepo)(nil)

// MovementRepo implements movement.Repository.
type MovementRepo struct {
	txm        *postgres.TxManager
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:        txm,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[movement.Movement](),
	}
}

// Create inserts a movement record.
func (r *MovementRepo) Create(ctx context.Context, mv *movement.Movement) error {
	data := postgres.StructToMap(mv)

	q := r.builder.
		Insert(movementsTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// GetByID retrieves a movement by ID.
func (r *MovementRepo) GetByID(ctx context.Context, movementID id.ID) (*movement.Movement, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	return r.getOne(ctx, q, movementID.String())
}

// GetByCode retrieves a movement by its code.
func (r *MovementRepo) GetByCode(ctx context.Context, code string) (*movement.Movement, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	return r.getOne(ctx, q, code)
}

// List retrieves movements matching the filter, newest first.
func (r *MovementRepo) List(ctx context.Context, filter movement.ListFilter) ([]*movement.Movement, error) {
	q := r.baseSelect()

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"source_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"destination_warehouse_id": *filter.WarehouseID},
		})
	}

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}

	if filter.Reason != nil {
		q = q.Where(squirrel.Eq{"reason": *filter.Reason})
	}

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"movement_date": *filter.From})
	}

	if filter.To != nil {
		q = q.Where(squirrel.Lt{"movement_date": *filter.To})
	}

	q = q.OrderBy("movement_date DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []*movement.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

func (r *MovementRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(r.selectCols...).
		From(movementsTable)
}

func (r *MovementRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*movement.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	mv := &movement.Movement{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), mv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(movementsTable, key)
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}

	return mv, nil
}
