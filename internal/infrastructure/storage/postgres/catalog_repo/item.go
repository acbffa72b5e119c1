package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// Compile-time check.
var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			txm,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// SetAggregates overwrites the denormalized stock totals.
// The version column is not bumped: aggregate refreshes are derived writes,
// not administrative edits, and must not invalidate concurrent form saves.
func (r *ItemRepo) SetAggregates(ctx context.Context, itemID id.ID, total, reserved, available types.Quantity) error {
	q := r.Builder().
		Update(itemTable).
		Set("total_stock", total).
		Set("reserved_stock", reserved).
		Set("available_stock", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set aggregates: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set aggregates: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(itemTable, itemID.String())
	}

	return nil
}

// SetUnitCost overwrites the weighted-average unit cost.
func (r *ItemRepo) SetUnitCost(ctx context.Context, itemID id.ID, cost types.Money) error {
	q := r.Builder().
		Update(itemTable).
		Set("unit_cost", cost).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set unit cost: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set unit cost: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(itemTable, itemID.String())
	}

	return nil
}
