package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/domain/catalogs/product"
	"stockcore/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// SetRollup overwrites the derived unit counters. Like item aggregates,
// the version column stays untouched on derived writes.
func (r *ProductRepo) SetRollup(ctx context.Context, productID id.ID, rollup product.Rollup) error {
	q := r.Builder().
		Update(productTable).
		Set("total_units", rollup.TotalUnits).
		Set("available_units", rollup.AvailableUnits).
		Set("assigned_units", rollup.AssignedUnits).
		Set("in_transit_units", rollup.InTransitUnits).
		Set("damaged_units", rollup.DamagedUnits).
		Set("retired_units", rollup.RetiredUnits).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set rollup: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set rollup: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productTable, productID.String())
	}

	return nil
}
