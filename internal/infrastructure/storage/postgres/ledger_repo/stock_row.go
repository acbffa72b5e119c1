// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/ledger"
	"stockcore/internal/infrastructure/storage/postgres"
)

const stockRowsTable = "inv_stock_rows"

// Compile-time check.
var _ ledger.Repository = (*StockRowRepo)(nil)

// StockRowRepo implements ledger.Repository.
type StockRowRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRowRepo creates a new stock row repository.
func NewStockRowRepo(txm *postgres.TxManager) *StockRowRepo {
	return &StockRowRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetRow returns the row, zero-valued when the pair has never been touched.
func (r *StockRowRepo) GetRow(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockRow, error) {
	var row ledger.StockRow

	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "reserved_quantity", "available_quantity", "updated_at",
	).From(stockRowsTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"item_id":      itemID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return row, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.StockRow{
				WarehouseID: warehouseID,
				ItemID:      itemID,
			}, nil
		}
		return row, fmt.Errorf("get stock row: %w", err)
	}

	return row, nil
}

// GetOrCreateRowForUpdate returns the existing row or creates one at zero,
// locked for the rest of the transaction.
//
// The insert races with concurrent transactions on the same pair, so it is
// ON CONFLICT DO NOTHING followed by a locked select: whichever transaction
// wins the insert, both end up blocking on the same row lock.
func (r *StockRowRepo) GetOrCreateRowForUpdate(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockRow, error) {
	var row ledger.StockRow

	insertSQL := `
		INSERT INTO inv_stock_rows (warehouse_id, item_id, quantity, reserved_quantity, available_quantity, updated_at)
		VALUES ($1, $2, 0, 0, 0, NOW())
		ON CONFLICT (warehouse_id, item_id) DO NOTHING
	`

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, insertSQL, warehouseID, itemID); err != nil {
		return row, fmt.Errorf("ensure stock row: %w", err)
	}

	selectSQL := `
		SELECT warehouse_id, item_id, quantity, reserved_quantity, available_quantity, updated_at
		FROM inv_stock_rows
		WHERE warehouse_id = $1 AND item_id = $2
		FOR UPDATE
	`

	if err := pgxscan.Get(ctx, querier, &row, selectSQL, warehouseID, itemID); err != nil {
		return row, fmt.Errorf("lock stock row: %w", err)
	}

	return row, nil
}

// UpdateRow persists the mutated row.
func (r *StockRowRepo) UpdateRow(ctx context.Context, row ledger.StockRow) error {
	q := r.builder.Update(stockRowsTable).
		Set("quantity", row.Quantity).
		Set("reserved_quantity", row.ReservedQuantity).
		Set("available_quantity", row.AvailableQuantity).
		Set("updated_at", row.UpdatedAt).
		Where(squirrel.Eq{
			"warehouse_id": row.WarehouseID,
			"item_id":      row.ItemID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock row: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("stock row (%s, %s) vanished during update", row.WarehouseID, row.ItemID)
	}

	return nil
}

// SumByItem re-sums quantity and reserved over all rows of the item.
func (r *StockRowRepo) SumByItem(ctx context.Context, itemID id.ID) (ledger.ItemTotals, error) {
	sql := `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(reserved_quantity), 0)
		FROM inv_stock_rows
		WHERE item_id = $1
	`

	var totals ledger.ItemTotals
	var totalScaled, reservedScaled int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID).Scan(&totalScaled, &reservedScaled)
	if err != nil && err != pgx.ErrNoRows {
		return totals, fmt.Errorf("sum stock rows: %w", err)
	}

	totals.Total = types.NewQuantityFromInt64Scaled(totalScaled)
	totals.Reserved = types.NewQuantityFromInt64Scaled(reservedScaled)

	return totals, nil
}

// ListByWarehouse returns all non-zero rows in a warehouse.
func (r *StockRowRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]ledger.StockRow, error) {
	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "reserved_quantity", "available_quantity", "updated_at",
	).From(stockRowsTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.StockRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock rows: %w", err)
	}

	return rows, nil
}

// ListByItem returns rows across all warehouses for an item.
func (r *StockRowRepo) ListByItem(ctx context.Context, itemID id.ID) ([]ledger.StockRow, error) {
	q := r.builder.Select(
		"warehouse_id", "item_id",
		"quantity", "reserved_quantity", "available_quantity", "updated_at",
	).From(stockRowsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.StockRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock rows: %w", err)
	}

	return rows, nil
}
