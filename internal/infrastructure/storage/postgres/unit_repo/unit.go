// Package unit_repo provides PostgreSQL implementations for the unit
// lifecycle repositories.
package unit_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/storage/postgres"
)

const unitsTable = "inv_units"

// Compile-time check.
var _ units.Repository = (*UnitRepo)(nil)

// UnitRepo implements units.Repository.
type UnitRepo struct {
	txm        *postgres.TxManager
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txm *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		txm:        txm,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[units.Unit](),
	}
}

// CreateBatch inserts all units via COPY in one round trip.
// Requires the caller's transaction; batch creation is all-or-nothing.
func (r *UnitRepo) CreateBatch(ctx context.Context, us []*units.Unit) error {
	if len(us) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(us))
	for _, u := range us {
		data := postgres.StructToMap(u)
		row := make([]any, 0, len(r.selectCols))
		for _, col := range r.selectCols {
			row = append(row, data[col])
		}
		rows = append(rows, row)
	}

	inserter := postgres.NewBatchInserter(r.txm)
	if _, err := inserter.CopyFromSlice(ctx, unitsTable, r.selectCols, rows); err != nil {
		return fmt.Errorf("copy units: %w", err)
	}

	return nil
}

// GetByID retrieves a unit by ID.
func (r *UnitRepo) GetByID(ctx context.Context, unitID id.ID) (*units.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": unitID}).
		Limit(1)

	return r.getOne(ctx, q, unitID.String())
}

// GetForUpdate retrieves a unit with a row lock.
func (r *UnitRepo) GetForUpdate(ctx context.Context, unitID id.ID) (*units.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": unitID}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, q, unitID.String())
}

// GetByCode retrieves a unit by its code.
func (r *UnitRepo) GetByCode(ctx context.Context, code string) (*units.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.getOne(ctx, q, code)
}

// Update persists a mutated unit with optimistic locking.
func (r *UnitRepo) Update(ctx context.Context, u *units.Unit) error {
	data := postgres.StructToMap(u)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("unit has no version field")
	}

	filtered := make(map[string]any, len(data))
	for col, val := range data {
		if col == "id" || col == "version" {
			continue
		}
		filtered[col] = val
	}

	q := r.builder.
		Update(unitsTable).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": u.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(unitsTable, u.ID.String())
	}

	return nil
}

// ListByProduct returns all non-deleted units of a product.
func (r *UnitRepo) ListByProduct(ctx context.Context, productID id.ID) ([]*units.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code")

	return r.list(ctx, q)
}

// ListByWarehouse returns units currently stored in a warehouse.
func (r *UnitRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*units.Unit, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code")

	return r.list(ctx, q)
}

// SerialExists checks serial uniqueness over all units, soft-deleted
// included: a serial consumed by a marked unit stays consumed.
func (r *UnitRepo) SerialExists(ctx context.Context, serial string) (bool, error) {
	sql := `SELECT 1 FROM inv_units WHERE serial_number = $1 LIMIT 1`

	var exists int
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, serial).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check serial: %w", err)
	}

	return true, nil
}

// CountByStatus counts non-deleted units of the product per status.
func (r *UnitRepo) CountByStatus(ctx context.Context, productID id.ID) (map[units.Status]int, error) {
	sql := `
		SELECT status, COUNT(*)
		FROM inv_units
		WHERE product_id = $1 AND deletion_mark = false
		GROUP BY status
	`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, productID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[units.Status]int)
	for rows.Next() {
		var status units.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	return counts, nil
}

func (r *UnitRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(r.selectCols...).
		From(unitsTable)
}

func (r *UnitRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*units.Unit, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	u := &units.Unit{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(unitsTable, key)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}

	return u, nil
}

func (r *UnitRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*units.Unit, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var us []*units.Unit
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &us, sql, args...); err != nil {
		return nil, fmt.Errorf("select units: %w", err)
	}

	return us, nil
}
