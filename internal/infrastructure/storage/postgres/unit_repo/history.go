package unit_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockcore/internal/core/id"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/storage/postgres"
)

const unitHistoryTable = "inv_unit_history"

// Compile-time check.
var _ units.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implements units.HistoryRepository.
// Entries are append-only; there are no UPDATE or DELETE statements here.
type HistoryRepo struct {
	txm        *postgres.TxManager
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewHistoryRepo creates a new unit history repository.
func NewHistoryRepo(txm *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{
		txm:        txm,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[units.HistoryEntry](),
	}
}

// Append inserts a single history entry.
func (r *HistoryRepo) Append(ctx context.Context, e *units.HistoryEntry) error {
	data := postgres.StructToMap(e)

	q := r.builder.
		Insert(unitHistoryTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	return nil
}

// AppendBatch inserts many entries via COPY in one round trip.
// Requires the caller's transaction.
func (r *HistoryRepo) AppendBatch(ctx context.Context, es []*units.HistoryEntry) error {
	if len(es) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(es))
	for _, e := range es {
		data := postgres.StructToMap(e)
		row := make([]any, 0, len(r.selectCols))
		for _, col := range r.selectCols {
			row = append(row, data[col])
		}
		rows = append(rows, row)
	}

	inserter := postgres.NewBatchInserter(r.txm)
	if _, err := inserter.CopyFromSlice(ctx, unitHistoryTable, r.selectCols, rows); err != nil {
		return fmt.Errorf("copy history entries: %w", err)
	}

	return nil
}

// ListByUnit returns the unit's transition log, oldest first.
func (r *HistoryRepo) ListByUnit(ctx context.Context, unitID id.ID) ([]*units.HistoryEntry, error) {
	q := r.builder.
		Select(r.selectCols...).
		From(unitHistoryTable).
		Where(squirrel.Eq{"unit_id": unitID}).
		OrderBy("event_date ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*units.HistoryEntry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return entries, nil
}
