package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
)

// --- fakes ---

type rowKey struct {
	warehouseID id.ID
	itemID      id.ID
}

type fakeRowRepo struct {
	rows map[rowKey]StockRow
}

func newFakeRowRepo() *fakeRowRepo {
	return &fakeRowRepo{rows: make(map[rowKey]StockRow)}
}

func (f *fakeRowRepo) GetRow(ctx context.Context, warehouseID, itemID id.ID) (StockRow, error) {
	key := rowKey{warehouseID, itemID}
	if row, ok := f.rows[key]; ok {
		return row, nil
	}
	return StockRow{WarehouseID: warehouseID, ItemID: itemID}, nil
}

func (f *fakeRowRepo) GetOrCreateRowForUpdate(ctx context.Context, warehouseID, itemID id.ID) (StockRow, error) {
	key := rowKey{warehouseID, itemID}
	if row, ok := f.rows[key]; ok {
		return row, nil
	}
	row := StockRow{WarehouseID: warehouseID, ItemID: itemID, UpdatedAt: time.Now().UTC()}
	f.rows[key] = row
	return row, nil
}

func (f *fakeRowRepo) UpdateRow(ctx context.Context, row StockRow) error {
	f.rows[rowKey{row.WarehouseID, row.ItemID}] = row
	return nil
}

func (f *fakeRowRepo) SumByItem(ctx context.Context, itemID id.ID) (ItemTotals, error) {
	var totals ItemTotals
	for key, row := range f.rows {
		if key.itemID == itemID {
			totals.Total += row.Quantity
			totals.Reserved += row.ReservedQuantity
		}
	}
	return totals, nil
}

func (f *fakeRowRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]StockRow, error) {
	var out []StockRow
	for key, row := range f.rows {
		if key.warehouseID == warehouseID && !row.Quantity.IsZero() {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRowRepo) ListByItem(ctx context.Context, itemID id.ID) ([]StockRow, error) {
	var out []StockRow
	for key, row := range f.rows {
		if key.itemID == itemID {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeItemRepo records the aggregate and cost writes the ledger makes.
type fakeItemRepo struct {
	item.Repository

	aggregates map[id.ID][3]types.Quantity
	costs      map[id.ID]types.Money
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		aggregates: make(map[id.ID][3]types.Quantity),
		costs:      make(map[id.ID]types.Money),
	}
}

func (f *fakeItemRepo) SetAggregates(ctx context.Context, itemID id.ID, total, reserved, available types.Quantity) error {
	f.aggregates[itemID] = [3]types.Quantity{total, reserved, available}
	return nil
}

func (f *fakeItemRepo) SetUnitCost(ctx context.Context, itemID id.ID, cost types.Money) error {
	f.costs[itemID] = cost
	return nil
}

// --- tests ---

func qty(v int64) types.Quantity { return types.NewQuantityFromInt(v) }

func TestApplyDelta_CreatesRowLazily(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()

	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(10)))

	row, err := svc.GetRow(ctx, whID, itemID)
	require.NoError(t, err)
	assert.Equal(t, qty(10), row.Quantity)
	assert.Equal(t, qty(0), row.ReservedQuantity)
	assert.Equal(t, qty(10), row.AvailableQuantity)
}

func TestApplyDelta_RejectsNegativeResult(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(5)))

	err := svc.ApplyDelta(ctx, whID, itemID, qty(6).Neg())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	// Row is untouched on failure.
	row, _ := svc.GetRow(ctx, whID, itemID)
	assert.Equal(t, qty(5), row.Quantity)
}

func TestApplyDelta_RejectsBelowReserved(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(10)))
	require.NoError(t, svc.Reserve(ctx, whID, itemID, qty(4)))

	// Only the unreserved 6 are removable.
	err := svc.ApplyDelta(ctx, whID, itemID, qty(7).Neg())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvail))

	row, _ := svc.GetRow(ctx, whID, itemID)
	assert.Equal(t, qty(10), row.Quantity)
	assert.Equal(t, qty(4), row.ReservedQuantity)

	// Removing exactly the unreserved part leaves availability at zero.
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(6).Neg()))
	row, _ = svc.GetRow(ctx, whID, itemID)
	assert.Equal(t, qty(4), row.Quantity)
	assert.Equal(t, qty(4), row.ReservedQuantity)
	assert.True(t, row.AvailableQuantity.IsZero())
}

func TestApplyDelta_RoundTripToZero(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(7)))
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(7).Neg()))

	row, _ := svc.GetRow(ctx, whID, itemID)
	assert.True(t, row.Quantity.IsZero())
	assert.True(t, row.AvailableQuantity.IsZero())
}

func TestReserve_MovesAvailableToReserved(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(10)))
	require.NoError(t, svc.Reserve(ctx, whID, itemID, qty(4)))

	row, _ := svc.GetRow(ctx, whID, itemID)
	assert.Equal(t, qty(10), row.Quantity)
	assert.Equal(t, qty(4), row.ReservedQuantity)
	assert.Equal(t, qty(6), row.AvailableQuantity)
}

func TestReserve_RejectsOverAvailability(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(10)))
	require.NoError(t, svc.Reserve(ctx, whID, itemID, qty(8)))

	// Only 2 left available even though quantity is 10.
	err := svc.Reserve(ctx, whID, itemID, qty(3))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvail))
}

func TestRelease_ClampsAtZero(t *testing.T) {
	rows := newFakeRowRepo()
	svc := NewService(rows, newFakeItemRepo())
	ctx := context.Background()

	whID, itemID := id.New(), id.New()
	require.NoError(t, svc.ApplyDelta(ctx, whID, itemID, qty(10)))
	require.NoError(t, svc.Reserve(ctx, whID, itemID, qty(3)))

	// Releasing more than reserved succeeds and clamps.
	require.NoError(t, svc.Release(ctx, whID, itemID, qty(5)))

	row, _ := svc.GetRow(ctx, whID, itemID)
	assert.True(t, row.ReservedQuantity.IsZero())
	assert.Equal(t, qty(10), row.AvailableQuantity)
}

func TestRecomputeItemAggregates_SumsAcrossWarehouses(t *testing.T) {
	rows := newFakeRowRepo()
	items := newFakeItemRepo()
	svc := NewService(rows, items)
	ctx := context.Background()

	itemID := id.New()
	whA, whB := id.New(), id.New()

	require.NoError(t, svc.ApplyDelta(ctx, whA, itemID, qty(10)))
	require.NoError(t, svc.ApplyDelta(ctx, whB, itemID, qty(5)))
	require.NoError(t, svc.Reserve(ctx, whA, itemID, qty(2)))

	require.NoError(t, svc.RecomputeItemAggregates(ctx, itemID))

	agg := items.aggregates[itemID]
	assert.Equal(t, qty(15), agg[0], "total")
	assert.Equal(t, qty(2), agg[1], "reserved")
	assert.Equal(t, qty(13), agg[2], "available")
}

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name         string
		existingQty  types.Quantity
		existingCost string
		incomingQty  types.Quantity
		incomingCost string
		want         string
	}{
		{
			name:        "zero existing stock takes incoming cost",
			existingQty: qty(0), existingCost: "99.00",
			incomingQty: qty(10), incomingCost: "4.00",
			want: "4",
		},
		{
			name:        "negative existing stock takes incoming cost",
			existingQty: qty(5).Neg(), existingCost: "2.00",
			incomingQty: qty(10), incomingCost: "4.00",
			want: "4",
		},
		{
			name:        "weighted blend",
			existingQty: qty(10), existingCost: "2.00",
			incomingQty: qty(10), incomingCost: "4.00",
			want: "3",
		},
		{
			name:        "uneven weights",
			existingQty: qty(30), existingCost: "1.00",
			incomingQty: qty(10), incomingCost: "5.00",
			want: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(
				tt.existingQty, types.MustMoney(tt.existingCost),
				tt.incomingQty, types.MustMoney(tt.incomingCost),
			)
			assert.True(t, types.MustMoney(tt.want).Equal(got),
				"want %s, got %s", tt.want, got.String())
		})
	}
}

func TestRecomputeAverageCost_PersistsOnItem(t *testing.T) {
	items := newFakeItemRepo()
	svc := NewService(newFakeRowRepo(), items)
	ctx := context.Background()

	itemID := id.New()
	newCost, err := svc.RecomputeAverageCost(ctx, itemID,
		qty(10), types.MustMoney("2.00"),
		qty(10), types.MustMoney("4.00"),
	)
	require.NoError(t, err)
	assert.True(t, types.MustMoney("3").Equal(newCost))
	assert.True(t, types.MustMoney("3").Equal(items.costs[itemID]))
}
