package movement

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/sequence"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/domain/catalogs/warehouse"
	"stockcore/internal/domain/finance"
	"stockcore/internal/domain/ledger"
)

// --- fakes ---

// fakeTxManager runs the function directly; rollback semantics are covered
// by the real TxManager, not here.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMovementRepo struct {
	created []*Movement
}

func (f *fakeMovementRepo) Create(ctx context.Context, mv *Movement) error {
	f.created = append(f.created, mv)
	return nil
}

func (f *fakeMovementRepo) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	for _, mv := range f.created {
		if mv.ID == movementID {
			return mv, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID.String())
}

func (f *fakeMovementRepo) GetByCode(ctx context.Context, code string) (*Movement, error) {
	for _, mv := range f.created {
		if mv.Code == code {
			return mv, nil
		}
	}
	return nil, apperror.NewNotFound("movement", code)
}

func (f *fakeMovementRepo) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	return f.created, nil
}

type fakeItemRepo struct {
	item.Repository

	items      map[id.ID]*item.Item
	aggregates map[id.ID][3]types.Quantity
	costs      map[id.ID]types.Money
}

func newFakeItemRepo(items ...*item.Item) *fakeItemRepo {
	f := &fakeItemRepo{
		items:      make(map[id.ID]*item.Item),
		aggregates: make(map[id.ID][3]types.Quantity),
		costs:      make(map[id.ID]types.Money),
	}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if it, ok := f.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

func (f *fakeItemRepo) SetAggregates(ctx context.Context, itemID id.ID, total, reserved, available types.Quantity) error {
	f.aggregates[itemID] = [3]types.Quantity{total, reserved, available}
	return nil
}

func (f *fakeItemRepo) SetUnitCost(ctx context.Context, itemID id.ID, cost types.Money) error {
	f.costs[itemID] = cost
	return nil
}

type fakeWarehouseRepo struct {
	warehouse.Repository

	warehouses map[id.ID]*warehouse.Warehouse
}

func newFakeWarehouseRepo(whs ...*warehouse.Warehouse) *fakeWarehouseRepo {
	f := &fakeWarehouseRepo{warehouses: make(map[id.ID]*warehouse.Warehouse)}
	for _, wh := range whs {
		f.warehouses[wh.ID] = wh
	}
	return f
}

func (f *fakeWarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	if wh, ok := f.warehouses[whID]; ok {
		return wh, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

type rowKey struct {
	warehouseID id.ID
	itemID      id.ID
}

type fakeRowRepo struct {
	rows map[rowKey]ledger.StockRow
}

func newFakeRowRepo() *fakeRowRepo {
	return &fakeRowRepo{rows: make(map[rowKey]ledger.StockRow)}
}

func (f *fakeRowRepo) GetRow(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockRow, error) {
	if row, ok := f.rows[rowKey{warehouseID, itemID}]; ok {
		return row, nil
	}
	return ledger.StockRow{WarehouseID: warehouseID, ItemID: itemID}, nil
}

func (f *fakeRowRepo) GetOrCreateRowForUpdate(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockRow, error) {
	key := rowKey{warehouseID, itemID}
	if row, ok := f.rows[key]; ok {
		return row, nil
	}
	row := ledger.StockRow{WarehouseID: warehouseID, ItemID: itemID}
	f.rows[key] = row
	return row, nil
}

func (f *fakeRowRepo) UpdateRow(ctx context.Context, row ledger.StockRow) error {
	f.rows[rowKey{row.WarehouseID, row.ItemID}] = row
	return nil
}

func (f *fakeRowRepo) SumByItem(ctx context.Context, itemID id.ID) (ledger.ItemTotals, error) {
	var totals ledger.ItemTotals
	for key, row := range f.rows {
		if key.itemID == itemID {
			totals.Total += row.Quantity
			totals.Reserved += row.ReservedQuantity
		}
	}
	return totals, nil
}

func (f *fakeRowRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]ledger.StockRow, error) {
	return nil, nil
}

func (f *fakeRowRepo) ListByItem(ctx context.Context, itemID id.ID) ([]ledger.StockRow, error) {
	return nil, nil
}

// fakeGenerator issues sequential codes without a database.
type fakeGenerator struct {
	n int64
}

func (f *fakeGenerator) Next(ctx context.Context, cfg sequence.Config, at time.Time) (string, error) {
	f.n++
	return cfg.Format(at, f.n), nil
}

func (f *fakeGenerator) NextBlock(ctx context.Context, cfg sequence.Config, at time.Time, n int) ([]string, error) {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		f.n++
		codes = append(codes, cfg.Format(at, f.n))
	}
	return codes, nil
}

type fakeRecorder struct {
	calls []finance.Expense
	err   error
}

func (f *fakeRecorder) RecordExpense(ctx context.Context, exp finance.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, exp)
	return nil
}

// --- fixture ---

type fixture struct {
	svc       *Service
	movements *fakeMovementRepo
	items     *fakeItemRepo
	rows      *fakeRowRepo
	recorder  *fakeRecorder

	item *item.Item
	whA  *warehouse.Warehouse
	whB  *warehouse.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	it := item.NewItem("ITM-00001", "Copy paper A4", "pack", "USD")
	it.UnitCost = types.MustMoney("2.00")

	whA := warehouse.NewWarehouse("WH-00001", "Main", warehouse.TypeMain)
	whB := warehouse.NewWarehouse("WH-00002", "Depot", warehouse.TypeDistribution)

	movements := &fakeMovementRepo{}
	items := newFakeItemRepo(it)
	rows := newFakeRowRepo()
	recorder := &fakeRecorder{}

	svc := NewService(
		fakeTxManager{},
		movements,
		items,
		newFakeWarehouseRepo(whA, whB),
		ledger.NewService(rows, items),
		&fakeGenerator{},
		recorder,
	)

	return &fixture{
		svc:       svc,
		movements: movements,
		items:     items,
		rows:      rows,
		recorder:  recorder,
		item:      it,
		whA:       whA,
		whB:       whB,
	}
}

func (f *fixture) row(whID id.ID) ledger.StockRow {
	row, _ := f.rows.GetRow(context.Background(), whID, f.item.ID)
	return row
}

func (f *fixture) entry(t *testing.T, whID id.ID, quantity int64, unitCost string) *Movement {
	t.Helper()
	cost := types.MustMoney(unitCost)
	mv, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &whID,
		Quantity:               types.NewQuantityFromInt(quantity),
		UnitCost:               &cost,
		Reason:                 ReasonPurchase,
	})
	require.NoError(t, err)
	return mv
}

// --- tests ---

func TestProcess_Entry(t *testing.T) {
	f := newFixture(t)

	mv := f.entry(t, f.whA.ID, 10, "4.00")

	assert.Equal(t, StatusCompleted, mv.Status)
	assert.Equal(t, "USD", mv.Currency)
	assert.True(t, types.MustMoney("40").Equal(mv.TotalCost))
	assert.NotEmpty(t, mv.Code)
	require.Len(t, f.movements.created, 1)

	row := f.row(f.whA.ID)
	assert.Equal(t, types.NewQuantityFromInt(10), row.Quantity)

	agg := f.items.aggregates[f.item.ID]
	assert.Equal(t, types.NewQuantityFromInt(10), agg[0])
}

func TestProcess_EntryRecomputesAverageCost(t *testing.T) {
	f := newFixture(t)

	// First entry onto empty stock: cost snaps to the incoming cost.
	f.entry(t, f.whA.ID, 10, "2.00")
	assert.True(t, types.MustMoney("2").Equal(f.items.costs[f.item.ID]))

	// The fake item repo does not write back TotalStock, so simulate the
	// post-entry state the re-aggregation would have produced.
	f.item.TotalStock = types.NewQuantityFromInt(10)
	f.item.UnitCost = f.items.costs[f.item.ID]

	// Second entry blends: (10*2 + 10*4) / 20 = 3.
	f.entry(t, f.whA.ID, 10, "4.00")
	assert.True(t, types.MustMoney("3").Equal(f.items.costs[f.item.ID]))
}

func TestProcess_UnitCostDefaultsToItemCost(t *testing.T) {
	f := newFixture(t)

	mv, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(5),
		Reason:                 ReasonOther,
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("2.00").Equal(mv.UnitCost))
	assert.True(t, types.MustMoney("10").Equal(mv.TotalCost))
}

func TestProcess_MissingRequiredWarehouse(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		intent Intent
	}{
		{"entry without destination", Intent{Type: TypeEntry, ItemID: f.item.ID, Quantity: types.NewQuantityFromInt(1), Reason: ReasonOther}},
		{"exit without source", Intent{Type: TypeExit, ItemID: f.item.ID, Quantity: types.NewQuantityFromInt(1), Reason: ReasonOther}},
		{"transfer without source", Intent{Type: TypeTransfer, ItemID: f.item.ID, DestinationWarehouseID: &f.whB.ID, Quantity: types.NewQuantityFromInt(1), Reason: ReasonTransfer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Process(context.Background(), tt.intent)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeMissingWarehouseForType))
		})
	}

	assert.Empty(t, f.movements.created, "failed validation must not create movements")
}

func TestProcess_UnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Process(context.Background(), Intent{
		Type:     Type("TELEPORT"),
		ItemID:   f.item.ID,
		Quantity: types.NewQuantityFromInt(1),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestProcess_ExitInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.entry(t, f.whA.ID, 5, "2.00")

	_, err := f.svc.Process(context.Background(), Intent{
		Type:              TypeExit,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(6),
		Reason:            ReasonSale,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
}

func TestProcess_ExitCannotConsumeReservedStock(t *testing.T) {
	f := newFixture(t)
	f.entry(t, f.whA.ID, 100, "10.00")

	_, err := f.svc.Process(context.Background(), Intent{
		Type:              TypeReservation,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(30),
		Reason:            ReasonOther,
	})
	require.NoError(t, err)

	// Only 70 are unreserved; an exit of 80 must fail outright.
	_, err = f.svc.Process(context.Background(), Intent{
		Type:              TypeExit,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(80),
		Reason:            ReasonSale,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAvail))

	row := f.row(f.whA.ID)
	assert.Equal(t, types.NewQuantityFromInt(100), row.Quantity)
	assert.Equal(t, types.NewQuantityFromInt(30), row.ReservedQuantity)
	assert.Equal(t, types.NewQuantityFromInt(70), row.AvailableQuantity)
}

func TestProcess_Transfer(t *testing.T) {
	f := newFixture(t)
	f.entry(t, f.whA.ID, 10, "2.00")
	costBefore := f.items.costs[f.item.ID]

	_, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeTransfer,
		ItemID:                 f.item.ID,
		SourceWarehouseID:      &f.whA.ID,
		DestinationWarehouseID: &f.whB.ID,
		Quantity:               types.NewQuantityFromInt(4),
		Reason:                 ReasonTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromInt(6), f.row(f.whA.ID).Quantity)
	assert.Equal(t, types.NewQuantityFromInt(4), f.row(f.whB.ID).Quantity)

	// Transfers never touch the average cost.
	assert.True(t, costBefore.Equal(f.items.costs[f.item.ID]))

	// Total across warehouses is unchanged.
	agg := f.items.aggregates[f.item.ID]
	assert.Equal(t, types.NewQuantityFromInt(10), agg[0])
}

func TestProcess_TransferMovesQuantityNotReserved(t *testing.T) {
	f := newFixture(t)
	f.entry(t, f.whA.ID, 100, "10.00")

	_, err := f.svc.Process(context.Background(), Intent{
		Type:              TypeReservation,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(30),
		Reason:            ReasonOther,
	})
	require.NoError(t, err)

	_, err = f.svc.Process(context.Background(), Intent{
		Type:                   TypeTransfer,
		ItemID:                 f.item.ID,
		SourceWarehouseID:      &f.whA.ID,
		DestinationWarehouseID: &f.whB.ID,
		Quantity:               types.NewQuantityFromInt(20),
		Reason:                 ReasonTransfer,
	})
	require.NoError(t, err)

	rowA := f.row(f.whA.ID)
	assert.Equal(t, types.NewQuantityFromInt(80), rowA.Quantity)
	assert.Equal(t, types.NewQuantityFromInt(30), rowA.ReservedQuantity, "reservation stays at the source")
	assert.Equal(t, types.NewQuantityFromInt(50), rowA.AvailableQuantity)

	rowB := f.row(f.whB.ID)
	assert.Equal(t, types.NewQuantityFromInt(20), rowB.Quantity)
	assert.True(t, rowB.ReservedQuantity.IsZero())
}

func TestProcess_AdjustmentInDoesNotTouchCost(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeAdjustmentIn,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(3),
		Reason:                 ReasonAdjustment,
	})
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromInt(3), f.row(f.whA.ID).Quantity)
	_, touched := f.items.costs[f.item.ID]
	assert.False(t, touched, "adjustments must not recompute average cost")
}

func TestProcess_ReservationAndRelease(t *testing.T) {
	f := newFixture(t)
	f.entry(t, f.whA.ID, 10, "2.00")

	_, err := f.svc.Process(context.Background(), Intent{
		Type:              TypeReservation,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(4),
		Reason:            ReasonOther,
	})
	require.NoError(t, err)

	row := f.row(f.whA.ID)
	assert.Equal(t, types.NewQuantityFromInt(4), row.ReservedQuantity)
	assert.Equal(t, types.NewQuantityFromInt(6), row.AvailableQuantity)

	_, err = f.svc.Process(context.Background(), Intent{
		Type:              TypeRelease,
		ItemID:            f.item.ID,
		SourceWarehouseID: &f.whA.ID,
		Quantity:          types.NewQuantityFromInt(4),
		Reason:            ReasonOther,
	})
	require.NoError(t, err)

	row = f.row(f.whA.ID)
	assert.True(t, row.ReservedQuantity.IsZero())
	assert.Equal(t, types.NewQuantityFromInt(10), row.AvailableQuantity)
}

func TestProcess_InactiveDestinationRejected(t *testing.T) {
	f := newFixture(t)
	f.whB.IsActive = false

	_, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whB.ID,
		Quantity:               types.NewQuantityFromInt(1),
		Reason:                 ReasonOther,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
}

func TestProcess_PurchaseRecordsExpense(t *testing.T) {
	f := newFixture(t)
	funding := "acc-123"
	cost := types.MustMoney("4.00")

	mv, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(10),
		UnitCost:               &cost,
		Reason:                 ReasonPurchase,
		FundingAccountID:       &funding,
	})
	require.NoError(t, err)

	require.Len(t, f.recorder.calls, 1)
	exp := f.recorder.calls[0]
	assert.True(t, mv.TotalCost.Equal(exp.Amount))
	assert.Equal(t, mv.Code, exp.Reference)
	assert.Equal(t, "USD", exp.Currency)
	assert.Equal(t, funding, exp.FundingAccountID)
}

func TestProcess_NonPurchaseSkipsFinance(t *testing.T) {
	f := newFixture(t)
	funding := "acc-123"
	cost := types.MustMoney("4.00")

	// RETURN reason with a funding account still skips finance.
	_, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeReturn,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(1),
		UnitCost:               &cost,
		Reason:                 ReasonReturn,
		FundingAccountID:       &funding,
	})
	require.NoError(t, err)
	assert.Empty(t, f.recorder.calls)

	// PURCHASE without a funding account skips finance too.
	_, err = f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(1),
		UnitCost:               &cost,
		Reason:                 ReasonPurchase,
	})
	require.NoError(t, err)
	assert.Empty(t, f.recorder.calls)
}

func TestProcess_FinanceFailureAbortsMovement(t *testing.T) {
	f := newFixture(t)
	f.recorder.err = errors.New("finance unreachable")
	funding := "acc-123"
	cost := types.MustMoney("4.00")

	_, err := f.svc.Process(context.Background(), Intent{
		Type:                   TypeEntry,
		ItemID:                 f.item.ID,
		DestinationWarehouseID: &f.whA.ID,
		Quantity:               types.NewQuantityFromInt(10),
		UnitCost:               &cost,
		Reason:                 ReasonPurchase,
		FundingAccountID:       &funding,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeFinanceIntegration))
	assert.ErrorContains(t, err, "finance unreachable")
}

func TestIntent_Validate(t *testing.T) {
	whID := id.New()
	negative := types.MustMoney("-1")

	tests := []struct {
		name    string
		intent  Intent
		wantErr string
	}{
		{
			"nil item",
			Intent{Type: TypeEntry, DestinationWarehouseID: &whID, Quantity: types.NewQuantityFromInt(1)},
			apperror.CodeValidation,
		},
		{
			"zero quantity",
			Intent{Type: TypeEntry, ItemID: id.New(), DestinationWarehouseID: &whID},
			apperror.CodeValidation,
		},
		{
			"negative quantity",
			Intent{Type: TypeEntry, ItemID: id.New(), DestinationWarehouseID: &whID, Quantity: types.NewQuantityFromInt(-1)},
			apperror.CodeValidation,
		},
		{
			"negative unit cost",
			Intent{Type: TypeEntry, ItemID: id.New(), DestinationWarehouseID: &whID, Quantity: types.NewQuantityFromInt(1), UnitCost: &negative},
			apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.intent.Validate()
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestTypeSides_AllEightTypes(t *testing.T) {
	for _, mt := range []Type{
		TypeEntry, TypeExit, TypeTransfer, TypeAdjustmentIn,
		TypeAdjustmentOut, TypeReturn, TypeReservation, TypeRelease,
	} {
		assert.True(t, IsValidType(mt), fmt.Sprintf("type %s", mt))
	}
	assert.False(t, IsValidType(Type("TELEPORT")))
}

func TestRecomputesAverageCost(t *testing.T) {
	assert.True(t, TypeEntry.RecomputesAverageCost())
	assert.True(t, TypeReturn.RecomputesAverageCost())

	for _, mt := range []Type{
		TypeExit, TypeTransfer, TypeAdjustmentIn, TypeAdjustmentOut,
		TypeReservation, TypeRelease,
	} {
		assert.False(t, mt.RecomputesAverageCost(), string(mt))
	}
}
