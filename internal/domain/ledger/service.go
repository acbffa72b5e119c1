package ledger

import (
	"context"
	"fmt"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
	"stockcore/pkg/logger"
)

// Service provides the ledger operations. Transactions are managed by the
// caller (the movement processor); every method here assumes it runs inside
// one and takes the row lock itself.
type Service struct {
	rows  Repository
	items item.Repository
}

// NewService creates a new stock ledger service.
func NewService(rows Repository, items item.Repository) *Service {
	return &Service{
		rows:  rows,
		items: items,
	}
}

// ApplyDelta adjusts the row quantity by delta (positive or negative).
// Fails with INSUFFICIENT_STOCK if the result would be negative, and with
// INSUFFICIENT_AVAILABILITY if it would dip below the reserved quantity:
// only the unreserved part of a row is removable.
func (s *Service) ApplyDelta(ctx context.Context, warehouseID, itemID id.ID, delta types.Quantity) error {
	row, err := s.rows.GetOrCreateRowForUpdate(ctx, warehouseID, itemID)
	if err != nil {
		return fmt.Errorf("lock stock row: %w", err)
	}

	next := row.Quantity + delta
	if next.IsNegative() {
		return apperror.NewInsufficientStock(
			itemID.String(), warehouseID.String(),
			delta.Abs().Float64(), row.Quantity.Float64(),
		)
	}
	if next < row.ReservedQuantity {
		return apperror.NewInsufficientAvailability(
			itemID.String(), warehouseID.String(),
			delta.Abs().Float64(), (row.Quantity - row.ReservedQuantity).Float64(),
		)
	}

	row.Quantity = next
	row.recompute()

	if err := s.rows.UpdateRow(ctx, row); err != nil {
		return fmt.Errorf("update stock row: %w", err)
	}

	return nil
}

// Reserve moves qty from available to reserved.
// Fails with INSUFFICIENT_AVAILABILITY when availableQuantity < qty.
func (s *Service) Reserve(ctx context.Context, warehouseID, itemID id.ID, qty types.Quantity) error {
	row, err := s.rows.GetOrCreateRowForUpdate(ctx, warehouseID, itemID)
	if err != nil {
		return fmt.Errorf("lock stock row: %w", err)
	}

	if row.AvailableQuantity < qty {
		return apperror.NewInsufficientAvailability(
			itemID.String(), warehouseID.String(),
			qty.Float64(), row.AvailableQuantity.Float64(),
		)
	}

	row.ReservedQuantity += qty
	row.recompute()

	if err := s.rows.UpdateRow(ctx, row); err != nil {
		return fmt.Errorf("update stock row: %w", err)
	}

	return nil
}

// Release moves up to qty from reserved back to available.
// Reserved is clamped at zero, never negative. Releases are not idempotent
// against duplicate submission; the caller must avoid resubmission.
func (s *Service) Release(ctx context.Context, warehouseID, itemID id.ID, qty types.Quantity) error {
	row, err := s.rows.GetOrCreateRowForUpdate(ctx, warehouseID, itemID)
	if err != nil {
		return fmt.Errorf("lock stock row: %w", err)
	}

	released := qty
	if released > row.ReservedQuantity {
		released = row.ReservedQuantity
		logger.Warn(ctx, "release clamped to reserved quantity",
			"item_id", itemID,
			"warehouse_id", warehouseID,
			"requested", qty.String(),
			"released", released.String(),
		)
	}

	row.ReservedQuantity -= released
	row.recompute()

	if err := s.rows.UpdateRow(ctx, row); err != nil {
		return fmt.Errorf("update stock row: %w", err)
	}

	return nil
}

// RecomputeItemAggregates re-sums all rows for the item and overwrites
// totalStock/reservedStock/availableStock. Always a full recomputation,
// never an incremental patch, to avoid drift. Must run inside the same
// transaction as the row mutation it follows.
func (s *Service) RecomputeItemAggregates(ctx context.Context, itemID id.ID) error {
	totals, err := s.rows.SumByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("sum stock rows: %w", err)
	}

	if err := s.items.SetAggregates(ctx, itemID, totals.Total, totals.Reserved, totals.Available()); err != nil {
		return fmt.Errorf("set item aggregates: %w", err)
	}

	return nil
}

// RecomputeAverageCost applies the weighted-average rule and persists the
// new cost on the item. existingQty/existingCost are the item's stock and
// cost BEFORE the incoming entry.
//
//	existing <= 0:  newCost = incomingUnitCost
//	otherwise:      newCost = (existingQty*existingCost + incomingQty*incomingUnitCost)
//	                          / (existingQty + incomingQty)
//
// Triggered only by ENTRY/RETURN movements with a positive unit cost.
func (s *Service) RecomputeAverageCost(
	ctx context.Context,
	itemID id.ID,
	existingQty types.Quantity,
	existingCost types.Money,
	incomingQty types.Quantity,
	incomingUnitCost types.Money,
) (types.Money, error) {
	newCost := WeightedAverageCost(existingQty, existingCost, incomingQty, incomingUnitCost)

	if err := s.items.SetUnitCost(ctx, itemID, newCost); err != nil {
		return types.ZeroMoney(), fmt.Errorf("set unit cost: %w", err)
	}

	return newCost, nil
}

// WeightedAverageCost computes the new average cost without persisting it.
func WeightedAverageCost(
	existingQty types.Quantity,
	existingCost types.Money,
	incomingQty types.Quantity,
	incomingUnitCost types.Money,
) types.Money {
	if !existingQty.IsPositive() {
		return incomingUnitCost
	}

	existing := types.QuantityDecimal(existingQty)
	incoming := types.QuantityDecimal(incomingQty)

	totalValue := existing.Mul(existingCost).Add(incoming.Mul(incomingUnitCost))
	totalQty := existing.Add(incoming)

	return totalValue.DivRound(totalQty, 6)
}

// GetRow returns the current row for a (warehouse, item) pair, zero-valued
// when the pair has never been touched.
func (s *Service) GetRow(ctx context.Context, warehouseID, itemID id.ID) (StockRow, error) {
	return s.rows.GetRow(ctx, warehouseID, itemID)
}

// GetWarehouseStock returns all non-zero rows in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]StockRow, error) {
	return s.rows.ListByWarehouse(ctx, warehouseID)
}

// GetItemStock returns rows across all warehouses for an item.
func (s *Service) GetItemStock(ctx context.Context, itemID id.ID) ([]StockRow, error) {
	return s.rows.ListByItem(ctx, itemID)
}
