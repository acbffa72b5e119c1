package movement

import (
	"context"
	"fmt"
	"time"

	"stockcore/internal/core/apperror"
	appctx "stockcore/internal/core/context"
	"stockcore/internal/core/id"
	"stockcore/internal/core/sequence"
	"stockcore/internal/core/tx"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
	"stockcore/internal/domain/catalogs/warehouse"
	"stockcore/internal/domain/finance"
	"stockcore/internal/domain/ledger"
	"stockcore/pkg/logger"
)

// Service is the movement processor. It is the only component allowed to
// create movements and mutate stock rows; catalog services never touch
// the ledger directly.
type Service struct {
	txm        tx.Manager
	movements  Repository
	items      item.Repository
	warehouses warehouse.Repository
	ledger     *ledger.Service
	seq        sequence.Generator
	finance    finance.Recorder
}

// NewService wires the movement processor.
func NewService(
	txm tx.Manager,
	movements Repository,
	items item.Repository,
	warehouses warehouse.Repository,
	ledgerSvc *ledger.Service,
	seq sequence.Generator,
	financeRec finance.Recorder,
) *Service {
	return &Service{
		txm:        txm,
		movements:  movements,
		items:      items,
		warehouses: warehouses,
		ledger:     ledgerSvc,
		seq:        seq,
		finance:    financeRec,
	}
}

// Process applies one movement intent.
//
// Everything happens in a single transaction: the movement record, the stock
// row mutations, the item aggregate recompute, the cost recompute, and the
// finance expense call. Any failure rolls back all of it.
func (s *Service) Process(ctx context.Context, in Intent) (*Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now().UTC()
	}

	var result *Movement

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Item lock first. This serializes all movements per item and keeps
		// the aggregate/cost writes race-free.
		it, err := s.items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}

		// Snapshot before any ledger mutation; the weighted-average rule
		// needs the pre-entry totals.
		preQty := it.TotalStock
		preCost := it.UnitCost

		if err := s.checkWarehouses(ctx, &in); err != nil {
			return err
		}

		code, err := s.seq.Next(ctx, sequence.MovementConfig(), movementDate)
		if err != nil {
			return fmt.Errorf("issue movement code: %w", err)
		}

		unitCost := it.UnitCost
		if in.UnitCost != nil {
			unitCost = *in.UnitCost
		}
		totalCost := types.QuantityDecimal(in.Quantity).Mul(unitCost)

		mv := &Movement{
			ID:                     id.New(),
			Code:                   code,
			Type:                   in.Type,
			ItemID:                 in.ItemID,
			SourceWarehouseID:      in.SourceWarehouseID,
			DestinationWarehouseID: in.DestinationWarehouseID,
			Quantity:               in.Quantity,
			UnitCost:               unitCost,
			TotalCost:              totalCost,
			Currency:               it.Currency,
			Reason:                 in.Reason,
			Status:                 StatusCompleted,
			Notes:                  in.Notes,
			CreatedBy:              appctx.ActorID(ctx),
			MovementDate:           movementDate,
			CreatedAt:              time.Now().UTC(),
		}

		if err := s.movements.Create(ctx, mv); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		if err := s.applyToLedger(ctx, mv, preQty, preCost); err != nil {
			return err
		}

		if err := s.ledger.RecomputeItemAggregates(ctx, in.ItemID); err != nil {
			return err
		}

		if err := s.recordExpense(ctx, &in, mv, it); err != nil {
			return err
		}

		result = mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement processed",
		"code", result.Code,
		"type", string(result.Type),
		"item_id", result.ItemID,
		"quantity", result.Quantity.String(),
	)

	return result, nil
}

// checkWarehouses verifies the referenced warehouses exist and that the
// destination can accept stock. Validate() already guaranteed presence of
// the sides the type requires.
func (s *Service) checkWarehouses(ctx context.Context, in *Intent) error {
	if in.SourceWarehouseID != nil {
		if _, err := s.warehouses.GetByID(ctx, *in.SourceWarehouseID); err != nil {
			return err
		}
	}

	if in.DestinationWarehouseID != nil {
		wh, err := s.warehouses.GetByID(ctx, *in.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if !wh.CanAcceptStock() {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"destination warehouse cannot accept stock",
			).WithDetail("warehouse_id", wh.ID.String())
		}
	}

	return nil
}

// applyToLedger dispatches the movement to the stock ledger by type.
func (s *Service) applyToLedger(ctx context.Context, mv *Movement, preQty types.Quantity, preCost types.Money) error {
	switch mv.Type {
	case TypeEntry, TypeReturn:
		if err := s.ledger.ApplyDelta(ctx, *mv.DestinationWarehouseID, mv.ItemID, mv.Quantity); err != nil {
			return err
		}
		if mv.UnitCost.IsPositive() {
			if _, err := s.ledger.RecomputeAverageCost(ctx, mv.ItemID, preQty, preCost, mv.Quantity, mv.UnitCost); err != nil {
				return err
			}
		}
		return nil

	case TypeExit, TypeAdjustmentOut:
		return s.ledger.ApplyDelta(ctx, *mv.SourceWarehouseID, mv.ItemID, mv.Quantity.Neg())

	case TypeTransfer:
		// Quantity and cost are unchanged by a transfer; only location moves.
		if err := s.ledger.ApplyDelta(ctx, *mv.SourceWarehouseID, mv.ItemID, mv.Quantity.Neg()); err != nil {
			return err
		}
		return s.ledger.ApplyDelta(ctx, *mv.DestinationWarehouseID, mv.ItemID, mv.Quantity)

	case TypeAdjustmentIn:
		// Adjustments never touch the average cost.
		return s.ledger.ApplyDelta(ctx, *mv.DestinationWarehouseID, mv.ItemID, mv.Quantity)

	case TypeReservation:
		return s.ledger.Reserve(ctx, *mv.SourceWarehouseID, mv.ItemID, mv.Quantity)

	case TypeRelease:
		return s.ledger.Release(ctx, *mv.SourceWarehouseID, mv.ItemID, mv.Quantity)

	default:
		return apperror.NewValidation("unknown movement type").
			WithDetail("type", string(mv.Type))
	}
}

// recordExpense makes the synchronous finance call for funded purchases.
// Failure aborts the whole movement.
func (s *Service) recordExpense(ctx context.Context, in *Intent, mv *Movement, it *item.Item) error {
	if in.Reason != ReasonPurchase || in.FundingAccountID == nil || *in.FundingAccountID == "" {
		return nil
	}

	exp := finance.Expense{
		Amount:           mv.TotalCost,
		Currency:         mv.Currency,
		Description:      fmt.Sprintf("Purchase of %s x %s", it.Name, mv.Quantity.String()),
		Reference:        mv.Code,
		FundingAccountID: *in.FundingAccountID,
		Date:             mv.MovementDate,
	}

	if err := s.finance.RecordExpense(ctx, exp); err != nil {
		return apperror.NewFinanceIntegration(mv.Code, err)
	}

	return nil
}

// GetByID returns a single movement.
func (s *Service) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	return s.movements.GetByID(ctx, movementID)
}

// GetByCode returns a single movement by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Movement, error) {
	return s.movements.GetByCode(ctx, code)
}

// List returns movements matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	return s.movements.List(ctx, filter)
}
