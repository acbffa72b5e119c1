package units

import (
	"context"
	"fmt"
	"time"

	"stockcore/internal/core/apperror"
	appctx "stockcore/internal/core/context"
	"stockcore/internal/core/entity"
	"stockcore/internal/core/id"
	"stockcore/internal/core/sequence"
	"stockcore/internal/core/tx"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/product"
	"stockcore/internal/domain/catalogs/warehouse"
	"stockcore/pkg/logger"
)

// CreateIntent is a request to create a batch of units for one product.
type CreateIntent struct {
	ProductID id.ID

	// WarehouseID, when nil, creates the units IN_TRANSIT.
	WarehouseID *id.ID

	Quantity int

	// Serials, when present, must have exactly Quantity entries.
	Serials []string

	LotNumber *string
	Condition Condition

	AcquisitionCost types.Money
	AcquisitionDate time.Time

	ExpiryDate    *time.Time
	WarrantyUntil *time.Time
	Notes         *string
}

// Validate checks intent preconditions that need no database access.
func (in *CreateIntent) Validate() error {
	if id.IsNil(in.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}

	if in.Quantity < 1 {
		return apperror.NewValidation("quantity must be at least 1").
			WithDetail("quantity", in.Quantity)
	}

	if len(in.Serials) > 0 && len(in.Serials) != in.Quantity {
		return apperror.NewValidation("serial count must match quantity").
			WithDetail("quantity", in.Quantity).
			WithDetail("serials", len(in.Serials))
	}

	// Serial uniqueness against persisted units is checked in the transaction;
	// repeats inside the batch itself are caught here.
	seen := make(map[string]struct{}, len(in.Serials))
	for _, serial := range in.Serials {
		if _, dup := seen[serial]; dup {
			return apperror.NewDuplicateSerial(serial)
		}
		seen[serial] = struct{}{}
	}

	if in.Condition != "" && !IsValidCondition(in.Condition) {
		return apperror.NewValidation("invalid condition").
			WithDetail("condition", string(in.Condition))
	}

	return nil
}

// Service is the unit lifecycle tracker.
type Service struct {
	txm        tx.Manager
	units      Repository
	history    HistoryRepository
	products   product.Repository
	warehouses warehouse.Repository
	holders    HolderDirectory
	seq        sequence.Generator
}

// NewService wires the unit lifecycle tracker.
func NewService(
	txm tx.Manager,
	units Repository,
	history HistoryRepository,
	products product.Repository,
	warehouses warehouse.Repository,
	holders HolderDirectory,
	seq sequence.Generator,
) *Service {
	return &Service{
		txm:        txm,
		units:      units,
		history:    history,
		products:   products,
		warehouses: warehouses,
		holders:    holders,
		seq:        seq,
	}
}

// CreateUnits creates a batch of units with sequential codes.
//
// Codes are reserved as one contiguous block so two concurrent batches for
// the same product prefix never interleave. Any serial collision rolls back
// the whole batch.
func (s *Service) CreateUnits(ctx context.Context, in CreateIntent) ([]*Unit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	condition := in.Condition
	if condition == "" {
		condition = ConditionNew
	}

	acquisitionDate := in.AcquisitionDate
	if acquisitionDate.IsZero() {
		acquisitionDate = time.Now().UTC()
	}

	var created []*Unit

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		prod, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}

		if in.WarehouseID != nil {
			if _, err := s.warehouses.GetByID(ctx, *in.WarehouseID); err != nil {
				return err
			}
		}

		for _, serial := range in.Serials {
			taken, err := s.units.SerialExists(ctx, serial)
			if err != nil {
				return fmt.Errorf("check serial: %w", err)
			}
			if taken {
				return apperror.NewDuplicateSerial(serial)
			}
		}

		codes, err := s.seq.NextBlock(ctx, sequence.UnitConfig(prod.Code), acquisitionDate, in.Quantity)
		if err != nil {
			return fmt.Errorf("reserve code block: %w", err)
		}

		status := StatusInTransit
		if in.WarehouseID != nil {
			status = StatusAvailable
		}

		actor := appctx.ActorID(ctx)
		now := time.Now().UTC()

		units := make([]*Unit, 0, in.Quantity)
		entries := make([]*HistoryEntry, 0, in.Quantity)
		for i := 0; i < in.Quantity; i++ {
			u := &Unit{
				BaseEntity:      entity.NewBaseEntity(),
				Code:            codes[i],
				ProductID:       in.ProductID,
				LotNumber:       in.LotNumber,
				Status:          status,
				Condition:       condition,
				WarehouseID:     in.WarehouseID,
				ExpiryDate:      in.ExpiryDate,
				WarrantyUntil:   in.WarrantyUntil,
				AcquisitionCost: in.AcquisitionCost,
				AcquisitionDate: acquisitionDate,
				Notes:           in.Notes,
			}
			if len(in.Serials) > 0 {
				serial := in.Serials[i]
				u.SerialNumber = &serial
			}
			units = append(units, u)

			toStatus := status
			toCondition := condition
			entries = append(entries, &HistoryEntry{
				ID:            id.New(),
				UnitID:        u.ID,
				EventType:     EventCreated,
				EventDate:     now,
				ToWarehouseID: in.WarehouseID,
				ToStatus:      &toStatus,
				ToCondition:   &toCondition,
				PerformedBy:   actor,
			})
		}

		if err := s.units.CreateBatch(ctx, units); err != nil {
			return fmt.Errorf("create units: %w", err)
		}
		if err := s.history.AppendBatch(ctx, entries); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if err := s.recomputeRollup(ctx, in.ProductID); err != nil {
			return err
		}

		created = units
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "units created",
		"product_id", in.ProductID,
		"count", len(created),
		"first_code", created[0].Code,
	)

	return created, nil
}

// Transfer moves a unit to another warehouse. Legal only from
// AVAILABLE or RETURNED; the unit comes out AVAILABLE.
func (s *Service) Transfer(ctx context.Context, unitID, destWarehouseID id.ID) (*Unit, error) {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.units.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}

		if !u.Status.CanTransfer() {
			return apperror.NewInvalidStateTransition(
				u.ID.String(), string(u.Status), string(StatusAvailable),
			)
		}

		wh, err := s.warehouses.GetByID(ctx, destWarehouseID)
		if err != nil {
			return err
		}
		if !wh.CanAcceptStock() {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"destination warehouse cannot accept stock",
			).WithDetail("warehouse_id", wh.ID.String())
		}

		entry := s.baseEntry(u, EventTransferred)
		entry.ToWarehouseID = &destWarehouseID

		u.clearLocation()
		u.WarehouseID = &destWarehouseID
		u.Status = StatusAvailable
		u.Touch()

		toStatus := u.Status
		entry.ToStatus = &toStatus

		return s.commitTransition(ctx, u, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.units.GetByID(ctx, unitID)
}

// Assign hands a unit to an employee or a project. Exactly one of the two
// must be given and must exist. The warehouse reference is cleared: an
// assigned unit is not represented in any stock row.
func (s *Service) Assign(ctx context.Context, unitID id.ID, employeeID, projectID *id.ID) (*Unit, error) {
	if (employeeID == nil) == (projectID == nil) {
		return nil, apperror.NewValidation("exactly one of employee or project must be given").
			WithDetail("field", "assignee")
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.units.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}

		if !u.Status.CanTransfer() {
			return apperror.NewInvalidStateTransition(
				u.ID.String(), string(u.Status), string(StatusAssigned),
			)
		}

		if employeeID != nil {
			ok, err := s.holders.EmployeeExists(ctx, *employeeID)
			if err != nil {
				return fmt.Errorf("resolve employee: %w", err)
			}
			if !ok {
				return apperror.NewNotFound("employee", employeeID.String())
			}
		}
		if projectID != nil {
			ok, err := s.holders.ProjectExists(ctx, *projectID)
			if err != nil {
				return fmt.Errorf("resolve project: %w", err)
			}
			if !ok {
				return apperror.NewNotFound("project", projectID.String())
			}
		}

		entry := s.baseEntry(u, EventAssigned)

		now := time.Now().UTC()
		u.clearLocation()
		u.AssignedEmployeeID = employeeID
		u.AssignedProjectID = projectID
		u.AssignedAt = &now
		u.Status = StatusAssigned
		u.Touch()

		toStatus := u.Status
		entry.ToStatus = &toStatus
		entry.ToHolder = u.Holder()

		return s.commitTransition(ctx, u, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.units.GetByID(ctx, unitID)
}

// Return takes a unit back from its holder into a warehouse. Legal only
// from ASSIGNED or IN_USE; the resulting status depends on the reported
// condition.
func (s *Service) Return(ctx context.Context, unitID, destWarehouseID id.ID, condition Condition) (*Unit, error) {
	if !IsValidCondition(condition) {
		return nil, apperror.NewValidation("invalid condition").
			WithDetail("condition", string(condition))
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.units.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}

		if !u.Status.CanReturn() {
			return apperror.NewInvalidStateTransition(
				u.ID.String(), string(u.Status), string(StatusReturned),
			)
		}

		if _, err := s.warehouses.GetByID(ctx, destWarehouseID); err != nil {
			return err
		}

		entry := s.baseEntry(u, EventReturned)
		entry.ToWarehouseID = &destWarehouseID

		u.clearLocation()
		u.WarehouseID = &destWarehouseID
		u.AssignedAt = nil
		u.Status = StatusForReturnCondition(condition)
		u.Condition = condition
		u.Touch()

		toStatus := u.Status
		toCondition := u.Condition
		entry.ToStatus = &toStatus
		entry.ToCondition = &toCondition

		return s.commitTransition(ctx, u, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.units.GetByID(ctx, unitID)
}

// ChangeStatus performs a generic transition: maintenance start and stop,
// damage, loss, repair, retirement. The history event type is inferred from
// the transition itself. RETIRED additionally stamps the retirement fields.
func (s *Service) ChangeStatus(ctx context.Context, unitID id.ID, newStatus Status, condition *Condition, reason *string) (*Unit, error) {
	if !IsValidStatus(newStatus) {
		return nil, apperror.NewValidation("invalid status").
			WithDetail("status", string(newStatus))
	}
	if condition != nil && !IsValidCondition(*condition) {
		return nil, apperror.NewValidation("invalid condition").
			WithDetail("condition", string(*condition))
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.units.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}

		if u.Status.IsTerminal() {
			return apperror.NewInvalidStateTransition(
				u.ID.String(), string(u.Status), string(newStatus),
			)
		}

		// AVAILABLE/ASSIGNED/IN_USE need a warehouse or a holder; a floating
		// unit (IN_TRANSIT) enters them through Transfer or Assign, which
		// supply one, never through a bare status change.
		if newStatus.RequiresLocation() && u.WarehouseID == nil && u.Holder() == nil {
			return apperror.NewInvalidStateTransition(
				u.ID.String(), string(u.Status), string(newStatus),
			).WithDetail("missing", "location")
		}

		eventType := InferEventType(u.Status, newStatus, condition)
		entry := s.baseEntry(u, eventType)
		entry.Reason = reason

		u.Status = newStatus
		if condition != nil {
			u.Condition = *condition
		}

		if newStatus == StatusRetired {
			now := time.Now().UTC()
			actor := appctx.ActorID(ctx)
			u.RetiredAt = &now
			u.RetiredBy = &actor
			u.RetiredReason = reason
		}
		u.Touch()

		toStatus := u.Status
		toCondition := u.Condition
		entry.ToStatus = &toStatus
		entry.ToCondition = &toCondition
		entry.ToWarehouseID = u.WarehouseID
		entry.ToHolder = u.Holder()

		return s.commitTransition(ctx, u, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.units.GetByID(ctx, unitID)
}

// baseEntry snapshots the unit's pre-transition side of a history entry.
func (s *Service) baseEntry(u *Unit, eventType EventType) *HistoryEntry {
	fromStatus := u.Status
	fromCondition := u.Condition
	return &HistoryEntry{
		ID:              id.New(),
		UnitID:          u.ID,
		EventType:       eventType,
		EventDate:       time.Now().UTC(),
		FromWarehouseID: u.WarehouseID,
		FromStatus:      &fromStatus,
		FromCondition:   &fromCondition,
		FromHolder:      u.Holder(),
	}
}

// commitTransition persists the mutated unit, appends the history entry,
// and recomputes the product rollup, all inside the caller's transaction.
func (s *Service) commitTransition(ctx context.Context, u *Unit, entry *HistoryEntry) error {
	entry.PerformedBy = appctx.ActorID(ctx)

	if err := s.units.Update(ctx, u); err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return s.recomputeRollup(ctx, u.ProductID)
}

// recomputeRollup re-counts all non-deleted units of the product and
// overwrites the six counters. Always a full re-aggregation.
//
// Counter mapping: assignedUnits covers ASSIGNED and IN_USE, retiredUnits
// covers RETIRED and LOST; MAINTENANCE, RETURNED and RESERVED count only
// toward the total.
func (s *Service) recomputeRollup(ctx context.Context, productID id.ID) error {
	counts, err := s.units.CountByStatus(ctx, productID)
	if err != nil {
		return fmt.Errorf("count units: %w", err)
	}

	var r product.Rollup
	for status, n := range counts {
		r.TotalUnits += n
		switch status {
		case StatusAvailable:
			r.AvailableUnits += n
		case StatusAssigned, StatusInUse:
			r.AssignedUnits += n
		case StatusInTransit:
			r.InTransitUnits += n
		case StatusDamaged:
			r.DamagedUnits += n
		case StatusRetired, StatusLost:
			r.RetiredUnits += n
		}
	}

	if err := s.products.SetRollup(ctx, productID, r); err != nil {
		return fmt.Errorf("set product rollup: %w", err)
	}

	return nil
}

// GetByID returns a single unit.
func (s *Service) GetByID(ctx context.Context, unitID id.ID) (*Unit, error) {
	return s.units.GetByID(ctx, unitID)
}

// GetByCode returns a single unit by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Unit, error) {
	return s.units.GetByCode(ctx, code)
}

// History returns the unit's transition log, oldest first.
func (s *Service) History(ctx context.Context, unitID id.ID) ([]*HistoryEntry, error) {
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		return nil, err
	}
	return s.history.ListByUnit(ctx, unitID)
}

// ListByProduct returns all non-deleted units of a product.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID) ([]*Unit, error) {
	return s.units.ListByProduct(ctx, productID)
}

// ListByWarehouse returns units currently stored in a warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Unit, error) {
	return s.units.ListByWarehouse(ctx, warehouseID)
}
