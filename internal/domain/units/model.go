// Package units provides the unit lifecycle tracker: serialized or
// lot-tracked physical instances of a product, moved through an explicit
// state machine with an append-only history.
package units

import (
	"fmt"
	"time"

	"stockcore/internal/core/entity"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
)

// Status is the lifecycle state of a unit.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusAssigned    Status = "ASSIGNED"
	StatusInTransit   Status = "IN_TRANSIT"
	StatusInUse       Status = "IN_USE"
	StatusMaintenance Status = "MAINTENANCE"
	StatusDamaged     Status = "DAMAGED"
	StatusLost        Status = "LOST"
	StatusRetired     Status = "RETIRED"
	StatusReturned    Status = "RETURNED"
	StatusReserved    Status = "RESERVED"
)

var allStatuses = map[Status]struct{}{
	StatusAvailable: {}, StatusAssigned: {}, StatusInTransit: {},
	StatusInUse: {}, StatusMaintenance: {}, StatusDamaged: {},
	StatusLost: {}, StatusRetired: {}, StatusReturned: {},
	StatusReserved: {},
}

// IsValidStatus reports whether s is a known lifecycle state.
func IsValidStatus(s Status) bool {
	_, ok := allStatuses[s]
	return ok
}

// IsTerminal reports whether the state admits no further transitions.
// RETIRED and LOST are hard-terminal.
func (s Status) IsTerminal() bool {
	return s == StatusRetired || s == StatusLost
}

// Condition is the physical condition of a unit.
type Condition string

const (
	ConditionNew      Condition = "NEW"
	ConditionGood     Condition = "GOOD"
	ConditionFair     Condition = "FAIR"
	ConditionPoor     Condition = "POOR"
	ConditionDamaged  Condition = "DAMAGED"
	ConditionUnusable Condition = "UNUSABLE"
)

// IsValidCondition reports whether c is a known condition.
func IsValidCondition(c Condition) bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor,
		ConditionDamaged, ConditionUnusable:
		return true
	}
	return false
}

// EventType classifies a history entry.
type EventType string

const (
	EventCreated          EventType = "CREATED"
	EventTransferred      EventType = "TRANSFERRED"
	EventAssigned         EventType = "ASSIGNED"
	EventReturned         EventType = "RETURNED"
	EventMaintenanceStart EventType = "MAINTENANCE_START"
	EventMaintenanceEnd   EventType = "MAINTENANCE_END"
	EventDamaged          EventType = "DAMAGED"
	EventRepaired         EventType = "REPAIRED"
	EventLost             EventType = "LOST"
	EventRetired          EventType = "RETIRED"
	EventStatusChanged    EventType = "STATUS_CHANGED"
)

// transferSources are the states a transfer or assignment may start from.
var transferSources = map[Status]struct{}{
	StatusAvailable: {},
	StatusReturned:  {},
}

// CanTransfer reports whether a transfer or assignment is legal from s.
func (s Status) CanTransfer() bool {
	_, ok := transferSources[s]
	return ok
}

// CanReturn reports whether a return is legal from s.
func (s Status) CanReturn() bool {
	return s == StatusAssigned || s == StatusInUse
}

// RequiresLocation reports whether the state demands a location reference
// (warehouse or holder). Only units outside these states may float with none.
func (s Status) RequiresLocation() bool {
	return s == StatusAvailable || s == StatusAssigned || s == StatusInUse
}

// StatusForReturnCondition derives the post-return state from the reported
// condition: damaged goods go straight to DAMAGED, poor condition parks the
// unit in RETURNED pending inspection, anything better is back on the shelf.
func StatusForReturnCondition(c Condition) Status {
	switch c {
	case ConditionDamaged, ConditionUnusable:
		return StatusDamaged
	case ConditionPoor:
		return StatusReturned
	default:
		return StatusAvailable
	}
}

// InferEventType classifies a generic status change for the history record.
// A damage-grade condition reported with the change makes the event DAMAGED
// unless the target state carries its own event (LOST, RETIRED).
func InferEventType(from, to Status, condition *Condition) EventType {
	reportedDamage := condition != nil &&
		(*condition == ConditionDamaged || *condition == ConditionUnusable)

	switch {
	case to == StatusLost:
		return EventLost
	case to == StatusRetired:
		return EventRetired
	case reportedDamage || to == StatusDamaged:
		return EventDamaged
	case to == StatusMaintenance:
		return EventMaintenanceStart
	case from == StatusMaintenance && to == StatusAvailable:
		return EventMaintenanceEnd
	case from == StatusDamaged && to == StatusAvailable:
		return EventRepaired
	default:
		return EventStatusChanged
	}
}

// Unit is one serialized or lot-tracked instance of a product.
//
// Location invariant: exactly one of WarehouseID, AssignedEmployeeID,
// AssignedProjectID is set while the unit is AVAILABLE/ASSIGNED/IN_USE
// (see Status.RequiresLocation); all three may be empty while IN_TRANSIT.
// Every transition clears the fields it vacates before setting the new one.
type Unit struct {
	entity.BaseEntity

	Code      string `db:"code" json:"code"`
	ProductID id.ID  `db:"product_id" json:"productId"`

	// SerialNumber is globally unique when present, soft-deleted units
	// included
	SerialNumber *string `db:"serial_number" json:"serialNumber,omitempty"`
	LotNumber    *string `db:"lot_number" json:"lotNumber,omitempty"`

	Status    Status    `db:"status" json:"status"`
	Condition Condition `db:"condition" json:"condition"`

	WarehouseID        *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`
	AssignedEmployeeID *id.ID `db:"assigned_employee_id" json:"assignedEmployeeId,omitempty"`
	AssignedProjectID  *id.ID `db:"assigned_project_id" json:"assignedProjectId,omitempty"`

	AssignedAt *time.Time `db:"assigned_at" json:"assignedAt,omitempty"`

	ExpiryDate    *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	WarrantyUntil *time.Time `db:"warranty_until" json:"warrantyUntil,omitempty"`

	AcquisitionCost types.Money `db:"acquisition_cost" json:"acquisitionCost"`
	AcquisitionDate time.Time   `db:"acquisition_date" json:"acquisitionDate"`

	RetiredAt     *time.Time `db:"retired_at" json:"retiredAt,omitempty"`
	RetiredBy     *string    `db:"retired_by" json:"retiredBy,omitempty"`
	RetiredReason *string    `db:"retired_reason" json:"retiredReason,omitempty"`

	Notes *string `db:"notes" json:"notes,omitempty"`
}

// clearLocation empties all three location references. Callers set exactly
// one of them (or none, for IN_TRANSIT) right after.
func (u *Unit) clearLocation() {
	u.WarehouseID = nil
	u.AssignedEmployeeID = nil
	u.AssignedProjectID = nil
}

// Holder renders the current holder for history records, empty when the
// unit sits in a warehouse or in transit.
func (u *Unit) Holder() *string {
	switch {
	case u.AssignedEmployeeID != nil:
		s := fmt.Sprintf("employee:%s", u.AssignedEmployeeID.String())
		return &s
	case u.AssignedProjectID != nil:
		s := fmt.Sprintf("project:%s", u.AssignedProjectID.String())
		return &s
	}
	return nil
}

// HistoryEntry is one append-only record of a unit transition.
// Never updated or deleted; corrections are new entries.
type HistoryEntry struct {
	ID     id.ID `db:"id" json:"id"`
	UnitID id.ID `db:"unit_id" json:"unitId"`

	EventType EventType `db:"event_type" json:"eventType"`
	EventDate time.Time `db:"event_date" json:"eventDate"`

	FromWarehouseID *id.ID `db:"from_warehouse_id" json:"fromWarehouseId,omitempty"`
	ToWarehouseID   *id.ID `db:"to_warehouse_id" json:"toWarehouseId,omitempty"`

	FromStatus *Status `db:"from_status" json:"fromStatus,omitempty"`
	ToStatus   *Status `db:"to_status" json:"toStatus,omitempty"`

	FromCondition *Condition `db:"from_condition" json:"fromCondition,omitempty"`
	ToCondition   *Condition `db:"to_condition" json:"toCondition,omitempty"`

	FromHolder *string `db:"from_holder" json:"fromHolder,omitempty"`
	ToHolder   *string `db:"to_holder" json:"toHolder,omitempty"`

	PerformedBy string  `db:"performed_by" json:"performedBy"`
	Reason      *string `db:"reason" json:"reason,omitempty"`
	Notes       *string `db:"notes" json:"notes,omitempty"`
}
