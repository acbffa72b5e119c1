// Package movement provides the movement processor: the only writer of
// Movement records, applying one of eight movement intents against the
// stock ledger inside a single atomic transaction.
package movement

import (
	"time"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
)

// Type enumerates the eight movement intents.
type Type string

const (
	TypeEntry         Type = "ENTRY"
	TypeExit          Type = "EXIT"
	TypeTransfer      Type = "TRANSFER"
	TypeAdjustmentIn  Type = "ADJUSTMENT_IN"
	TypeAdjustmentOut Type = "ADJUSTMENT_OUT"
	TypeReturn        Type = "RETURN"
	TypeReservation   Type = "RESERVATION"
	TypeRelease       Type = "RELEASE"
)

// Reason classifies why a movement happened.
type Reason string

const (
	ReasonPurchase   Reason = "PURCHASE"
	ReasonSale       Reason = "SALE"
	ReasonAdjustment Reason = "ADJUSTMENT"
	ReasonReturn     Reason = "RETURN"
	ReasonTransfer   Reason = "TRANSFER"
	ReasonOther      Reason = "OTHER"
)

// Status of a movement record. Movements are immutable; the status exists
// for the wire shape and is always completed once committed.
type Status string

const (
	StatusCompleted Status = "completed"
)

// sides describes which warehouse references a movement type requires.
type sides struct {
	source      bool
	destination bool
}

var typeSides = map[Type]sides{
	TypeEntry:         {destination: true},
	TypeExit:          {source: true},
	TypeTransfer:      {source: true, destination: true},
	TypeAdjustmentIn:  {destination: true},
	TypeAdjustmentOut: {source: true},
	TypeReturn:        {destination: true},
	TypeReservation:   {source: true},
	TypeRelease:       {source: true},
}

// IsValidType reports whether t is one of the eight movement types.
func IsValidType(t Type) bool {
	_, ok := typeSides[t]
	return ok
}

// RecomputesAverageCost reports whether the type triggers a weighted-average
// cost recompute (ENTRY and RETURN only; adjustments never do).
func (t Type) RecomputesAverageCost() bool {
	return t == TypeEntry || t == TypeReturn
}

// Movement is the immutable record of one ledger mutation.
// Never mutated after creation; corrections are new opposing movements.
type Movement struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`

	Type   Type  `db:"type" json:"type"`
	ItemID id.ID `db:"item_id" json:"itemId"`

	SourceWarehouseID      *id.ID `db:"source_warehouse_id" json:"sourceWarehouseId,omitempty"`
	DestinationWarehouseID *id.ID `db:"destination_warehouse_id" json:"destinationWarehouseId,omitempty"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitCost  types.Money    `db:"unit_cost" json:"unitCost"`
	TotalCost types.Money    `db:"total_cost" json:"totalCost"`
	Currency  string         `db:"currency" json:"currency"`

	Reason Reason `db:"reason" json:"reason"`
	Status Status `db:"status" json:"status"`

	Notes *string `db:"notes" json:"notes,omitempty"`

	CreatedBy    string    `db:"created_by" json:"createdBy"`
	MovementDate time.Time `db:"movement_date" json:"movementDate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Intent is a request to process one movement.
type Intent struct {
	Type   Type
	ItemID id.ID

	SourceWarehouseID      *id.ID
	DestinationWarehouseID *id.ID

	Quantity types.Quantity

	// UnitCost, when nil, defaults to the item's current average cost.
	UnitCost *types.Money

	Reason Reason

	// FundingAccountID triggers the synchronous finance expense recording
	// for PURCHASE-reason movements. Not persisted on the movement itself.
	FundingAccountID *string

	// MovementDate defaults to now when zero.
	MovementDate time.Time

	Notes *string
}

// Validate checks intent preconditions that need no database access.
// A missing required warehouse is a precondition failure; the movement is
// never attempted partially.
func (in *Intent) Validate() error {
	req, ok := typeSides[in.Type]
	if !ok {
		return apperror.NewValidation("unknown movement type").
			WithDetail("type", string(in.Type))
	}

	if id.IsNil(in.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}

	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", in.Quantity.String())
	}

	if req.source && (in.SourceWarehouseID == nil || id.IsNil(*in.SourceWarehouseID)) {
		return apperror.NewMissingWarehouseForType(string(in.Type), "source")
	}

	if req.destination && (in.DestinationWarehouseID == nil || id.IsNil(*in.DestinationWarehouseID)) {
		return apperror.NewMissingWarehouseForType(string(in.Type), "destination")
	}

	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("unitCost", in.UnitCost.String())
	}

	return nil
}
