package dto

import (
	"time"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/id"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/movement"
)

// --- Request DTOs ---

// ProcessMovementRequest is the request body for processing a movement.
type ProcessMovementRequest struct {
	Type                   movement.Type   `json:"type" binding:"required"`
	ItemID                 string          `json:"itemId" binding:"required"`
	SourceWarehouseID      *string         `json:"sourceWarehouseId"`
	DestinationWarehouseID *string         `json:"destinationWarehouseId"`
	Quantity               types.Quantity  `json:"quantity" binding:"required"`
	UnitCost               *string         `json:"unitCost"`
	Reason                 movement.Reason `json:"reason" binding:"required"`
	FundingAccountID       *string         `json:"fundingAccountId"`
	MovementDate           *time.Time      `json:"movementDate"`
	Notes                  *string         `json:"notes"`
}

// ToIntent converts the request to a movement intent.
func (r *ProcessMovementRequest) ToIntent() (movement.Intent, error) {
	var in movement.Intent

	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return in, apperror.NewValidation("invalid itemId format").
			WithDetail("itemId", r.ItemID)
	}

	source, err := ParseIDPtr(r.SourceWarehouseID)
	if err != nil {
		return in, apperror.NewValidation("invalid sourceWarehouseId format")
	}

	dest, err := ParseIDPtr(r.DestinationWarehouseID)
	if err != nil {
		return in, apperror.NewValidation("invalid destinationWarehouseId format")
	}

	var unitCost *types.Money
	if r.UnitCost != nil && *r.UnitCost != "" {
		cost, err := types.NewMoneyFromString(*r.UnitCost)
		if err != nil {
			return in, apperror.NewValidation("invalid unitCost format").
				WithDetail("unitCost", *r.UnitCost)
		}
		unitCost = &cost
	}

	in = movement.Intent{
		Type:                   r.Type,
		ItemID:                 itemID,
		SourceWarehouseID:      source,
		DestinationWarehouseID: dest,
		Quantity:               r.Quantity,
		UnitCost:               unitCost,
		Reason:                 r.Reason,
		FundingAccountID:       r.FundingAccountID,
		Notes:                  r.Notes,
	}
	if r.MovementDate != nil {
		in.MovementDate = *r.MovementDate
	}

	return in, nil
}

// --- Response DTOs ---

// MovementResponse is the response body for a movement.
type MovementResponse struct {
	ID                     string          `json:"id"`
	Code                   string          `json:"code"`
	Type                   movement.Type   `json:"type"`
	ItemID                 string          `json:"itemId"`
	SourceWarehouseID      *string         `json:"sourceWarehouseId,omitempty"`
	DestinationWarehouseID *string         `json:"destinationWarehouseId,omitempty"`
	Quantity               types.Quantity  `json:"quantity"`
	UnitCost               string          `json:"unitCost"`
	TotalCost              string          `json:"totalCost"`
	Currency               string          `json:"currency"`
	Reason                 movement.Reason `json:"reason"`
	Status                 movement.Status `json:"status"`
	Notes                  *string         `json:"notes,omitempty"`
	CreatedBy              string          `json:"createdBy"`
	MovementDate           time.Time       `json:"movementDate"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// FromMovement converts domain entity to response DTO.
func FromMovement(mv *movement.Movement) MovementResponse {
	return MovementResponse{
		ID:                     mv.ID.String(),
		Code:                   mv.Code,
		Type:                   mv.Type,
		ItemID:                 mv.ItemID.String(),
		SourceWarehouseID:      IDPtr(mv.SourceWarehouseID),
		DestinationWarehouseID: IDPtr(mv.DestinationWarehouseID),
		Quantity:               mv.Quantity,
		UnitCost:               mv.UnitCost.String(),
		TotalCost:              mv.TotalCost.String(),
		Currency:               mv.Currency,
		Reason:                 mv.Reason,
		Status:                 mv.Status,
		Notes:                  mv.Notes,
		CreatedBy:              mv.CreatedBy,
		MovementDate:           mv.MovementDate,
		CreatedAt:              mv.CreatedAt,
	}
}
