package dto

import (
	"time"

	"stockcore/internal/core/apperror"
	"stockcore/internal/core/types"
	"stockcore/internal/domain/units"
)

// --- Request DTOs ---

// CreateUnitsRequest is the request body for batch unit creation.
type CreateUnitsRequest struct {
	ProductID       string          `json:"productId" binding:"required"`
	WarehouseID     *string         `json:"warehouseId"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	Serials         []string        `json:"serials"`
	LotNumber       *string         `json:"lotNumber"`
	Condition       units.Condition `json:"condition"`
	AcquisitionCost *string         `json:"acquisitionCost"`
	AcquisitionDate *time.Time      `json:"acquisitionDate"`
	ExpiryDate      *time.Time      `json:"expiryDate"`
	WarrantyUntil   *time.Time      `json:"warrantyUntil"`
	Notes           *string         `json:"notes"`
}

// ToIntent converts the request to a create intent.
func (r *CreateUnitsRequest) ToIntent() (units.CreateIntent, error) {
	var in units.CreateIntent

	productID, err := ParseIDPtr(&r.ProductID)
	if err != nil || productID == nil {
		return in, apperror.NewValidation("invalid productId format").
			WithDetail("productId", r.ProductID)
	}

	warehouseID, err := ParseIDPtr(r.WarehouseID)
	if err != nil {
		return in, apperror.NewValidation("invalid warehouseId format")
	}

	cost := types.ZeroMoney()
	if r.AcquisitionCost != nil && *r.AcquisitionCost != "" {
		cost, err = types.NewMoneyFromString(*r.AcquisitionCost)
		if err != nil {
			return in, apperror.NewValidation("invalid acquisitionCost format").
				WithDetail("acquisitionCost", *r.AcquisitionCost)
		}
	}

	in = units.CreateIntent{
		ProductID:       *productID,
		WarehouseID:     warehouseID,
		Quantity:        r.Quantity,
		Serials:         r.Serials,
		LotNumber:       r.LotNumber,
		Condition:       r.Condition,
		AcquisitionCost: cost,
		ExpiryDate:      r.ExpiryDate,
		WarrantyUntil:   r.WarrantyUntil,
		Notes:           r.Notes,
	}
	if r.AcquisitionDate != nil {
		in.AcquisitionDate = *r.AcquisitionDate
	}

	return in, nil
}

// TransferUnitRequest moves a unit to another warehouse.
type TransferUnitRequest struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
}

// AssignUnitRequest hands a unit to an employee or a project.
type AssignUnitRequest struct {
	EmployeeID *string `json:"employeeId"`
	ProjectID  *string `json:"projectId"`
}

// ReturnUnitRequest takes a unit back into a warehouse.
type ReturnUnitRequest struct {
	WarehouseID string          `json:"warehouseId" binding:"required"`
	Condition   units.Condition `json:"condition" binding:"required"`
}

// ChangeUnitStatusRequest performs a generic transition.
type ChangeUnitStatusRequest struct {
	Status    units.Status     `json:"status" binding:"required"`
	Condition *units.Condition `json:"condition"`
	Reason    *string          `json:"reason"`
}

// --- Response DTOs ---

// UnitResponse is the response body for a unit.
type UnitResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	ProductID          string          `json:"productId"`
	SerialNumber       *string         `json:"serialNumber,omitempty"`
	LotNumber          *string         `json:"lotNumber,omitempty"`
	Status             units.Status    `json:"status"`
	Condition          units.Condition `json:"condition"`
	WarehouseID        *string         `json:"warehouseId,omitempty"`
	AssignedEmployeeID *string         `json:"assignedEmployeeId,omitempty"`
	AssignedProjectID  *string         `json:"assignedProjectId,omitempty"`
	AssignedAt         *time.Time      `json:"assignedAt,omitempty"`
	ExpiryDate         *time.Time      `json:"expiryDate,omitempty"`
	WarrantyUntil      *time.Time      `json:"warrantyUntil,omitempty"`
	AcquisitionCost    string          `json:"acquisitionCost"`
	AcquisitionDate    time.Time       `json:"acquisitionDate"`
	RetiredAt          *time.Time      `json:"retiredAt,omitempty"`
	RetiredBy          *string         `json:"retiredBy,omitempty"`
	RetiredReason      *string         `json:"retiredReason,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	DeletionMark       bool            `json:"deletionMark"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// FromUnit converts domain entity to response DTO.
func FromUnit(u *units.Unit) UnitResponse {
	return UnitResponse{
		ID:                 u.ID.String(),
		Code:               u.Code,
		ProductID:          u.ProductID.String(),
		SerialNumber:       u.SerialNumber,
		LotNumber:          u.LotNumber,
		Status:             u.Status,
		Condition:          u.Condition,
		WarehouseID:        IDPtr(u.WarehouseID),
		AssignedEmployeeID: IDPtr(u.AssignedEmployeeID),
		AssignedProjectID:  IDPtr(u.AssignedProjectID),
		AssignedAt:         u.AssignedAt,
		ExpiryDate:         u.ExpiryDate,
		WarrantyUntil:      u.WarrantyUntil,
		AcquisitionCost:    u.AcquisitionCost.String(),
		AcquisitionDate:    u.AcquisitionDate,
		RetiredAt:          u.RetiredAt,
		RetiredBy:          u.RetiredBy,
		RetiredReason:      u.RetiredReason,
		Notes:              u.Notes,
		DeletionMark:       u.DeletionMark,
		Version:            u.Version,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// FromUnits converts a slice of units.
func FromUnits(us []*units.Unit) []UnitResponse {
	out := make([]UnitResponse, len(us))
	for i, u := range us {
		out[i] = FromUnit(u)
	}
	return out
}

// UnitHistoryResponse is the response body for one history entry.
type UnitHistoryResponse struct {
	ID              string           `json:"id"`
	UnitID          string           `json:"unitId"`
	EventType       units.EventType  `json:"eventType"`
	EventDate       time.Time        `json:"eventDate"`
	FromWarehouseID *string          `json:"fromWarehouseId,omitempty"`
	ToWarehouseID   *string          `json:"toWarehouseId,omitempty"`
	FromStatus      *units.Status    `json:"fromStatus,omitempty"`
	ToStatus        *units.Status    `json:"toStatus,omitempty"`
	FromCondition   *units.Condition `json:"fromCondition,omitempty"`
	ToCondition     *units.Condition `json:"toCondition,omitempty"`
	FromHolder      *string          `json:"fromHolder,omitempty"`
	ToHolder        *string          `json:"toHolder,omitempty"`
	PerformedBy     string           `json:"performedBy"`
	Reason          *string          `json:"reason,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// FromHistoryEntry converts domain entity to response DTO.
func FromHistoryEntry(e *units.HistoryEntry) UnitHistoryResponse {
	return UnitHistoryResponse{
		ID:              e.ID.String(),
		UnitID:          e.UnitID.String(),
		EventType:       e.EventType,
		EventDate:       e.EventDate,
		FromWarehouseID: IDPtr(e.FromWarehouseID),
		ToWarehouseID:   IDPtr(e.ToWarehouseID),
		FromStatus:      e.FromStatus,
		ToStatus:        e.ToStatus,
		FromCondition:   e.FromCondition,
		ToCondition:     e.ToCondition,
		FromHolder:      e.FromHolder,
		ToHolder:        e.ToHolder,
		PerformedBy:     e.PerformedBy,
		Reason:          e.Reason,
		Notes:           e.Notes,
	}
}

// FromHistoryEntries converts a slice of history entries.
func FromHistoryEntries(es []*units.HistoryEntry) []UnitHistoryResponse {
	out := make([]UnitHistoryResponse, len(es))
	for i, e := range es {
		out[i] = FromHistoryEntry(e)
	}
	return out
}
