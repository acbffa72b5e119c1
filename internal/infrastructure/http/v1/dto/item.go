package dto

import (
	"time"

	"stockcore/internal/core/types"
	"stockcore/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name" binding:"required"`
	UnitOfMeasure string         `json:"unitOfMeasure" binding:"required"`
	Currency      string         `json:"currency" binding:"required"`
	MinStock      types.Quantity `json:"minStock"`
	MaxStock      types.Quantity `json:"maxStock"`
	ReorderPoint  types.Quantity `json:"reorderPoint"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, r.UnitOfMeasure, r.Currency)
	it.MinStock = r.MinStock
	it.MaxStock = r.MaxStock
	it.ReorderPoint = r.ReorderPoint
	return it
}

// UpdateItemRequest is the request body for updating an item.
// Stock aggregates and unit cost are ledger-owned and absent here.
type UpdateItemRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name" binding:"required"`
	UnitOfMeasure string         `json:"unitOfMeasure" binding:"required"`
	Currency      string         `json:"currency" binding:"required"`
	MinStock      types.Quantity `json:"minStock"`
	MaxStock      types.Quantity `json:"maxStock"`
	ReorderPoint  types.Quantity `json:"reorderPoint"`
	Status        item.Status    `json:"status"`
	Version       int            `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.UnitOfMeasure = r.UnitOfMeasure
	it.Currency = r.Currency
	it.MinStock = r.MinStock
	it.MaxStock = r.MaxStock
	it.ReorderPoint = r.ReorderPoint
	if r.Status != "" {
		it.Status = r.Status
	}
	it.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	UnitOfMeasure  string         `json:"unitOfMeasure"`
	Currency       string         `json:"currency"`
	UnitCost       string         `json:"unitCost"`
	TotalStock     types.Quantity `json:"totalStock"`
	ReservedStock  types.Quantity `json:"reservedStock"`
	AvailableStock types.Quantity `json:"availableStock"`
	MinStock       types.Quantity `json:"minStock"`
	MaxStock       types.Quantity `json:"maxStock"`
	ReorderPoint   types.Quantity `json:"reorderPoint"`
	Status         item.Status    `json:"status"`
	DeletionMark   bool           `json:"deletionMark"`
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FromItem converts domain entity to response DTO.
func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID.String(),
		Code:           it.Code,
		Name:           it.Name,
		UnitOfMeasure:  it.UnitOfMeasure,
		Currency:       it.Currency,
		UnitCost:       it.UnitCost.String(),
		TotalStock:     it.TotalStock,
		ReservedStock:  it.ReservedStock,
		AvailableStock: it.AvailableStock,
		MinStock:       it.MinStock,
		MaxStock:       it.MaxStock,
		ReorderPoint:   it.ReorderPoint,
		Status:         it.Status,
		DeletionMark:   it.DeletionMark,
		Version:        it.Version,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}
