package dto

import (
	"time"

	"stockcore/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.Category)
	p.Description = r.Description
	return p
}

// UpdateProductRequest is the request body for updating a product.
// Rollup counters are owned by the unit tracker and absent here.
type UpdateProductRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.Category = r.Category
	p.Description = r.Description
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    *string   `json:"description,omitempty"`
	TotalUnits     int       `json:"totalUnits"`
	AvailableUnits int       `json:"availableUnits"`
	AssignedUnits  int       `json:"assignedUnits"`
	InTransitUnits int       `json:"inTransitUnits"`
	DamagedUnits   int       `json:"damagedUnits"`
	RetiredUnits   int       `json:"retiredUnits"`
	DeletionMark   bool      `json:"deletionMark"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromProduct converts domain entity to response DTO.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID.String(),
		Code:           p.Code,
		Name:           p.Name,
		Category:       p.Category,
		Description:    p.Description,
		TotalUnits:     p.TotalUnits,
		AvailableUnits: p.AvailableUnits,
		AssignedUnits:  p.AssignedUnits,
		InTransitUnits: p.InTransitUnits,
		DamagedUnits:   p.DamagedUnits,
		RetiredUnits:   p.RetiredUnits,
		DeletionMark:   p.DeletionMark,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
