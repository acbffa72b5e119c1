package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcore/internal/core/apperror"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/http/v1/dto"
)

// UnitHandler handles HTTP requests for tracked units.
type UnitHandler struct {
	*BaseHandler
	service *units.Service
}

// NewUnitHandler creates a new unit handler.
func NewUnitHandler(base *BaseHandler, service *units.Service) *UnitHandler {
	return &UnitHandler{BaseHandler: base, service: service}
}

// Create handles POST /units (batch creation)
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.CreateUnitsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToIntent()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.CreateUnits(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewListResponse(dto.FromUnits(created)))
}

// Transfer handles POST /units/:id/transfer
func (h *UnitHandler) Transfer(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.TransferUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, err := dto.ParseIDPtr(&req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format").
			WithDetail("warehouseId", req.WarehouseID))
		return
	}

	u, err := h.service.Transfer(c.Request.Context(), unitID, *warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// Assign handles POST /units/:id/assign
func (h *UnitHandler) Assign(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	employeeID, err := dto.ParseIDPtr(req.EmployeeID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid employeeId format"))
		return
	}
	projectID, err := dto.ParseIDPtr(req.ProjectID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid projectId format"))
		return
	}

	u, err := h.service.Assign(c.Request.Context(), unitID, employeeID, projectID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// Return handles POST /units/:id/return
func (h *UnitHandler) Return(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReturnUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, err := dto.ParseIDPtr(&req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format").
			WithDetail("warehouseId", req.WarehouseID))
		return
	}

	u, err := h.service.Return(c.Request.Context(), unitID, *warehouseID, req.Condition)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// ChangeStatus handles POST /units/:id/status
func (h *UnitHandler) ChangeStatus(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeUnitStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.ChangeStatus(c.Request.Context(), unitID, req.Status, req.Condition, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// Get handles GET /units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// GetByCode handles GET /units/by-code/:code
func (h *UnitHandler) GetByCode(c *gin.Context) {
	u, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUnit(u))
}

// History handles GET /units/:id/history
func (h *UnitHandler) History(c *gin.Context) {
	unitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), unitID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromHistoryEntries(entries)))
}

// ByProduct handles GET /products/:id/units
func (h *UnitHandler) ByProduct(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	us, err := h.service.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromUnits(us)))
}

// ByWarehouse handles GET /warehouses/:id/units
func (h *UnitHandler) ByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	us, err := h.service.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromUnits(us)))
}
