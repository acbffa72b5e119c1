package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockcore/internal/core/apperror"
	"stockcore/internal/domain/movement"
	"stockcore/internal/infrastructure/http/v1/dto"
)

// MovementHandler handles HTTP requests for stock movements.
type MovementHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, service *movement.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// Process handles POST /movements
func (h *MovementHandler) Process(c *gin.Context) {
	var req dto.ProcessMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToIntent()
	if err != nil {
		h.Error(c, err)
		return
	}

	mv, err := h.service.Process(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovement(mv))
}

// Get handles GET /movements/:id
func (h *MovementHandler) Get(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	mv, err := h.service.GetByID(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovement(mv))
}

// GetByCode handles GET /movements/by-code/:code
func (h *MovementHandler) GetByCode(c *gin.Context) {
	mv, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovement(mv))
}

// List handles GET /movements
func (h *MovementHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	mvs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(mvs))
	for i, mv := range mvs {
		items[i] = dto.FromMovement(mv)
	}

	h.OK(c, dto.NewListResponse(items))
}

func (h *MovementHandler) parseFilter(c *gin.Context) (movement.ListFilter, error) {
	filter := movement.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("itemId"); v != "" {
		itemID, err := dto.ParseIDPtr(&v)
		if err != nil {
			return filter, apperror.NewValidation("invalid itemId format").WithDetail("itemId", v)
		}
		filter.ItemID = itemID
	}
	if v := c.Query("warehouseId"); v != "" {
		whID, err := dto.ParseIDPtr(&v)
		if err != nil {
			return filter, apperror.NewValidation("invalid warehouseId format").WithDetail("warehouseId", v)
		}
		filter.WarehouseID = whID
	}
	if v := c.Query("type"); v != "" {
		mt := movement.Type(v)
		if !movement.IsValidType(mt) {
			return filter, apperror.NewValidation("unknown movement type").WithDetail("type", v)
		}
		filter.Type = &mt
	}
	if v := c.Query("reason"); v != "" {
		reason := movement.Reason(v)
		filter.Reason = &reason
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperror.NewValidation("invalid from date, expected RFC3339").WithDetail("from", v)
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperror.NewValidation("invalid to date, expected RFC3339").WithDetail("to", v)
		}
		filter.To = &to
	}

	return filter, nil
}
