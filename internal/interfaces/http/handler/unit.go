package handler

import (
	"github.com/gin-gonic/gin"

	propertyapp "github.com/nyumbani/backend/internal/application/property"
)

// UnitHandler handles unit endpoints
type UnitHandler struct {
	BaseHandler
	units *propertyapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(units *propertyapp.UnitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// RegisterRoutes registers unit routes
func (h *UnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/units")
	group.GET("/:id", h.Get)
	group.PATCH("/:id/status", h.UpdateStatus)
}

// Get returns one unit with its resolved status
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid unit id")
		return
	}

	resp, err := h.units.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus edits a unit's status axes
func (h *UnitHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid unit id")
		return
	}

	var req propertyapp.UpdateUnitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.units.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
