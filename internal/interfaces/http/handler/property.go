package handler

import (
	"github.com/gin-gonic/gin"

	propertyapp "github.com/nyumbani/backend/internal/application/property"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	BaseHandler
	properties *propertyapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties *propertyapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// RegisterRoutes registers property routes
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/properties")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.GET("/:id/units", h.ListUnits)
	group.POST("/:id/refresh", h.Refresh)
}

// Create creates a property with its initial unit set
func (h *PropertyHandler) Create(c *gin.Context) {
	var req propertyapp.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.properties.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one property
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property id")
		return
	}

	resp, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of properties
func (h *PropertyHandler) List(c *gin.Context) {
	var filter propertyapp.PropertyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.properties.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update edits a property, reconciling a changed unit count
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property id")
		return
	}

	var req propertyapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.properties.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListUnits returns a property's units with resolved statuses
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property id")
		return
	}

	units, err := h.properties.ListUnits(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// Refresh recomputes the property summary and reports pairing violations
func (h *PropertyHandler) Refresh(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid property id")
		return
	}

	report, err := h.properties.Refresh(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
