package handler

import (
	"github.com/gin-gonic/gin"

	leasingapp "github.com/nyumbani/backend/internal/application/leasing"
)

// TenantHandler handles tenant endpoints
type TenantHandler struct {
	BaseHandler
	tenants *leasingapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenants *leasingapp.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// RegisterRoutes registers tenant routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tenants")
	group.POST("", h.Assign)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/deactivate", h.Deactivate)
	group.DELETE("/:id", h.Delete)
}

// Assign places a tenant into a vacant unit
func (h *TenantHandler) Assign(c *gin.Context) {
	var req leasingapp.AssignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.tenants.Assign(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of tenants
func (h *TenantHandler) List(c *gin.Context) {
	var filter leasingapp.TenantListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.tenants.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one tenant
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	resp, err := h.tenants.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate ends a tenancy without vacating the unit
func (h *TenantHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	resp, err := h.tenants.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a tenant and vacates their unit
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	if err := h.tenants.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
