package handler

import (
	"github.com/gin-gonic/gin"

	leasingapp "github.com/nyumbani/backend/internal/application/leasing"
)

// ApplicationHandler handles rental application endpoints. Submission is
// public; everything else requires an authenticated session.
type ApplicationHandler struct {
	BaseHandler
	applications *leasingapp.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(applications *leasingapp.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// RegisterRoutes registers application routes
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/applications")
	group.POST("", h.Submit)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("/:id/approve", h.Approve)
	group.POST("/:id/reject", h.Reject)
	group.DELETE("/:id", h.Delete)
}

// Submit records a rental application from a prospective tenant
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req leasingapp.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.applications.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of applications
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter leasingapp.ApplicationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.applications.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one application
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid application id")
		return
	}

	resp, err := h.applications.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve accepts an application, leasing its unit to the applicant
func (h *ApplicationHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid application id")
		return
	}

	tenant, err := h.applications.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// Reject declines an application with an optional note
func (h *ApplicationHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid application id")
		return
	}

	var req leasingapp.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.applications.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete hides an application from the console
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid application id")
		return
	}

	if err := h.applications.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
