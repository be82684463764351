package handler

import (
	"github.com/gin-gonic/gin"

	landlordapp "github.com/nyumbani/backend/internal/application/landlord"
	"github.com/nyumbani/backend/internal/infrastructure/auth"
	"github.com/nyumbani/backend/internal/interfaces/http/middleware"
)

// LandlordHandler handles landlord endpoints. Deletion cascades across the
// landlord's whole portfolio, so it is gated behind the admin role and a
// fresh password confirmation.
type LandlordHandler struct {
	BaseHandler
	landlords *landlordapp.LandlordService
	jwt       *auth.JWTService
}

// NewLandlordHandler creates a new LandlordHandler
func NewLandlordHandler(landlords *landlordapp.LandlordService, jwt *auth.JWTService) *LandlordHandler {
	return &LandlordHandler{landlords: landlords, jwt: jwt}
}

// RegisterRoutes registers landlord routes
func (h *LandlordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/landlords")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id",
		middleware.RequireRole("admin"),
		middleware.RequireReauth(h.jwt),
		h.Delete)
}

// Create registers a landlord, optionally with a console login
func (h *LandlordHandler) Create(c *gin.Context) {
	var req landlordapp.CreateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.landlords.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of landlords
func (h *LandlordHandler) List(c *gin.Context) {
	var filter landlordapp.LandlordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.landlords.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one landlord
func (h *LandlordHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid landlord id")
		return
	}

	resp, err := h.landlords.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a landlord's contact and payout details
func (h *LandlordHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid landlord id")
		return
	}

	var req landlordapp.UpdateLandlordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.landlords.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a landlord and everything they own, archiving completed
// payments first. Responds with a report of what was removed.
func (h *LandlordHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid landlord id")
		return
	}

	report, err := h.landlords.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
