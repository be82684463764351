package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/nyumbani/backend/internal/application/identity"
	"github.com/nyumbani/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.GET("/me", h.Me)
	group.POST("/change-password", h.ChangePassword)
	group.POST("/reauth", h.Reauth)
	group.POST("/register", middleware.RequireRole("admin"), h.Register)
}

// Login authenticates with email and password and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword rotates the caller's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reauth re-checks the caller's password and issues a short-lived step-up
// token for destructive operations
func (h *AuthHandler) Reauth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ReauthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Reauth(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Register creates a console account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
