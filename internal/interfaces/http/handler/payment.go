package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/nyumbani/backend/internal/application/billing"
)

// PaymentHandler handles M-Pesa payment endpoints. The callback route is
// public because Daraja delivers results unauthenticated.
type PaymentHandler struct {
	BaseHandler
	payments *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/payments")
	group.POST("", h.Initiate)
	group.POST("/callback", h.Callback)
	group.GET("", h.List)
	group.GET("/summary", h.Summary)
	group.GET("/:id", h.Get)
}

// Initiate starts an STK push on the tenant's phone
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req billingapp.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.payments.Initiate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Callback receives Daraja's payment result. It always acknowledges with the
// ResultCode/ResultDesc shape Daraja expects; a rejected callback is logged
// and acknowledged so the gateway stops retrying.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var cb billingapp.MpesaCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Rejected"})
		return
	}

	if err := h.payments.HandleCallback(c.Request.Context(), cb); err != nil {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// List returns a page of payments
func (h *PaymentHandler) List(c *gin.Context) {
	var filter billingapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment id")
		return
	}

	resp, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary returns the completed payment total for one month
func (h *PaymentHandler) Summary(c *gin.Context) {
	month := c.Query("month")

	resp, err := h.payments.MonthlySummary(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
