package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/billing"
)

// InitiatePaymentRequest starts an M-Pesa STK push for a tenant
type InitiatePaymentRequest struct {
	TenantID uuid.UUID       `json:"tenant_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Phone    string          `json:"phone" binding:"omitempty,min=9,max=15"`
	Month    string          `json:"month" binding:"omitempty,len=7"`
	Type     string          `json:"type" binding:"omitempty,oneof=rent move_in fee"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	PropertyID        uuid.UUID       `json:"property_id"`
	LandlordID        uuid.UUID       `json:"landlord_id"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	Type              string          `json:"type"`
	Phone             string          `json:"phone"`
	Month             string          `json:"month"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	MpesaReceipt      string          `json:"mpesa_receipt,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Type       string `form:"type" binding:"omitempty,oneof=rent move_in fee"`
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	LandlordID string `form:"landlord_id" binding:"omitempty,uuid"`
	Month      string `form:"month" binding:"omitempty,len=7"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FinanceSummaryResponse is the completed payment total for one month
type FinanceSummaryResponse struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MpesaCallback is Daraja's payment result delivery
type MpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []MpesaCallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MpesaCallbackItem is one metadata entry in a callback
type MpesaCallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Receipt extracts the M-Pesa receipt number from callback metadata
func (c *MpesaCallback) Receipt() string {
	for _, item := range c.Body.StkCallback.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// ToPaymentResponse maps a domain payment to its response shape
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		PropertyID:        p.PropertyID,
		LandlordID:        p.LandlordID,
		Amount:            p.Amount,
		Status:            string(p.Status),
		Type:              string(p.Type),
		Phone:             p.Phone,
		Month:             p.Month,
		CheckoutRequestID: p.CheckoutRequestID,
		MpesaReceipt:      p.MpesaReceipt,
		CompletedAt:       p.CompletedAt,
		FailureReason:     p.FailureReason,
		CreatedAt:         p.CreatedAt,
	}
}
