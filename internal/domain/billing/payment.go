package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// PaymentStatus tracks an M-Pesa payment's state
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// PaymentType distinguishes what a payment covers
type PaymentType string

const (
	PaymentTypeRent   PaymentType = "rent"
	PaymentTypeMoveIn PaymentType = "move_in"
	PaymentTypeFee    PaymentType = "fee"
)

// Payment is one rent or fee transaction, created when an STK push is
// initiated and settled by the gateway callback
type Payment struct {
	shared.BaseAggregateRoot
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlord_id"`

	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status PaymentStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Type   PaymentType     `gorm:"size:20;not null;default:'rent'" json:"type"`

	Phone             string     `gorm:"size:30;not null" json:"phone"`
	Month             string     `gorm:"size:7;not null" json:"month"`
	CheckoutRequestID string     `gorm:"size:100;uniqueIndex" json:"checkout_request_id"`
	MpesaReceipt      string     `gorm:"size:30" json:"mpesa_receipt"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	FailureReason     string     `gorm:"size:300" json:"failure_reason,omitempty"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment for an initiated STK push
func NewPayment(tenantID, propertyID, landlordID uuid.UUID, amount decimal.Decimal, phone, month, checkoutRequestID string, paymentType PaymentType) (*Payment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment must reference a tenant")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payer phone is required")
	}
	if strings.TrimSpace(month) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment month is required")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		PropertyID:        propertyID,
		LandlordID:        landlordID,
		Amount:            amount,
		Status:            PaymentStatusPending,
		Type:              paymentType,
		Phone:             strings.TrimSpace(phone),
		Month:             month,
		CheckoutRequestID: checkoutRequestID,
	}, nil
}

// Complete settles the payment with the gateway receipt
func (p *Payment) Complete(receipt string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "Only pending payments can be completed")
	}
	if strings.TrimSpace(receipt) == "" {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "A completed payment requires a receipt code")
	}
	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.MpesaReceipt = receipt
	p.CompletedAt = &now
	p.IncrementVersion()
	return nil
}

// Fail marks the payment failed with the gateway's reason
func (p *Payment) Fail(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_PAYMENT_STATE", "Only pending payments can fail")
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.IncrementVersion()
	return nil
}

// ArchivedPayment preserves a completed payment removed by a landlord
// cascade deletion
type ArchivedPayment struct {
	shared.BaseEntity
	OriginalPaymentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"original_payment_id"`
	TenantID          uuid.UUID       `gorm:"type:uuid;not null" json:"tenant_id"`
	PropertyID        uuid.UUID       `gorm:"type:uuid;not null" json:"property_id"`
	LandlordID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	MpesaReceipt      string          `gorm:"size:30" json:"mpesa_receipt"`
	Month             string          `gorm:"size:7" json:"month"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	ArchivedAt        time.Time       `gorm:"not null" json:"archived_at"`
	ArchivedReason    string          `gorm:"size:200;not null" json:"archived_reason"`
}

// TableName returns the table name for GORM
func (ArchivedPayment) TableName() string {
	return "archived_payments"
}

// Archive copies a completed payment into an archive record
func (p *Payment) Archive(reason string) (*ArchivedPayment, error) {
	if p.Status != PaymentStatusCompleted {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATE", "Only completed payments are archived")
	}
	return &ArchivedPayment{
		BaseEntity:        shared.NewBaseEntity(),
		OriginalPaymentID: p.ID,
		TenantID:          p.TenantID,
		PropertyID:        p.PropertyID,
		LandlordID:        p.LandlordID,
		Amount:            p.Amount,
		MpesaReceipt:      p.MpesaReceipt,
		Month:             p.Month,
		PaidAt:            p.CompletedAt,
		ArchivedAt:        time.Now(),
		ArchivedReason:    reason,
	}, nil
}
