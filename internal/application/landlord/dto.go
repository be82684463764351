package landlord

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/landlord"
)

// CreateLandlordRequest creates a landlord, optionally with a console login
type CreateLandlordRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=7,max=30"`
	IDNumber string `json:"id_number" binding:"max=30"`
	Address  string `json:"address" binding:"max=300"`

	BankName      string `json:"bank_name" binding:"max=100"`
	BankBranch    string `json:"bank_branch" binding:"max=100"`
	AccountName   string `json:"account_name" binding:"max=200"`
	AccountNumber string `json:"account_number" binding:"max=50"`
	MpesaNumber   string `json:"mpesa_number" binding:"max=30"`

	// When set, a landlord-role console account is created and linked
	Password string `json:"password" binding:"omitempty,min=8"`
}

// UpdateLandlordRequest edits a landlord's contact and payout details
type UpdateLandlordRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=7,max=30"`
	Address  *string `json:"address" binding:"omitempty,max=300"`

	BankName      *string `json:"bank_name" binding:"omitempty,max=100"`
	BankBranch    *string `json:"bank_branch" binding:"omitempty,max=100"`
	AccountName   *string `json:"account_name" binding:"omitempty,max=200"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=50"`
	MpesaNumber   *string `json:"mpesa_number" binding:"omitempty,max=30"`
}

// LandlordResponse represents a landlord in API responses
type LandlordResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	IDNumber      string    `json:"id_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	BankName      string    `json:"bank_name,omitempty"`
	BankBranch    string    `json:"bank_branch,omitempty"`
	AccountName   string    `json:"account_name,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	MpesaNumber   string    `json:"mpesa_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LandlordListFilter represents filter options for the landlord list
type LandlordListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLandlordResponse maps a domain landlord to its response shape
func ToLandlordResponse(l *landlord.Landlord) LandlordResponse {
	return LandlordResponse{
		ID:            l.ID,
		FullName:      l.FullName,
		Email:         l.Email,
		Phone:         l.Phone,
		IDNumber:      l.IDNumber,
		Address:       l.Address,
		BankName:      l.BankName,
		BankBranch:    l.BankBranch,
		AccountName:   l.AccountName,
		AccountNumber: l.AccountNumber,
		MpesaNumber:   l.MpesaNumber,
		CreatedAt:     l.CreatedAt,
	}
}
