package landlord

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// Landlord owns properties managed through the console
type Landlord struct {
	shared.BaseAggregateRoot
	FullName string `gorm:"size:200;not null" json:"full_name"`
	Email    string `gorm:"size:200;not null;uniqueIndex" json:"email"`
	Phone    string `gorm:"size:30;not null" json:"phone"`
	IDNumber string `gorm:"size:30" json:"id_number"`
	Address  string `gorm:"size:300" json:"address"`

	BankName      string `gorm:"size:100" json:"bank_name"`
	BankBranch    string `gorm:"size:100" json:"bank_branch"`
	AccountName   string `gorm:"size:200" json:"account_name"`
	AccountNumber string `gorm:"size:50" json:"account_number"`
	MpesaNumber   string `gorm:"size:30" json:"mpesa_number"`
}

// TableName returns the table name for GORM
func (Landlord) TableName() string {
	return "landlords"
}

// NewLandlord creates a landlord
func NewLandlord(fullName, email, phone string) (*Landlord, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord full name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord email is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord phone is required")
	}

	return &Landlord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          strings.TrimSpace(fullName),
		Email:             strings.TrimSpace(strings.ToLower(email)),
		Phone:             strings.TrimSpace(phone),
	}, nil
}

// UpdateContact updates the landlord's contact fields
func (l *Landlord) UpdateContact(fullName, email, phone, address string) error {
	if strings.TrimSpace(fullName) == "" {
		return shared.NewDomainError("INVALID_LANDLORD", "Landlord full name is required")
	}
	if strings.TrimSpace(email) == "" {
		return shared.NewDomainError("INVALID_LANDLORD", "Landlord email is required")
	}
	l.FullName = strings.TrimSpace(fullName)
	l.Email = strings.TrimSpace(strings.ToLower(email))
	if phone != "" {
		l.Phone = phone
	}
	l.Address = address
	l.IncrementVersion()
	return nil
}

// UpdateBanking updates the landlord's payout details
func (l *Landlord) UpdateBanking(bankName, bankBranch, accountName, accountNumber, mpesaNumber string) {
	l.BankName = bankName
	l.BankBranch = bankBranch
	l.AccountName = accountName
	l.AccountNumber = accountNumber
	l.MpesaNumber = mpesaNumber
	l.IncrementVersion()
}

// LandlordRepository defines the persistence interface for landlords
type LandlordRepository interface {
	shared.Repository[Landlord]
	FindByEmail(ctx context.Context, email string) (*Landlord, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Landlord], error)
}

// DeletionReport summarizes what a cascading landlord deletion removed
type DeletionReport struct {
	LandlordID        uuid.UUID `json:"landlord_id"`
	PropertiesDeleted int       `json:"properties_deleted"`
	UnitsDeleted      int       `json:"units_deleted"`
	TenantsDeleted    int       `json:"tenants_deleted"`
	PaymentsDeleted   int       `json:"payments_deleted"`
	PaymentsArchived  int       `json:"payments_archived"`
	UserDeleted       bool      `json:"user_deleted"`
}
