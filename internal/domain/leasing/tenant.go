package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// TenantStatus tracks a tenant's lifecycle after approval
type TenantStatus string

const (
	// TenantStatusApprovedPendingPayment means the tenant is bound to a unit
	// but has not yet paid the move-in cost
	TenantStatusApprovedPendingPayment TenantStatus = "approved_pending_payment"
	TenantStatusActive                 TenantStatus = "active"
	TenantStatusInactive               TenantStatus = "inactive"
)

// IsValid checks if the tenant status is valid
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusApprovedPendingPayment, TenantStatusActive, TenantStatusInactive:
		return true
	}
	return false
}

// EmergencyContact is a tenant's emergency contact person
type EmergencyContact struct {
	Name         string `gorm:"size:200" json:"name"`
	Phone        string `gorm:"size:30" json:"phone"`
	Relationship string `gorm:"size:50" json:"relationship"`
}

// Financials holds a tenant's money figures. TotalMoveInCost is the sum of
// rent and the three deposits, computed once at creation.
type Financials struct {
	MonthlyRent     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"monthly_rent"`
	SecurityDeposit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"security_deposit"`
	ApplicationFee  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"application_fee"`
	PetDeposit      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"pet_deposit"`
	TotalMoveInCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_move_in_cost"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
}

// Tenant is a person occupying, or approved to occupy, a unit
type Tenant struct {
	shared.BaseAggregateRoot
	FullName   string `gorm:"size:200;not null" json:"full_name"`
	Email      string `gorm:"size:200;not null" json:"email"`
	Phone      string `gorm:"size:30;not null" json:"phone"`
	IDNumber   string `gorm:"size:30" json:"id_number"`
	Occupation string `gorm:"size:100" json:"occupation"`
	Employer   string `gorm:"size:200" json:"employer"`

	Financials Financials `gorm:"embedded" json:"financials"`

	LeaseStart       time.Time `gorm:"not null" json:"lease_start"`
	LeaseEnd         time.Time `gorm:"not null" json:"lease_end"`
	LeaseTermMonths  int       `gorm:"not null;default:12" json:"lease_term_months"`
	NoticePeriodDays int       `gorm:"not null;default:30" json:"notice_period_days"`

	Emergency EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_" json:"emergency_contact"`

	// Denormalized linkage for display; PropertyID and UnitID are the
	// authoritative references.
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	UnitID       uuid.UUID `gorm:"type:uuid;not null;index" json:"unit_id"`
	PropertyName string    `gorm:"size:200" json:"property_name"`
	UnitNumber   string    `gorm:"size:10" json:"unit_number"`

	Status TenantStatus `gorm:"size:30;not null;default:'approved_pending_payment'" json:"status"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a tenant bound to a unit, pending the move-in payment
func NewTenant(fullName, email, phone string, fin Financials, propertyID, unitID uuid.UUID, leaseStart, leaseEnd time.Time) (*Tenant, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant full name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant email is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant phone is required")
	}
	if fin.MonthlyRent.IsNegative() || fin.MonthlyRent.IsZero() {
		return nil, shared.NewDomainError("INVALID_TENANT", "Monthly rent must be a positive amount")
	}
	if propertyID == uuid.Nil || unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant must reference a property and a unit")
	}
	if !leaseEnd.After(leaseStart) {
		return nil, shared.NewDomainError("INVALID_TENANT", "Lease end must be after lease start")
	}

	fin.TotalMoveInCost = fin.MonthlyRent.
		Add(fin.SecurityDeposit).
		Add(fin.ApplicationFee).
		Add(fin.PetDeposit)
	fin.Balance = fin.TotalMoveInCost

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          strings.TrimSpace(fullName),
		Email:             strings.TrimSpace(strings.ToLower(email)),
		Phone:             strings.TrimSpace(phone),
		Financials:        fin,
		LeaseStart:        leaseStart,
		LeaseEnd:          leaseEnd,
		LeaseTermMonths:   12,
		NoticePeriodDays:  30,
		PropertyID:        propertyID,
		UnitID:            unitID,
		Status:            TenantStatusApprovedPendingPayment,
	}, nil
}

// Activate marks the tenant active after their move-in payment completes
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("INVALID_TENANT_STATE", "Tenant is already active")
	}
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("INVALID_TENANT_STATE", "An inactive tenant cannot be activated")
	}
	t.Status = TenantStatusActive
	t.IncrementVersion()
	return nil
}

// Deactivate marks the tenant inactive without vacating the unit
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("INVALID_TENANT_STATE", "Tenant is already inactive")
	}
	t.Status = TenantStatusInactive
	t.IncrementVersion()
	return nil
}

// RecordPayment reduces the tenant's outstanding balance
func (t *Tenant) RecordPayment(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_PAYMENT", fmt.Sprintf("Payment amount must be positive, got %s", amount))
	}
	t.Financials.Balance = t.Financials.Balance.Sub(amount)
	t.IncrementVersion()
	return nil
}
