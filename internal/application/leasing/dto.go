package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/leasing"
)

// SubmitApplicationRequest is a prospective tenant's interest in a unit
type SubmitApplicationRequest struct {
	FullName      string          `json:"full_name" binding:"required,min=1,max=200"`
	Email         string          `json:"email" binding:"required,email"`
	Phone         string          `json:"phone" binding:"required,min=7,max=30"`
	IDNumber      string          `json:"id_number" binding:"max=30"`
	Occupation    string          `json:"occupation" binding:"max=100"`
	Employer      string          `json:"employer" binding:"max=200"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	PropertyID    uuid.UUID       `json:"property_id" binding:"required"`
	UnitID        uuid.UUID       `json:"unit_id" binding:"required"`
	DesiredMoveIn time.Time       `json:"desired_move_in"`
}

// RejectApplicationRequest carries the reviewer's note
type RejectApplicationRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ApplicationResponse represents an application in API responses
type ApplicationResponse struct {
	ID            uuid.UUID       `json:"id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	IDNumber      string          `json:"id_number"`
	Occupation    string          `json:"occupation"`
	Employer      string          `json:"employer"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	PropertyID    uuid.UUID       `json:"property_id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	DesiredMoveIn time.Time       `json:"desired_move_in"`
	Status        string          `json:"status"`
	ReviewNote    string          `json:"review_note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ApplicationListFilter represents filter options for the application list
type ApplicationListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	UnitID     string `form:"unit_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AssignTenantRequest binds a person to a unit, either directly or by
// approving their application
type AssignTenantRequest struct {
	UnitID     uuid.UUID  `json:"unit_id" binding:"required"`
	FullName   string     `json:"full_name" binding:"required,min=1,max=200"`
	Email      string     `json:"email" binding:"required,email"`
	Phone      string     `json:"phone" binding:"required,min=7,max=30"`
	IDNumber   string     `json:"id_number" binding:"max=30"`
	Occupation string     `json:"occupation" binding:"max=100"`
	Employer   string     `json:"employer" binding:"max=200"`
	LeaseStart *time.Time `json:"lease_start"`
	LeaseEnd   *time.Time `json:"lease_end"`

	EmergencyName         string `json:"emergency_name" binding:"max=200"`
	EmergencyPhone        string `json:"emergency_phone" binding:"max=30"`
	EmergencyRelationship string `json:"emergency_relationship" binding:"max=50"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID              uuid.UUID                `json:"id"`
	FullName        string                   `json:"full_name"`
	Email           string                   `json:"email"`
	Phone           string                   `json:"phone"`
	IDNumber        string                   `json:"id_number,omitempty"`
	Occupation      string                   `json:"occupation,omitempty"`
	Employer        string                   `json:"employer,omitempty"`
	PropertyID      uuid.UUID                `json:"property_id"`
	UnitID          uuid.UUID                `json:"unit_id"`
	PropertyName    string                   `json:"property_name"`
	UnitNumber      string                   `json:"unit_number"`
	Status          string                   `json:"status"`
	MonthlyRent     decimal.Decimal          `json:"monthly_rent"`
	TotalMoveInCost decimal.Decimal          `json:"total_move_in_cost"`
	Balance         decimal.Decimal          `json:"balance"`
	LeaseStart      time.Time                `json:"lease_start"`
	LeaseEnd        time.Time                `json:"lease_end"`
	Emergency       leasing.EmergencyContact `json:"emergency_contact"`
	CreatedAt       time.Time                `json:"created_at"`
}

// TenantListFilter represents filter options for the tenant list
type TenantListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=approved_pending_payment active inactive"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToApplicationResponse maps a domain application to its response shape
func ToApplicationResponse(a *leasing.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		IDNumber:      a.IDNumber,
		Occupation:    a.Occupation,
		Employer:      a.Employer,
		MonthlyIncome: a.MonthlyIncome,
		PropertyID:    a.PropertyID,
		UnitID:        a.UnitID,
		DesiredMoveIn: a.DesiredMoveIn,
		Status:        string(a.Status),
		ReviewNote:    a.ReviewNote,
		CreatedAt:     a.CreatedAt,
	}
}

// ToTenantResponse maps a domain tenant to its response shape
func ToTenantResponse(t *leasing.Tenant) TenantResponse {
	return TenantResponse{
		ID:              t.ID,
		FullName:        t.FullName,
		Email:           t.Email,
		Phone:           t.Phone,
		IDNumber:        t.IDNumber,
		Occupation:      t.Occupation,
		Employer:        t.Employer,
		PropertyID:      t.PropertyID,
		UnitID:          t.UnitID,
		PropertyName:    t.PropertyName,
		UnitNumber:      t.UnitNumber,
		Status:          string(t.Status),
		MonthlyRent:     t.Financials.MonthlyRent,
		TotalMoveInCost: t.Financials.TotalMoveInCost,
		Balance:         t.Financials.Balance,
		LeaseStart:      t.LeaseStart,
		LeaseEnd:        t.LeaseEnd,
		Emergency:       t.Emergency,
		CreatedAt:       t.CreatedAt,
	}
}
