package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/property"
)

// CreatePropertyRequest represents a request to create a property with its units
type CreatePropertyRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Address      string           `json:"address" binding:"required,min=1,max=300"`
	City         string           `json:"city" binding:"max=100"`
	Country      string           `json:"country" binding:"max=100"`
	PropertyType string           `json:"property_type" binding:"required,oneof=single bedsitter one_bedroom two_bedroom three_bedroom one_two_bedroom apartment commercial"`
	Units        int              `json:"units" binding:"required,min=1,max=500"`
	RentAmount   decimal.Decimal  `json:"rent_amount" binding:"required"`
	Bedrooms     int              `json:"bedrooms" binding:"min=0"`
	Bathrooms    int              `json:"bathrooms" binding:"min=0"`
	LandlordID   uuid.UUID        `json:"landlord_id" binding:"required"`
	Amenities    []string         `json:"amenities"`
	Images       []string         `json:"images"`
	FeePolicy    FeePolicyRequest `json:"fee_policy"`
}

// FeePolicyRequest carries the property-level fee policy
type FeePolicyRequest struct {
	ApplicationFee   decimal.Decimal `json:"application_fee"`
	SecurityDeposit  decimal.Decimal `json:"security_deposit"`
	PetDeposit       decimal.Decimal `json:"pet_deposit"`
	LatePaymentFee   decimal.Decimal `json:"late_payment_fee"`
	LeaseTermMonths  int             `json:"lease_term_months" binding:"omitempty,min=1"`
	NoticePeriodDays int             `json:"notice_period_days" binding:"omitempty,min=0"`
	GracePeriodDays  int             `json:"grace_period_days" binding:"omitempty,min=0"`
}

// UpdatePropertyRequest represents a property edit, including a changed unit
// count which is reconciled against the actual unit set
type UpdatePropertyRequest struct {
	Name       *string           `json:"name" binding:"omitempty,min=1,max=200"`
	Address    *string           `json:"address" binding:"omitempty,min=1,max=300"`
	City       *string           `json:"city" binding:"omitempty,max=100"`
	Country    *string           `json:"country" binding:"omitempty,max=100"`
	Units      *int              `json:"units" binding:"omitempty,min=0,max=500"`
	RentAmount *decimal.Decimal  `json:"rent_amount"`
	Amenities  []string          `json:"amenities"`
	Images     []string          `json:"images"`
	FeePolicy  *FeePolicyRequest `json:"fee_policy"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Address      string               `json:"address"`
	City         string               `json:"city"`
	Country      string               `json:"country"`
	PropertyType string               `json:"property_type"`
	RentAmount   decimal.Decimal      `json:"rent_amount"`
	LandlordID   uuid.UUID            `json:"landlord_id"`
	Amenities    []string             `json:"amenities"`
	Images       []string             `json:"images"`
	FeePolicy    property.FeePolicy   `json:"fee_policy"`
	Summary      property.UnitSummary `json:"summary"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// UnitResponse represents a unit with its resolved status triple
type UnitResponse struct {
	ID                uuid.UUID       `json:"id"`
	PropertyID        uuid.UUID       `json:"property_id"`
	UnitNumber        string          `json:"unit_number"`
	UnitName          string          `json:"unit_name"`
	RentAmount        decimal.Decimal `json:"rent_amount"`
	Bedrooms          int             `json:"bedrooms"`
	Bathrooms         int             `json:"bathrooms"`
	OccupancyStatus   string          `json:"occupancy_status"`
	MaintenanceStatus string          `json:"maintenance_status"`
	DisplayStatus     string          `json:"display_status"`
	TenantID          *uuid.UUID      `json:"tenant_id,omitempty"`
	TenantName        string          `json:"tenant_name,omitempty"`
	LeaseStart        *time.Time      `json:"lease_start,omitempty"`
	LeaseEnd          *time.Time      `json:"lease_end,omitempty"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Search       string `form:"search"`
	LandlordID   string `form:"landlord_id" binding:"omitempty,uuid"`
	PropertyType string `form:"property_type"`
	City         string `form:"city"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PairingViolation reports a tenant whose unit linkage is inconsistent
type PairingViolation struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	UnitID     uuid.UUID `json:"unit_id"`
	Reason     string    `json:"reason"`
}

// RefreshReport is the result of the on-demand reconciliation operation
type RefreshReport struct {
	Property   PropertyResponse   `json:"property"`
	Units      []UnitResponse     `json:"units"`
	Violations []PairingViolation `json:"violations"`
}

// ToPropertyResponse maps a domain property to its response shape
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Name:         p.Name,
		Address:      p.Address,
		City:         p.City,
		Country:      p.Country,
		PropertyType: string(p.PropertyType),
		RentAmount:   p.RentAmount,
		LandlordID:   p.LandlordID,
		Amenities:    p.Amenities,
		Images:       p.Images,
		FeePolicy:    p.FeePolicy,
		Summary:      p.Summary,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToUnitResponse maps a domain unit to its response shape, resolving any
// legacy status fields into the canonical triple
func ToUnitResponse(u *property.Unit) UnitResponse {
	st := u.ResolveStatus()
	return UnitResponse{
		ID:                u.ID,
		PropertyID:        u.PropertyID,
		UnitNumber:        u.UnitNumber,
		UnitName:          u.UnitName,
		RentAmount:        u.RentAmount,
		Bedrooms:          u.Bedrooms,
		Bathrooms:         u.Bathrooms,
		OccupancyStatus:   string(st.Occupancy),
		MaintenanceStatus: string(st.Maintenance),
		DisplayStatus:     string(st.Display),
		TenantID:          u.TenantID,
		TenantName:        u.TenantName,
		LeaseStart:        u.LeaseStart,
		LeaseEnd:          u.LeaseEnd,
	}
}

// ToUnitResponses maps a unit slice
func ToUnitResponses(units []property.Unit) []UnitResponse {
	out := make([]UnitResponse, len(units))
	for i := range units {
		out[i] = ToUnitResponse(&units[i])
	}
	return out
}
