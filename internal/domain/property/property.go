package property

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// PropertyType categorizes a property by its unit layout
type PropertyType string

const (
	PropertyTypeSingle        PropertyType = "single"
	PropertyTypeBedsitter     PropertyType = "bedsitter"
	PropertyTypeOneBedroom    PropertyType = "one_bedroom"
	PropertyTypeTwoBedroom    PropertyType = "two_bedroom"
	PropertyTypeThreeBedroom  PropertyType = "three_bedroom"
	PropertyTypeOneTwoBedroom PropertyType = "one_two_bedroom"
	PropertyTypeApartment     PropertyType = "apartment"
	PropertyTypeCommercial    PropertyType = "commercial"
)

// IsValid checks if the property type is valid
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeSingle, PropertyTypeBedsitter, PropertyTypeOneBedroom,
		PropertyTypeTwoBedroom, PropertyTypeThreeBedroom, PropertyTypeOneTwoBedroom,
		PropertyTypeApartment, PropertyTypeCommercial:
		return true
	}
	return false
}

// FeePolicy holds the fees and lease terms a property imposes on its units.
// Edits to a property's policy cascade to every existing unit unconditionally.
type FeePolicy struct {
	ApplicationFee   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"application_fee"`
	SecurityDeposit  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"security_deposit"`
	PetDeposit       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"pet_deposit"`
	LatePaymentFee   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"late_payment_fee"`
	LeaseTermMonths  int             `gorm:"not null;default:12" json:"lease_term_months"`
	NoticePeriodDays int             `gorm:"not null;default:30" json:"notice_period_days"`
	GracePeriodDays  int             `gorm:"not null;default:5" json:"grace_period_days"`
}

// UnitSummary is the cached aggregate a property carries about its units.
// It is always recomputed from the full unit set, never patched incrementally.
type UnitSummary struct {
	TotalUnits       int             `gorm:"not null;default:0" json:"total_units"`
	VacantCount      int             `gorm:"not null;default:0" json:"vacant_count"`
	LeasedCount      int             `gorm:"not null;default:0" json:"leased_count"`
	MaintenanceCount int             `gorm:"not null;default:0" json:"maintenance_count"`
	OccupancyRate    int             `gorm:"not null;default:0" json:"occupancy_rate"`
	MonthlyRevenue   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"monthly_revenue"`
	TotalTenants     int             `gorm:"not null;default:0" json:"total_tenants"`
}

// Property is the aggregate root for a building or complex and its units
type Property struct {
	shared.BaseAggregateRoot
	Name         string       `gorm:"size:200;not null" json:"name"`
	Address      string       `gorm:"size:300;not null" json:"address"`
	City         string       `gorm:"size:100;not null" json:"city"`
	Country      string       `gorm:"size:100;not null;default:'Kenya'" json:"country"`
	PropertyType PropertyType `gorm:"size:30;not null" json:"property_type"`
	Bedrooms     int          `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms    int          `gorm:"not null;default:0" json:"bathrooms"`
	RentAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rent_amount"`
	FeePolicy    FeePolicy    `gorm:"embedded;embeddedPrefix:fee_" json:"fee_policy"`
	Amenities    StringList   `gorm:"type:text" json:"amenities"`
	Images       StringList   `gorm:"type:text" json:"images"`
	LandlordID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Summary      UnitSummary  `gorm:"embedded;embeddedPrefix:summary_" json:"summary"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a new property
func NewProperty(name, address, city, country string, propertyType PropertyType, landlordID uuid.UUID) (*Property, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property name is required")
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property address is required")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY", fmt.Sprintf("Invalid property type: %s", propertyType))
	}
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Landlord is required")
	}
	if country == "" {
		country = "Kenya"
	}

	return &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Address:           strings.TrimSpace(address),
		City:              strings.TrimSpace(city),
		Country:           country,
		PropertyType:      propertyType,
		FeePolicy: FeePolicy{
			LeaseTermMonths:  12,
			NoticePeriodDays: 30,
			GracePeriodDays:  5,
		},
	}, nil
}

// UpdateDetails updates the property's descriptive fields
func (p *Property) UpdateDetails(name, address, city, country string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PROPERTY", "Property name is required")
	}
	if strings.TrimSpace(address) == "" {
		return shared.NewDomainError("INVALID_PROPERTY", "Property address is required")
	}
	p.Name = strings.TrimSpace(name)
	p.Address = strings.TrimSpace(address)
	p.City = strings.TrimSpace(city)
	if country != "" {
		p.Country = country
	}
	p.IncrementVersion()
	return nil
}

// UpdateFeePolicy replaces the property's fee policy
func (p *Property) UpdateFeePolicy(policy FeePolicy) error {
	if policy.LeaseTermMonths <= 0 {
		return shared.NewDomainError("INVALID_FEE_POLICY", "Lease term must be positive")
	}
	if policy.NoticePeriodDays < 0 || policy.GracePeriodDays < 0 {
		return shared.NewDomainError("INVALID_FEE_POLICY", "Notice and grace periods cannot be negative")
	}
	if policy.ApplicationFee.IsNegative() || policy.SecurityDeposit.IsNegative() ||
		policy.PetDeposit.IsNegative() || policy.LatePaymentFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE_POLICY", "Fees cannot be negative")
	}
	p.FeePolicy = policy
	p.IncrementVersion()
	return nil
}

// ApplySummary replaces the cached unit aggregate
func (p *Property) ApplySummary(summary UnitSummary) {
	p.Summary = summary
	p.IncrementVersion()
}

// ComputeUnitSummary derives a property's aggregate from the complete current
// unit set. Callers must pass every unit of the property, not a delta; the
// aggregate is recomputed from scratch to avoid counter drift.
func ComputeUnitSummary(units []Unit) UnitSummary {
	summary := UnitSummary{
		TotalUnits:     len(units),
		MonthlyRevenue: decimal.Zero,
	}
	for i := range units {
		st := units[i].ResolveStatus()
		switch st.Occupancy {
		case OccupancyLeased:
			summary.LeasedCount++
			summary.MonthlyRevenue = summary.MonthlyRevenue.Add(units[i].RentAmount)
		default:
			summary.VacantCount++
		}
		if st.Maintenance == MaintenanceUnderMaintenance {
			summary.MaintenanceCount++
		}
	}
	if summary.TotalUnits > 0 {
		summary.OccupancyRate = int(math.Round(float64(summary.LeasedCount) / float64(summary.TotalUnits) * 100))
	}
	summary.TotalTenants = summary.LeasedCount
	return summary
}

// UnitDefaults returns the bedroom and bathroom counts for a generated unit.
// index is the 1-based ordinal of the unit within the property. The mixed
// one_two_bedroom type alternates by parity: odd ordinals are 1BR/1BA, even
// ordinals 2BR/2BA.
func (p *Property) UnitDefaults(index int) (bedrooms, bathrooms int) {
	switch p.PropertyType {
	case PropertyTypeOneTwoBedroom:
		if index%2 == 1 {
			return 1, 1
		}
		return 2, 2
	case PropertyTypeSingle, PropertyTypeBedsitter, PropertyTypeOneBedroom:
		return 1, 1
	case PropertyTypeTwoBedroom:
		return 2, 2
	case PropertyTypeThreeBedroom:
		return 3, 2
	case PropertyTypeCommercial:
		return 0, 1
	default:
		if p.Bedrooms > 0 {
			bathrooms = p.Bathrooms
			if bathrooms <= 0 {
				bathrooms = 1
			}
			return p.Bedrooms, bathrooms
		}
		return 1, 1
	}
}
