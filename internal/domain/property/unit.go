package property

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// OccupancyStatus tracks whether a unit has a bound tenant
type OccupancyStatus string

const (
	OccupancyVacant OccupancyStatus = "vacant"
	OccupancyLeased OccupancyStatus = "leased"
)

// IsValid checks if the occupancy status is valid
func (s OccupancyStatus) IsValid() bool {
	return s == OccupancyVacant || s == OccupancyLeased
}

// MaintenanceStatus tracks repair work on a unit, independent of occupancy
type MaintenanceStatus string

const (
	MaintenanceNormal           MaintenanceStatus = "normal"
	MaintenanceUnderMaintenance MaintenanceStatus = "under_maintenance"
)

// IsValid checks if the maintenance status is valid
func (s MaintenanceStatus) IsValid() bool {
	return s == MaintenanceNormal || s == MaintenanceUnderMaintenance
}

// DisplayStatus collapses the two status axes into a single rendering label
type DisplayStatus string

const (
	DisplayVacant      DisplayStatus = "vacant"
	DisplayLeased      DisplayStatus = "leased"
	DisplayMaintenance DisplayStatus = "maintenance"
)

// UnitStatus is the canonical status triple of a unit
type UnitStatus struct {
	Occupancy   OccupancyStatus   `json:"occupancy_status"`
	Maintenance MaintenanceStatus `json:"maintenance_status"`
	Display     DisplayStatus     `json:"display_status"`
}

// DeriveDisplayStatus collapses an occupancy/maintenance pair into the single
// label used for rendering and for the legacy status column
func DeriveDisplayStatus(occupancy OccupancyStatus, maintenance MaintenanceStatus) DisplayStatus {
	if maintenance == MaintenanceUnderMaintenance {
		return DisplayMaintenance
	}
	if occupancy == OccupancyLeased {
		return DisplayLeased
	}
	return DisplayVacant
}

// ResolveUnitStatus normalizes any stored shape of unit status fields into the
// canonical triple. Records written before the dual-status fields existed only
// carry the legacy status string; for those, maintenance-flavored values map
// to under_maintenance with occupancy inferred from tenant linkage, and
// leased-flavored values map to leased. Anything unrecognized resolves to
// vacant and normal. The function is total: it never fails, whatever the
// combination of inputs.
func ResolveUnitStatus(occupancy OccupancyStatus, maintenance MaintenanceStatus, legacyStatus string, hasTenant bool) UnitStatus {
	if occupancy.IsValid() && maintenance.IsValid() {
		return UnitStatus{
			Occupancy:   occupancy,
			Maintenance: maintenance,
			Display:     DeriveDisplayStatus(occupancy, maintenance),
		}
	}

	occ := OccupancyVacant
	mnt := MaintenanceNormal
	switch strings.ToLower(strings.TrimSpace(legacyStatus)) {
	case "maintenance", "repair", "under_repair":
		mnt = MaintenanceUnderMaintenance
		if hasTenant {
			occ = OccupancyLeased
		}
	case "leased", "occupied", "rented":
		occ = OccupancyLeased
	}
	return UnitStatus{
		Occupancy:   occ,
		Maintenance: mnt,
		Display:     DeriveDisplayStatus(occ, mnt),
	}
}

// Unit is one rentable entity within a property
type Unit struct {
	shared.BaseEntity
	PropertyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"property_id"`
	UnitNumber string          `gorm:"size:10;not null;index" json:"unit_number"`
	UnitName   string          `gorm:"size:100" json:"unit_name"`
	RentAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rent_amount"`
	Bedrooms   int             `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms  int             `gorm:"not null;default:0" json:"bathrooms"`
	Size       string          `gorm:"size:50" json:"size"`
	Amenities  StringList      `gorm:"type:text" json:"amenities"`

	// Fee fields synced from the parent property. Property-level fee edits
	// overwrite these unconditionally; unit-level divergence does not survive
	// a property edit.
	FeePolicy    FeePolicy    `gorm:"embedded;embeddedPrefix:fee_" json:"fee_policy"`
	PropertyType PropertyType `gorm:"size:30;not null" json:"property_type"`

	Occupancy   OccupancyStatus   `gorm:"size:20;not null;default:'vacant'" json:"occupancy_status"`
	Maintenance MaintenanceStatus `gorm:"size:20;not null;default:'normal'" json:"maintenance_status"`
	// Legacy single-status column kept consistent with the derived display
	// status for older readers.
	Status string `gorm:"size:20;not null;default:'vacant'" json:"status"`

	TenantID    *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	TenantName  string     `gorm:"size:200" json:"tenant_name,omitempty"`
	TenantPhone string     `gorm:"size:30" json:"tenant_phone,omitempty"`
	TenantEmail string     `gorm:"size:200" json:"tenant_email,omitempty"`
	LeaseStart  *time.Time `json:"lease_start,omitempty"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a vacant unit under a property
func NewUnit(propertyID uuid.UUID, unitNumber string, rent decimal.Decimal, bedrooms, bathrooms int) (*Unit, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit must belong to a property")
	}
	if strings.TrimSpace(unitNumber) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit number is required")
	}
	if rent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Rent amount cannot be negative")
	}

	return &Unit{
		BaseEntity:  shared.NewBaseEntity(),
		PropertyID:  propertyID,
		UnitNumber:  strings.TrimSpace(unitNumber),
		UnitName:    fmt.Sprintf("Unit %s", strings.TrimSpace(unitNumber)),
		RentAmount:  rent,
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
		Occupancy:   OccupancyVacant,
		Maintenance: MaintenanceNormal,
		Status:      string(DisplayVacant),
	}, nil
}

// HasTenant reports whether the unit carries any tenant linkage
func (u *Unit) HasTenant() bool {
	return (u.TenantID != nil && *u.TenantID != uuid.Nil) || u.TenantName != ""
}

// ResolveStatus returns the canonical status triple for this unit,
// normalizing legacy records that predate the dual-status fields
func (u *Unit) ResolveStatus() UnitStatus {
	return ResolveUnitStatus(u.Occupancy, u.Maintenance, u.Status, u.HasTenant())
}

// syncStatusFields writes the derived display status back onto the legacy column
func (u *Unit) syncStatusFields() {
	u.Status = string(DeriveDisplayStatus(u.Occupancy, u.Maintenance))
	u.UpdatedAt = time.Now()
}

// SetMaintenance toggles maintenance regardless of occupancy
func (u *Unit) SetMaintenance(status MaintenanceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_UNIT_STATUS", fmt.Sprintf("Invalid maintenance status: %s", status))
	}
	u.Maintenance = status
	u.syncStatusFields()
	return nil
}

// SetOccupancy changes occupancy via direct edit. The leased to vacant
// transition is rejected here: a leased unit is only vacated through tenant
// deletion, which calls ClearTenant. The vacant to leased transition is also
// rejected, since leasing must carry tenant linkage via AssignTenant.
func (u *Unit) SetOccupancy(status OccupancyStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_UNIT_STATUS", fmt.Sprintf("Invalid occupancy status: %s", status))
	}
	resolved := u.ResolveStatus()
	if resolved.Occupancy == OccupancyLeased && status == OccupancyVacant {
		return shared.ErrOccupancyLocked
	}
	if resolved.Occupancy == OccupancyVacant && status == OccupancyLeased {
		return shared.NewDomainError("INVALID_UNIT_STATUS", "A unit is leased by assigning a tenant, not by editing its status")
	}
	u.Occupancy = status
	u.syncStatusFields()
	return nil
}

// AssignTenant binds a tenant to the unit and marks it leased.
// The unit must be vacant; maintenance state does not block assignment.
func (u *Unit) AssignTenant(tenantID uuid.UUID, name, phone, email string, leaseStart, leaseEnd time.Time) error {
	if tenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_UNIT", "Tenant id is required")
	}
	if u.ResolveStatus().Occupancy != OccupancyVacant {
		return shared.ErrUnitOccupied
	}
	id := tenantID
	u.TenantID = &id
	u.TenantName = name
	u.TenantPhone = phone
	u.TenantEmail = email
	u.LeaseStart = &leaseStart
	u.LeaseEnd = &leaseEnd
	u.Occupancy = OccupancyLeased
	u.syncStatusFields()
	return nil
}

// ClearTenant removes tenant linkage and vacates the unit. This is the only
// sanctioned leased to vacant transition.
func (u *Unit) ClearTenant() {
	u.TenantID = nil
	u.TenantName = ""
	u.TenantPhone = ""
	u.TenantEmail = ""
	u.LeaseStart = nil
	u.LeaseEnd = nil
	u.Occupancy = OccupancyVacant
	u.syncStatusFields()
}

// ApplyPropertyPolicy overwrites the unit's fee fields, amenities and type
// from the parent property's current values
func (u *Unit) ApplyPropertyPolicy(p *Property) {
	u.FeePolicy = p.FeePolicy
	u.PropertyType = p.PropertyType
	if len(p.Amenities) > 0 {
		u.Amenities = append(StringList{}, p.Amenities...)
	}
	u.UpdatedAt = time.Now()
}
