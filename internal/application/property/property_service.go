package property

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// PropertyService handles property lifecycle operations. Workflows that touch
// a property together with its unit set run inside a single transaction so the
// cached summary never diverges from the units it was computed from.
type PropertyService struct {
	db         *gorm.DB
	properties property.PropertyRepository
	units      property.UnitRepository
	tenants    leasing.TenantRepository
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(db *gorm.DB, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		db:         db,
		properties: persistence.NewGormPropertyRepository(db),
		units:      persistence.NewGormUnitRepository(db),
		tenants:    persistence.NewGormTenantRepository(db),
		logger:     logger,
	}
}

// Create creates a property and bulk-generates its initial unit set
func (s *PropertyService) Create(ctx context.Context, req CreatePropertyRequest) (*PropertyResponse, error) {
	p, err := property.NewProperty(req.Name, req.Address, req.City, req.Country,
		property.PropertyType(req.PropertyType), req.LandlordID)
	if err != nil {
		return nil, err
	}
	p.Bedrooms = req.Bedrooms
	p.Bathrooms = req.Bathrooms
	p.RentAmount = req.RentAmount
	p.Amenities = req.Amenities
	p.Images = req.Images
	if err := p.UpdateFeePolicy(mergeFeePolicy(p.FeePolicy, req.FeePolicy)); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties := persistence.NewGormPropertyRepository(tx)
		units := persistence.NewGormUnitRepository(tx)

		generated, err := generateUnits(p, 1, req.Units)
		if err != nil {
			return err
		}
		p.ApplySummary(property.ComputeUnitSummary(generated))
		if err := properties.Save(ctx, p); err != nil {
			return err
		}
		for i := range generated {
			if err := units.Save(ctx, &generated[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("property created",
		zap.String("property_id", p.ID.String()),
		zap.Int("units", req.Units))

	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Get returns one property
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// List returns a paginated page of properties
func (s *PropertyService) List(ctx context.Context, filter PropertyListFilter) (*shared.Paginated[PropertyResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.LandlordID != "" {
		f.Filters["landlord_id"] = filter.LandlordID
	}
	if filter.PropertyType != "" {
		f.Filters["property_type"] = filter.PropertyType
	}
	if filter.City != "" {
		f.Filters["city"] = filter.City
	}

	page, err := s.properties.FindPaginated(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]PropertyResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToPropertyResponse(&page.Items[i])
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListUnits returns a property's units with resolved statuses
func (s *PropertyService) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]UnitResponse, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	units, err := s.units.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return ToUnitResponses(units), nil
}

// Update edits a property. A changed unit count is reconciled against the
// actual unit set: growth appends new numbered units, shrinkage removes the
// highest-numbered units and only if every removal candidate is vacant. Fee
// policy edits cascade to every surviving unit.
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	var p *property.Property

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties := persistence.NewGormPropertyRepository(tx)
		unitRepo := persistence.NewGormUnitRepository(tx)

		var err error
		p, err = properties.FindByID(ctx, id)
		if err != nil {
			return err
		}

		name, address, city, country := p.Name, p.Address, p.City, p.Country
		if req.Name != nil {
			name = *req.Name
		}
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.Country != nil {
			country = *req.Country
		}
		if err := p.UpdateDetails(name, address, city, country); err != nil {
			return err
		}
		if req.RentAmount != nil {
			if req.RentAmount.IsNegative() {
				return shared.NewDomainError("INVALID_PROPERTY", "Rent amount cannot be negative")
			}
			p.RentAmount = *req.RentAmount
		}
		if req.Amenities != nil {
			p.Amenities = req.Amenities
		}
		if req.Images != nil {
			p.Images = req.Images
		}
		if req.FeePolicy != nil {
			if err := p.UpdateFeePolicy(mergeFeePolicy(p.FeePolicy, *req.FeePolicy)); err != nil {
				return err
			}
		}

		units, err := unitRepo.FindByPropertyID(ctx, id)
		if err != nil {
			return err
		}

		if req.Units != nil && *req.Units != len(units) {
			units, err = s.syncUnitCount(ctx, unitRepo, p, units, *req.Units)
			if err != nil {
				return err
			}
		}

		// The property edit overwrites unit fee fields unconditionally, so a
		// unit never keeps a stale policy after its property changed.
		for i := range units {
			units[i].ApplyPropertyPolicy(p)
			if req.RentAmount != nil {
				units[i].RentAmount = *req.RentAmount
			}
			if err := unitRepo.Save(ctx, &units[i]); err != nil {
				return err
			}
		}

		p.ApplySummary(property.ComputeUnitSummary(units))
		return properties.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Refresh recomputes the property's summary from its current unit set and
// reports any tenant/unit pairing inconsistencies it finds along the way
func (s *PropertyService) Refresh(ctx context.Context, id uuid.UUID) (*RefreshReport, error) {
	var report RefreshReport

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties := persistence.NewGormPropertyRepository(tx)
		unitRepo := persistence.NewGormUnitRepository(tx)
		tenantRepo := persistence.NewGormTenantRepository(tx)

		p, err := properties.FindByID(ctx, id)
		if err != nil {
			return err
		}
		units, err := unitRepo.FindByPropertyID(ctx, id)
		if err != nil {
			return err
		}
		tenants, err := tenantRepo.FindByPropertyID(ctx, id)
		if err != nil {
			return err
		}

		report.Violations = detectPairingViolations(units, tenants)

		p.ApplySummary(property.ComputeUnitSummary(units))
		if err := properties.Save(ctx, p); err != nil {
			return err
		}

		report.Property = ToPropertyResponse(p)
		report.Units = ToUnitResponses(units)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(report.Violations) > 0 {
		s.logger.Warn("tenant pairing violations found during refresh",
			zap.String("property_id", id.String()),
			zap.Int("violations", len(report.Violations)))
	}

	return &report, nil
}

// syncUnitCount reconciles the stored unit set with the requested count and
// returns the surviving units. Shrinking aborts without deleting anything if
// any removal candidate is not vacant.
func (s *PropertyService) syncUnitCount(ctx context.Context, unitRepo property.UnitRepository,
	p *property.Property, units []property.Unit, desired int) ([]property.Unit, error) {

	if desired > len(units) {
		generated, err := generateUnits(p, highestUnitNumber(units)+1, desired-len(units))
		if err != nil {
			return nil, err
		}
		for i := range generated {
			if err := unitRepo.Save(ctx, &generated[i]); err != nil {
				return nil, err
			}
		}
		return append(units, generated...), nil
	}

	// Shrink from the top of the numbering so the remaining set stays dense.
	sorted := make([]property.Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool {
		return unitOrdinal(sorted[i].UnitNumber) > unitOrdinal(sorted[j].UnitNumber)
	})
	candidates := sorted[:len(units)-desired]

	var blocked []string
	for i := range candidates {
		if candidates[i].ResolveStatus().Occupancy == property.OccupancyLeased {
			blocked = append(blocked, candidates[i].UnitNumber)
		}
	}
	if len(blocked) > 0 {
		sort.Strings(blocked)
		return nil, shared.NewDomainError("UNITS_OCCUPIED",
			fmt.Sprintf("Cannot reduce units: unit(s) %s are occupied. Move out the tenants first.",
				strings.Join(blocked, ", ")))
	}

	for i := range candidates {
		if err := unitRepo.Delete(ctx, candidates[i].ID); err != nil {
			return nil, err
		}
	}
	return sorted[len(units)-desired:], nil
}

// generateUnits creates count vacant units numbered sequentially from start
func generateUnits(p *property.Property, start, count int) ([]property.Unit, error) {
	units := make([]property.Unit, 0, count)
	for i := 0; i < count; i++ {
		ordinal := start + i
		bedrooms, bathrooms := p.UnitDefaults(ordinal)
		u, err := property.NewUnit(p.ID, fmt.Sprintf("%03d", ordinal), p.RentAmount, bedrooms, bathrooms)
		if err != nil {
			return nil, err
		}
		u.ApplyPropertyPolicy(p)
		units = append(units, *u)
	}
	return units, nil
}

// highestUnitNumber returns the largest numeric unit number in the set
func highestUnitNumber(units []property.Unit) int {
	highest := 0
	for i := range units {
		if n := unitOrdinal(units[i].UnitNumber); n > highest {
			highest = n
		}
	}
	return highest
}

func unitOrdinal(number string) int {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return 0
	}
	return n
}

// detectPairingViolations cross-checks tenant records against unit linkage
func detectPairingViolations(units []property.Unit, tenants []leasing.Tenant) []PairingViolation {
	unitsByID := make(map[uuid.UUID]*property.Unit, len(units))
	for i := range units {
		unitsByID[units[i].ID] = &units[i]
	}

	var violations []PairingViolation
	for i := range tenants {
		t := &tenants[i]
		if t.Status == leasing.TenantStatusInactive {
			continue
		}
		u, ok := unitsByID[t.UnitID]
		if !ok {
			violations = append(violations, PairingViolation{
				TenantID:   t.ID,
				TenantName: t.FullName,
				UnitID:     t.UnitID,
				Reason:     "tenant references a unit that no longer exists",
			})
			continue
		}
		if u.TenantID == nil || *u.TenantID != t.ID {
			violations = append(violations, PairingViolation{
				TenantID:   t.ID,
				TenantName: t.FullName,
				UnitID:     u.ID,
				Reason:     "unit does not reference the tenant back",
			})
		}
	}
	return violations
}

// mergeFeePolicy overlays request values onto the current policy, keeping
// existing term defaults when the request leaves them zero
func mergeFeePolicy(current property.FeePolicy, req FeePolicyRequest) property.FeePolicy {
	merged := property.FeePolicy{
		ApplicationFee:   req.ApplicationFee,
		SecurityDeposit:  req.SecurityDeposit,
		PetDeposit:       req.PetDeposit,
		LatePaymentFee:   req.LatePaymentFee,
		LeaseTermMonths:  req.LeaseTermMonths,
		NoticePeriodDays: req.NoticePeriodDays,
		GracePeriodDays:  req.GracePeriodDays,
	}
	if merged.LeaseTermMonths == 0 {
		merged.LeaseTermMonths = current.LeaseTermMonths
	}
	if merged.NoticePeriodDays == 0 {
		merged.NoticePeriodDays = current.NoticePeriodDays
	}
	if merged.GracePeriodDays == 0 {
		merged.GracePeriodDays = current.GracePeriodDays
	}
	return merged
}
