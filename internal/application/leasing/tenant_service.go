package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// TenantService handles the tenant lifecycle. Assignment and removal touch
// the tenant, the unit and the property summary together, so both run in a
// single transaction.
type TenantService struct {
	db      *gorm.DB
	tenants leasing.TenantRepository
	logger  *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(db *gorm.DB, logger *zap.Logger) *TenantService {
	return &TenantService{
		db:      db,
		tenants: persistence.NewGormTenantRepository(db),
		logger:  logger,
	}
}

// Assign creates a tenant bound to a vacant unit. The unit is claimed with a
// conditional update, so two concurrent assignments to the same unit cannot
// both succeed; the loser gets ErrUnitOccupied and nothing is persisted.
func (s *TenantService) Assign(ctx context.Context, req AssignTenantRequest) (*TenantResponse, error) {
	var tenant *leasing.Tenant

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tenant, err = assignTenantTx(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant assigned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("unit_id", req.UnitID.String()))

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Get returns one tenant
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// List returns a paginated page of tenants
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) (*shared.Paginated[TenantResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PropertyID != "" {
		f.Filters["property_id"] = filter.PropertyID
	}

	page, err := s.tenants.FindPaginated(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]TenantResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToTenantResponse(&page.Items[i])
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Deactivate marks a tenant inactive without vacating their unit
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// Delete removes a tenant and vacates their unit. This is the only path that
// takes a unit from leased back to vacant.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenants := persistence.NewGormTenantRepository(tx)
		units := persistence.NewGormUnitRepository(tx)

		t, err := tenants.FindByID(ctx, id)
		if err != nil {
			return err
		}

		unit, err := units.FindByID(ctx, t.UnitID)
		if err == nil {
			if unit.TenantID != nil && *unit.TenantID == t.ID {
				unit.ClearTenant()
				if err := units.Save(ctx, unit); err != nil {
					return err
				}
			}
		} else if err != shared.ErrNotFound {
			return err
		}

		if err := tenants.Delete(ctx, t.ID); err != nil {
			return err
		}
		return resyncSummary(ctx, tx, t.PropertyID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tenant removed", zap.String("tenant_id", id.String()))
	return nil
}

// assignTenantTx performs the assignment workflow inside an existing
// transaction: create the tenant, claim the unit with a conditional update,
// and resync the property summary. The claim writes only if the stored
// occupancy is still vacant, so the loser of a concurrent assignment rolls
// back with ErrUnitOccupied.
func assignTenantTx(ctx context.Context, tx *gorm.DB, req AssignTenantRequest) (*leasing.Tenant, error) {
	units := persistence.NewGormUnitRepository(tx)
	properties := persistence.NewGormPropertyRepository(tx)
	tenants := persistence.NewGormTenantRepository(tx)

	unit, err := units.FindByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.ResolveStatus().Occupancy != property.OccupancyVacant {
		return nil, shared.ErrUnitOccupied
	}
	parent, err := properties.FindByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, err
	}

	leaseStart := time.Now()
	if req.LeaseStart != nil {
		leaseStart = *req.LeaseStart
	}
	leaseEnd := leaseStart.AddDate(0, parent.FeePolicy.LeaseTermMonths, 0)
	if req.LeaseEnd != nil {
		leaseEnd = *req.LeaseEnd
	}

	fin := leasing.Financials{
		MonthlyRent:     unit.RentAmount,
		SecurityDeposit: unit.FeePolicy.SecurityDeposit,
		ApplicationFee:  unit.FeePolicy.ApplicationFee,
		PetDeposit:      unit.FeePolicy.PetDeposit,
	}
	tenant, err := leasing.NewTenant(req.FullName, req.Email, req.Phone, fin,
		unit.PropertyID, unit.ID, leaseStart, leaseEnd)
	if err != nil {
		return nil, err
	}
	tenant.IDNumber = req.IDNumber
	tenant.Occupation = req.Occupation
	tenant.Employer = req.Employer
	tenant.LeaseTermMonths = parent.FeePolicy.LeaseTermMonths
	tenant.NoticePeriodDays = parent.FeePolicy.NoticePeriodDays
	tenant.PropertyName = parent.Name
	tenant.UnitNumber = unit.UnitNumber
	tenant.Emergency = leasing.EmergencyContact{
		Name:         req.EmergencyName,
		Phone:        req.EmergencyPhone,
		Relationship: req.EmergencyRelationship,
	}

	if err := tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	if err := unit.AssignTenant(tenant.ID, tenant.FullName, tenant.Phone, tenant.Email, leaseStart, leaseEnd); err != nil {
		return nil, err
	}
	if err := units.LeaseIfVacant(ctx, unit); err != nil {
		return nil, err
	}

	if err := resyncSummary(ctx, tx, unit.PropertyID); err != nil {
		return nil, err
	}
	return tenant, nil
}

// resyncSummary recomputes a property's cached unit aggregate inside the
// caller's transaction
func resyncSummary(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) error {
	properties := persistence.NewGormPropertyRepository(tx)
	units := persistence.NewGormUnitRepository(tx)

	p, err := properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	all, err := units.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return err
	}
	p.ApplySummary(property.ComputeUnitSummary(all))
	return properties.Save(ctx, p)
}
