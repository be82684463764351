package leasing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// ApplicationService handles rental application intake and review
type ApplicationService struct {
	db           *gorm.DB
	applications leasing.ApplicationRepository
	logger       *zap.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(db *gorm.DB, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		db:           db,
		applications: persistence.NewGormApplicationRepository(db),
		logger:       logger,
	}
}

// Submit records a prospective tenant's application for a unit
func (s *ApplicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*ApplicationResponse, error) {
	units := persistence.NewGormUnitRepository(s.db)
	if _, err := units.FindByID(ctx, req.UnitID); err != nil {
		return nil, err
	}

	a, err := leasing.NewApplication(req.FullName, req.Email, req.Phone, req.PropertyID, req.UnitID)
	if err != nil {
		return nil, err
	}
	a.IDNumber = req.IDNumber
	a.Occupation = req.Occupation
	a.Employer = req.Employer
	a.MonthlyIncome = req.MonthlyIncome
	a.DesiredMoveIn = req.DesiredMoveIn

	if err := s.applications.Save(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.String("application_id", a.ID.String()),
		zap.String("unit_id", req.UnitID.String()))

	resp := ToApplicationResponse(a)
	return &resp, nil
}

// Get returns one application
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*ApplicationResponse, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToApplicationResponse(a)
	return &resp, nil
}

// List returns a paginated page of applications. Soft-deleted applications
// are excluded by the repository.
func (s *ApplicationService) List(ctx context.Context, filter ApplicationListFilter) (*shared.Paginated[ApplicationResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	f.Filters["admin_deleted"] = false
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PropertyID != "" {
		f.Filters["property_id"] = filter.PropertyID
	}
	if filter.UnitID != "" {
		f.Filters["unit_id"] = filter.UnitID
	}

	page, err := s.applications.FindPaginated(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]ApplicationResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToApplicationResponse(&page.Items[i])
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Approve approves a pending application and assigns the applicant to the
// unit as a tenant. Competing pending applications for the same unit are
// rejected in the same transaction, since the unit can no longer be theirs.
func (s *ApplicationService) Approve(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	var tenant *TenantResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applications := persistence.NewGormApplicationRepository(tx)

		a, err := applications.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.Approve(); err != nil {
			return err
		}
		if err := applications.Save(ctx, a); err != nil {
			return err
		}

		t, err := assignTenantTx(ctx, tx, AssignTenantRequest{
			UnitID:     a.UnitID,
			FullName:   a.FullName,
			Email:      a.Email,
			Phone:      a.Phone,
			IDNumber:   a.IDNumber,
			Occupation: a.Occupation,
			Employer:   a.Employer,
		})
		if err != nil {
			return err
		}

		competing, err := applications.FindPendingByUnitID(ctx, a.UnitID)
		if err != nil {
			return err
		}
		for i := range competing {
			if competing[i].ID == a.ID {
				continue
			}
			if err := competing[i].Reject("Unit was leased to another applicant"); err != nil {
				return err
			}
			if err := applications.Save(ctx, &competing[i]); err != nil {
				return err
			}
		}

		resp := ToTenantResponse(t)
		tenant = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application approved",
		zap.String("application_id", id.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return tenant, nil
}

// Reject rejects a pending application with an optional review note
func (s *ApplicationService) Reject(ctx context.Context, id uuid.UUID, req RejectApplicationRequest) (*ApplicationResponse, error) {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Reject(req.Note); err != nil {
		return nil, err
	}
	if err := s.applications.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToApplicationResponse(a)
	return &resp, nil
}

// Delete hides an application from the admin listing without destroying the
// record
func (s *ApplicationService) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	a.HideFromAdmin()
	return s.applications.Save(ctx, a)
}
