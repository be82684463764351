package landlord

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/billing"
	"github.com/nyumbani/backend/internal/domain/identity"
	"github.com/nyumbani/backend/internal/domain/landlord"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// LandlordService handles landlord lifecycle operations, including the
// cascading deletion that removes a landlord's entire portfolio
type LandlordService struct {
	db        *gorm.DB
	landlords landlord.LandlordRepository
	logger    *zap.Logger
}

// NewLandlordService creates a new LandlordService
func NewLandlordService(db *gorm.DB, logger *zap.Logger) *LandlordService {
	return &LandlordService{
		db:        db,
		landlords: persistence.NewGormLandlordRepository(db),
		logger:    logger,
	}
}

// Create creates a landlord and, if a password was given, a linked
// landlord-role console account
func (s *LandlordService) Create(ctx context.Context, req CreateLandlordRequest) (*LandlordResponse, error) {
	if existing, err := s.landlords.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	l, err := landlord.NewLandlord(req.FullName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	l.IDNumber = req.IDNumber
	l.Address = req.Address
	l.UpdateBanking(req.BankName, req.BankBranch, req.AccountName, req.AccountNumber, req.MpesaNumber)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		landlords := persistence.NewGormLandlordRepository(tx)
		if err := landlords.Save(ctx, l); err != nil {
			return err
		}

		if req.Password != "" {
			users := persistence.NewGormUserRepository(tx)
			u, err := identity.NewUser(req.Email, req.Password, req.FullName, identity.RoleLandlord)
			if err != nil {
				return err
			}
			u.LinkLandlord(l.ID)
			if err := users.Save(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("landlord created", zap.String("landlord_id", l.ID.String()))

	resp := ToLandlordResponse(l)
	return &resp, nil
}

// Get returns one landlord
func (s *LandlordService) Get(ctx context.Context, id uuid.UUID) (*LandlordResponse, error) {
	l, err := s.landlords.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLandlordResponse(l)
	return &resp, nil
}

// List returns a paginated page of landlords
func (s *LandlordService) List(ctx context.Context, filter LandlordListFilter) (*shared.Paginated[LandlordResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	page, err := s.landlords.FindPaginated(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]LandlordResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToLandlordResponse(&page.Items[i])
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update edits a landlord's contact and payout details
func (s *LandlordService) Update(ctx context.Context, id uuid.UUID, req UpdateLandlordRequest) (*LandlordResponse, error) {
	l, err := s.landlords.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fullName, email, phone, address := l.FullName, l.Email, l.Phone, l.Address
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := l.UpdateContact(fullName, email, phone, address); err != nil {
		return nil, err
	}

	bankName, bankBranch := l.BankName, l.BankBranch
	accountName, accountNumber, mpesa := l.AccountName, l.AccountNumber, l.MpesaNumber
	if req.BankName != nil {
		bankName = *req.BankName
	}
	if req.BankBranch != nil {
		bankBranch = *req.BankBranch
	}
	if req.AccountName != nil {
		accountName = *req.AccountName
	}
	if req.AccountNumber != nil {
		accountNumber = *req.AccountNumber
	}
	if req.MpesaNumber != nil {
		mpesa = *req.MpesaNumber
	}
	l.UpdateBanking(bankName, bankBranch, accountName, accountNumber, mpesa)

	if err := s.landlords.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLandlordResponse(l)
	return &resp, nil
}

// Delete removes a landlord and everything they own in one transaction.
// Completed payments are copied to the archive before the originals go, so
// the financial record survives the deletion. Pending and failed payments
// are dropped outright.
func (s *LandlordService) Delete(ctx context.Context, id uuid.UUID) (*landlord.DeletionReport, error) {
	report := &landlord.DeletionReport{LandlordID: id}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		landlords := persistence.NewGormLandlordRepository(tx)
		properties := persistence.NewGormPropertyRepository(tx)
		units := persistence.NewGormUnitRepository(tx)
		tenants := persistence.NewGormTenantRepository(tx)
		payments := persistence.NewGormPaymentRepository(tx)
		archived := persistence.NewGormArchivedPaymentRepository(tx)
		users := persistence.NewGormUserRepository(tx)

		l, err := landlords.FindByID(ctx, id)
		if err != nil {
			return err
		}

		owned, err := payments.FindByLandlordID(ctx, l.ID)
		if err != nil {
			return err
		}
		for i := range owned {
			p := &owned[i]
			if p.Status == billing.PaymentStatusCompleted {
				arch, err := p.Archive("landlord account deleted")
				if err != nil {
					return err
				}
				if err := archived.Save(ctx, arch); err != nil {
					return err
				}
				report.PaymentsArchived++
			}
			if err := payments.Delete(ctx, p.ID); err != nil {
				return err
			}
			report.PaymentsDeleted++
		}

		portfolio, err := properties.FindByLandlordID(ctx, l.ID)
		if err != nil {
			return err
		}
		for i := range portfolio {
			p := &portfolio[i]
			removedTenants, err := tenants.DeleteByPropertyID(ctx, p.ID)
			if err != nil {
				return err
			}
			removedUnits, err := units.DeleteByPropertyID(ctx, p.ID)
			if err != nil {
				return err
			}
			if err := properties.Delete(ctx, p.ID); err != nil {
				return err
			}
			report.TenantsDeleted += int(removedTenants)
			report.UnitsDeleted += int(removedUnits)
			report.PropertiesDeleted++
		}

		u, err := users.FindByLandlordID(ctx, l.ID)
		if err == nil {
			if err := users.Delete(ctx, u.ID); err != nil {
				return err
			}
			report.UserDeleted = true
		} else if err != shared.ErrNotFound {
			return err
		}

		return landlords.Delete(ctx, l.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("landlord deleted",
		zap.String("landlord_id", id.String()),
		zap.Int("properties", report.PropertiesDeleted),
		zap.Int("payments_archived", report.PaymentsArchived))

	return report, nil
}
