package property

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// UpdateUnitStatusRequest changes one or both status axes of a unit
type UpdateUnitStatusRequest struct {
	OccupancyStatus   *string `json:"occupancy_status" binding:"omitempty,oneof=vacant leased"`
	MaintenanceStatus *string `json:"maintenance_status" binding:"omitempty,oneof=normal under_maintenance"`
}

// UnitService handles unit-level operations. Status changes recompute the
// parent property's summary in the same transaction.
type UnitService struct {
	db     *gorm.DB
	units  property.UnitRepository
	logger *zap.Logger
}

// NewUnitService creates a new UnitService
func NewUnitService(db *gorm.DB, logger *zap.Logger) *UnitService {
	return &UnitService{
		db:     db,
		units:  persistence.NewGormUnitRepository(db),
		logger: logger,
	}
}

// Get returns one unit with its resolved status
func (s *UnitService) Get(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	u, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// UpdateStatus applies status edits to a unit. Maintenance toggles freely on
// both vacant and leased units; occupancy edits go through the domain rules,
// so a leased unit cannot be vacated here and a vacant unit cannot be marked
// leased without a tenant.
func (s *UnitService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateUnitStatusRequest) (*UnitResponse, error) {
	if req.OccupancyStatus == nil && req.MaintenanceStatus == nil {
		return nil, shared.NewDomainError("INVALID_UNIT_STATUS", "No status change given")
	}

	var u *property.Unit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := persistence.NewGormUnitRepository(tx)

		var err error
		u, err = units.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.MaintenanceStatus != nil {
			if err := u.SetMaintenance(property.MaintenanceStatus(*req.MaintenanceStatus)); err != nil {
				return err
			}
		}
		if req.OccupancyStatus != nil {
			if err := u.SetOccupancy(property.OccupancyStatus(*req.OccupancyStatus)); err != nil {
				return err
			}
		}
		if err := units.Save(ctx, u); err != nil {
			return err
		}
		return resyncPropertySummary(ctx, tx, u.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("unit status updated",
		zap.String("unit_id", id.String()),
		zap.String("status", u.Status))

	resp := ToUnitResponse(u)
	return &resp, nil
}

// resyncPropertySummary recomputes and persists a property's cached summary
// from its full current unit set, inside the caller's transaction
func resyncPropertySummary(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) error {
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
