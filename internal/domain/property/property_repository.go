package property

import (
	"context"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// PropertyRepository defines the persistence interface for properties
type PropertyRepository interface {
	shared.Repository[Property]
	FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]Property, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Property], error)
}

// UnitRepository defines the persistence interface for units
type UnitRepository interface {
	shared.Repository[Unit]
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Unit, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Unit], error)
	// LeaseIfVacant performs a conditional vacant to leased update for the
	// given unit, writing tenant linkage only if the stored occupancy is
	// still vacant. Returns shared.ErrUnitOccupied when the unit was taken
	// by a concurrent assignment.
	LeaseIfVacant(ctx context.Context, unit *Unit) error
	DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error)
}
