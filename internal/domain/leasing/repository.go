package leasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// TenantRepository defines the persistence interface for tenants
type TenantRepository interface {
	shared.Repository[Tenant]
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Tenant, error)
	FindByUnitID(ctx context.Context, unitID uuid.UUID) (*Tenant, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Tenant], error)
	DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error)
}

// ApplicationRepository defines the persistence interface for rental applications
type ApplicationRepository interface {
	shared.Repository[Application]
	FindPendingByUnitID(ctx context.Context, unitID uuid.UUID) ([]Application, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Application], error)
}
