package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/nyumbani/backend/internal/domain/shared"
)

// PaymentRepository defines the persistence interface for payments
type PaymentRepository interface {
	shared.Repository[Payment]
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*Payment, error)
	FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]Payment, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]Payment, error)
	FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[Payment], error)
	SumCompletedByMonth(ctx context.Context, month string) (float64, error)
}

// ArchivedPaymentRepository defines the persistence interface for archived payments
type ArchivedPaymentRepository interface {
	Save(ctx context.Context, archived *ArchivedPayment) error
	FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]ArchivedPayment, error)
}
