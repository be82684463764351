package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/billing"
	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/payment"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// STKPusher initiates M-Pesa STK push prompts
type STKPusher interface {
	InitiateSTKPush(ctx context.Context, req payment.STKPushRequest) (*payment.STKPushResponse, error)
}

// PaymentService handles M-Pesa payment initiation and settlement
type PaymentService struct {
	db          *gorm.DB
	payments    billing.PaymentRepository
	gateway     STKPusher
	idempotency shared.IdempotencyStore
	dedupeTTL   time.Duration
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(db *gorm.DB, gateway STKPusher, idempotency shared.IdempotencyStore,
	dedupeTTL time.Duration, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		db:          db,
		payments:    persistence.NewGormPaymentRepository(db),
		gateway:     gateway,
		idempotency: idempotency,
		dedupeTTL:   dedupeTTL,
		logger:      logger,
	}
}

// Initiate pushes a payment prompt to the tenant's phone and records a
// pending payment keyed by the gateway's checkout request id
func (s *PaymentService) Initiate(ctx context.Context, req InitiatePaymentRequest) (*PaymentResponse, error) {
	tenants := persistence.NewGormTenantRepository(s.db)
	properties := persistence.NewGormPropertyRepository(s.db)

	tenant, err := tenants.FindByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	parent, err := properties.FindByID(ctx, tenant.PropertyID)
	if err != nil {
		return nil, err
	}

	paymentType := billing.PaymentType(req.Type)
	if req.Type == "" {
		paymentType = billing.PaymentTypeRent
		if tenant.Status == leasing.TenantStatusApprovedPendingPayment {
			paymentType = billing.PaymentTypeMoveIn
		}
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = tenant.Financials.MonthlyRent
		if paymentType == billing.PaymentTypeMoveIn {
			amount = tenant.Financials.TotalMoveInCost
		}
	}

	phone := req.Phone
	if phone == "" {
		phone = tenant.Phone
	}
	month := req.Month
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	push, err := s.gateway.InitiateSTKPush(ctx, payment.STKPushRequest{
		Phone:            phone,
		Amount:           amount,
		AccountReference: tenant.UnitNumber,
		Description:      string(paymentType),
	})
	if err != nil {
		return nil, err
	}

	p, err := billing.NewPayment(tenant.ID, tenant.PropertyID, parent.LandlordID,
		amount, phone, month, push.CheckoutRequestID, paymentType)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("payment initiated",
		zap.String("payment_id", p.ID.String()),
		zap.String("checkout_request_id", p.CheckoutRequestID))

	resp := ToPaymentResponse(p)
	return &resp, nil
}

// HandleCallback settles a payment from the gateway's result delivery.
// Re-deliveries of an already-settled callback are dropped: the dedupe store
// catches most of them, and the payment state machine rejects the rest since
// only a pending payment can complete or fail.
func (s *PaymentService) HandleCallback(ctx context.Context, cb MpesaCallback) error {
	checkoutID := cb.Body.StkCallback.CheckoutRequestID
	if checkoutID == "" {
		return shared.NewDomainError("INVALID_CALLBACK", "Callback is missing a checkout request id")
	}

	processed, err := s.idempotency.IsProcessed(ctx, checkoutID)
	if err != nil {
		s.logger.Warn("idempotency check failed, relying on payment state",
			zap.String("checkout_request_id", checkoutID), zap.Error(err))
	}
	if processed {
		s.logger.Info("duplicate callback dropped",
			zap.String("checkout_request_id", checkoutID))
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := persistence.NewGormPaymentRepository(tx)
		tenants := persistence.NewGormTenantRepository(tx)

		p, err := payments.FindByCheckoutRequestID(ctx, checkoutID)
		if err != nil {
			return err
		}

		if cb.Body.StkCallback.ResultCode != 0 {
			if err := p.Fail(cb.Body.StkCallback.ResultDesc); err != nil {
				return err
			}
			return payments.Save(ctx, p)
		}

		if err := p.Complete(cb.Receipt()); err != nil {
			return err
		}
		if err := payments.Save(ctx, p); err != nil {
			return err
		}

		tenant, err := tenants.FindByID(ctx, p.TenantID)
		if err != nil {
			if err == shared.ErrNotFound {
				return nil
			}
			return err
		}
		if err := tenant.RecordPayment(p.Amount); err != nil {
			return err
		}
		if p.Type == billing.PaymentTypeMoveIn && tenant.Status == leasing.TenantStatusApprovedPendingPayment {
			if err := tenant.Activate(); err != nil {
				return err
			}
		}
		return tenants.Save(ctx, tenant)
	})
	if err != nil {
		return err
	}

	if _, err := s.idempotency.MarkProcessed(ctx, checkoutID, s.dedupeTTL); err != nil {
		s.logger.Warn("failed to mark callback processed",
			zap.String("checkout_request_id", checkoutID), zap.Error(err))
	}

	s.logger.Info("callback processed",
		zap.String("checkout_request_id", checkoutID),
		zap.Int("result_code", cb.Body.StkCallback.ResultCode))

	return nil
}

// Get returns one payment
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List returns a paginated page of payments
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	if filter.TenantID != "" {
		f.Filters["tenant_id"] = filter.TenantID
	}
	if filter.LandlordID != "" {
		f.Filters["landlord_id"] = filter.LandlordID
	}
	if filter.Month != "" {
		f.Filters["month"] = filter.Month
	}

	page, err := s.payments.FindPaginated(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToPaymentResponse(&page.Items[i])
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// MonthlySummary totals completed payments for one month
func (s *PaymentService) MonthlySummary(ctx context.Context, month string) (*FinanceSummaryResponse, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	total, err := s.payments.SumCompletedByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return &FinanceSummaryResponse{Month: month, Total: total}, nil
}
