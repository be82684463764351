package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/billing"
	"github.com/nyumbani/backend/internal/domain/shared"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var p billing.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCheckoutRequestID finds the payment created for an STK push
func (r *GormPaymentRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*billing.Payment, error) {
	var p billing.Payment
	if err := r.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByLandlordID finds all payments belonging to a landlord
func (r *GormPaymentRepository) FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByTenantID finds all payments made by a tenant
func (r *GormPaymentRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll finds all payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, error) {
	var payments []billing.Payment
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&billing.Payment{}), filter), filter, PaymentSortFields, "created_at DESC")
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindPaginated returns a page of payments with the total count
func (r *GormPaymentRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[billing.Payment], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Payment]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Payment]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// SumCompletedByMonth sums completed payment amounts for a billing month
func (r *GormPaymentRepository) SumCompletedByMonth(ctx context.Context, month string) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("month = ? AND status = ?", month, billing.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Payment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(mpesa_receipt) LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "landlord_id":
			query = query.Where("landlord_id = ?", value)
		case "month":
			query = query.Where("month = ?", value)
		}
	}
	return query
}

// GormArchivedPaymentRepository implements billing.ArchivedPaymentRepository using GORM
type GormArchivedPaymentRepository struct {
	db *gorm.DB
}

// NewGormArchivedPaymentRepository creates a new GormArchivedPaymentRepository
func NewGormArchivedPaymentRepository(db *gorm.DB) *GormArchivedPaymentRepository {
	return &GormArchivedPaymentRepository{db: db}
}

// Save stores an archived payment
func (r *GormArchivedPaymentRepository) Save(ctx context.Context, archived *billing.ArchivedPayment) error {
	return r.db.WithContext(ctx).Save(archived).Error
}

// FindByLandlordID finds archived payments for a landlord
func (r *GormArchivedPaymentRepository) FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]billing.ArchivedPayment, error) {
	var archived []billing.ArchivedPayment
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("archived_at DESC").
		Find(&archived).Error; err != nil {
		return nil, err
	}
	return archived, nil
}

var (
	_ billing.PaymentRepository         = (*GormPaymentRepository)(nil)
	_ billing.ArchivedPaymentRepository = (*GormArchivedPaymentRepository)(nil)
)
