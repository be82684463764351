package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/shared"
)

// GormTenantRepository implements leasing.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Tenant, error) {
	var t leasing.Tenant
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByPropertyID finds all tenants of a property
func (r *GormTenantRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]leasing.Tenant, error) {
	var tenants []leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// FindByUnitID finds the tenant currently bound to a unit
func (r *GormTenantRepository) FindByUnitID(ctx context.Context, unitID uuid.UUID) (*leasing.Tenant, error) {
	var t leasing.Tenant
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status <> ?", unitID, leasing.TenantStatusInactive).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds all tenants matching the filter
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Tenant, error) {
	var tenants []leasing.Tenant
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Tenant{}), filter), filter, TenantSortFields, "created_at DESC")
	if err := query.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// FindPaginated returns a page of tenants with the total count
func (r *GormTenantRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[leasing.Tenant], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Tenant]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Tenant]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *leasing.Tenant) error {
	t.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&leasing.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByPropertyID deletes every tenant of a property, returning the count
func (r *GormTenantRepository) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&leasing.Tenant{}, "property_id = ?", propertyID)
	return result.RowsAffected, result.Error
}

// Count counts tenants matching the filter
func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Tenant{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		}
	}
	return query
}

// GormApplicationRepository implements leasing.ApplicationRepository using GORM
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// FindByID finds an application by its ID
func (r *GormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Application, error) {
	var a leasing.Application
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindPendingByUnitID finds pending applications for a unit, used when an
// approval auto-rejects the competition
func (r *GormApplicationRepository) FindPendingByUnitID(ctx context.Context, unitID uuid.UUID) ([]leasing.Application, error) {
	var apps []leasing.Application
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status = ?", unitID, leasing.ApplicationStatusPending).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// FindAll finds all applications matching the filter. The admin view passes
// admin_deleted=false to hide soft-deleted records.
func (r *GormApplicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]leasing.Application, error) {
	var apps []leasing.Application
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Application{}), filter), filter, ApplicationSortFields, "created_at DESC")
	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// FindPaginated returns a page of applications with the total count
func (r *GormApplicationRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[leasing.Application], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Application]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Application]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates an application
func (r *GormApplicationRepository) Save(ctx context.Context, a *leasing.Application) error {
	a.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete deletes an application
func (r *GormApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&leasing.Application{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts applications matching the filter
func (r *GormApplicationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&leasing.Application{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormApplicationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "unit_id":
			query = query.Where("unit_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "admin_deleted":
			query = query.Where("admin_deleted = ?", value)
		}
	}
	return query
}

var (
	_ leasing.TenantRepository      = (*GormTenantRepository)(nil)
	_ leasing.ApplicationRepository = (*GormApplicationRepository)(nil)
)
