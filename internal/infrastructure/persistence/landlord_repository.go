package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/landlord"
	"github.com/nyumbani/backend/internal/domain/shared"
)

// GormLandlordRepository implements landlord.LandlordRepository using GORM
type GormLandlordRepository struct {
	db *gorm.DB
}

// NewGormLandlordRepository creates a new GormLandlordRepository
func NewGormLandlordRepository(db *gorm.DB) *GormLandlordRepository {
	return &GormLandlordRepository{db: db}
}

// FindByID finds a landlord by its ID
func (r *GormLandlordRepository) FindByID(ctx context.Context, id uuid.UUID) (*landlord.Landlord, error) {
	var l landlord.Landlord
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindByEmail finds a landlord by email
func (r *GormLandlordRepository) FindByEmail(ctx context.Context, email string) (*landlord.Landlord, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var l landlord.Landlord
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindAll finds all landlords matching the filter
func (r *GormLandlordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]landlord.Landlord, error) {
	var landlords []landlord.Landlord
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&landlord.Landlord{}), filter), filter, LandlordSortFields, "full_name ASC")
	if err := query.Find(&landlords).Error; err != nil {
		return nil, err
	}
	return landlords, nil
}

// FindPaginated returns a page of landlords with the total count
func (r *GormLandlordRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[landlord.Landlord], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[landlord.Landlord]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[landlord.Landlord]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a landlord
func (r *GormLandlordRepository) Save(ctx context.Context, l *landlord.Landlord) error {
	l.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(l).Error
}

// Delete deletes a landlord
func (r *GormLandlordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&landlord.Landlord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts landlords matching the filter
func (r *GormLandlordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&landlord.Landlord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLandlordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

var _ landlord.LandlordRepository = (*GormLandlordRepository)(nil)
