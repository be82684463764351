package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
)

// GormPropertyRepository implements property.PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var p property.Property
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByLandlordID finds all properties owned by a landlord
func (r *GormPropertyRepository) FindByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]property.Property, error) {
	var properties []property.Property
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("name ASC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindAll finds all properties matching the filter
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Property, error) {
	var properties []property.Property
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&property.Property{}), filter), filter, PropertySortFields, "name ASC")
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindPaginated returns a page of properties with the total count
func (r *GormPropertyRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[property.Property], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[property.Property]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[property.Property]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a property
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&property.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts properties matching the filter
func (r *GormPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Property{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "landlord_id":
			query = query.Where("landlord_id = ?", value)
		case "property_type":
			query = query.Where("property_type = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}
	return query
}

// GormUnitRepository implements property.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Unit, error) {
	var u property.Unit
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByPropertyID returns the full unit set of a property, ordered by
// unit number. Aggregate recomputation depends on this being complete.
func (r *GormUnitRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]property.Unit, error) {
	var units []property.Unit
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("unit_number ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAll finds all units matching the filter
func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]property.Unit, error) {
	var units []property.Unit
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&property.Unit{}), filter), filter, UnitSortFields, "unit_number ASC")
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindPaginated returns a page of units with the total count
func (r *GormUnitRepository) FindPaginated(ctx context.Context, filter shared.Filter) (shared.Paginated[property.Unit], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[property.Unit]{}, err
	}
	items, err := r.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[property.Unit]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	u.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(u).Error
}

// LeaseIfVacant writes the unit's tenant linkage with a conditional update
// that only matches while the stored occupancy is still vacant. Two admins
// racing to assign the same unit cannot both win: the second update matches
// zero rows and gets shared.ErrUnitOccupied.
func (r *GormUnitRepository) LeaseIfVacant(ctx context.Context, u *property.Unit) error {
	result := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("id = ? AND occupancy = ?", u.ID, property.OccupancyVacant).
		Updates(map[string]interface{}{
			"occupancy":    property.OccupancyLeased,
			"status":       string(property.DeriveDisplayStatus(property.OccupancyLeased, u.Maintenance)),
			"tenant_id":    u.TenantID,
			"tenant_name":  u.TenantName,
			"tenant_phone": u.TenantPhone,
			"tenant_email": u.TenantEmail,
			"lease_start":  u.LeaseStart,
			"lease_end":    u.LeaseEnd,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&property.Unit{}).Where("id = ?", u.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrUnitOccupied
	}
	return nil
}

// Delete deletes a unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&property.Unit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByPropertyID deletes every unit of a property, returning the count
func (r *GormUnitRepository) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&property.Unit{}, "property_id = ?", propertyID)
	return result.RowsAffected, result.Error
}

// Count counts units matching the filter
func (r *GormUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Unit{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(unit_name) LIKE ? OR LOWER(unit_number) LIKE ? OR LOWER(tenant_name) LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "occupancy":
			query = query.Where("occupancy = ?", value)
		case "maintenance":
			query = query.Where("maintenance = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure implementations satisfy the domain interfaces
var (
	_ property.PropertyRepository = (*GormPropertyRepository)(nil)
	_ property.UnitRepository     = (*GormUnitRepository)(nil)
)
