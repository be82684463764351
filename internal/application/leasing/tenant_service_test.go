package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&property.Property{},
		&property.Unit{},
		&leasing.Tenant{},
		&leasing.Application{},
	)
	require.NoError(t, err)

	return db
}

// seedPropertyWithUnit stores a property and one vacant unit carrying the
// property's fee policy
func seedPropertyWithUnit(t *testing.T, db *gorm.DB) (*property.Property, *property.Unit) {
	ctx := context.Background()
	properties := persistence.NewGormPropertyRepository(db)
	units := persistence.NewGormUnitRepository(db)

	p, err := property.NewProperty("Sunrise Apartments", "Ngong Road", "Nairobi", "", property.PropertyTypeOneBedroom, uuid.New())
	require.NoError(t, err)
	p.RentAmount = decimal.NewFromInt(15000)
	require.NoError(t, p.UpdateFeePolicy(property.FeePolicy{
		ApplicationFee:   decimal.NewFromInt(1000),
		SecurityDeposit:  decimal.NewFromInt(30000),
		PetDeposit:       decimal.NewFromInt(5000),
		LeaseTermMonths:  12,
		NoticePeriodDays: 30,
		GracePeriodDays:  5,
	}))

	u, err := property.NewUnit(p.ID, "001", p.RentAmount, 1, 1)
	require.NoError(t, err)
	u.ApplyPropertyPolicy(p)

	p.ApplySummary(property.ComputeUnitSummary([]property.Unit{*u}))
	require.NoError(t, properties.Save(ctx, p))
	require.NoError(t, units.Save(ctx, u))
	return p, u
}

func TestTenantService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a tenant to a vacant unit", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewTenantService(db, zap.NewNop())
		p, u := seedPropertyWithUnit(t, db)

		tenant, err := svc.Assign(ctx, AssignTenantRequest{
			UnitID:   u.ID,
			FullName: "Jane Wanjiku",
			Email:    "jane@example.com",
			Phone:    "+254700000001",
		})
		require.NoError(t, err)

		assert.Equal(t, string(leasing.TenantStatusApprovedPendingPayment), tenant.Status)
		assert.Equal(t, p.Name, tenant.PropertyName)
		assert.Equal(t, "001", tenant.UnitNumber)

		// rent 15000 + deposit 30000 + application 1000 + pet 5000
		assert.True(t, tenant.TotalMoveInCost.Equal(decimal.NewFromInt(51000)))
		assert.True(t, tenant.Balance.Equal(decimal.NewFromInt(51000)))

		stored, err := persistence.NewGormUnitRepository(db).FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, property.OccupancyLeased, stored.Occupancy)
		require.NotNil(t, stored.TenantID)
		assert.Equal(t, tenant.ID, *stored.TenantID)

		refreshed, err := persistence.NewGormPropertyRepository(db).FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshed.Summary.LeasedCount)
		assert.Equal(t, 100, refreshed.Summary.OccupancyRate)
	})

	t.Run("rejects assignment to an occupied unit and persists nothing", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewTenantService(db, zap.NewNop())
		_, u := seedPropertyWithUnit(t, db)

		_, err := svc.Assign(ctx, AssignTenantRequest{
			UnitID: u.ID, FullName: "First Tenant", Email: "first@example.com", Phone: "+254700000001",
		})
		require.NoError(t, err)

		_, err = svc.Assign(ctx, AssignTenantRequest{
			UnitID: u.ID, FullName: "Second Tenant", Email: "second@example.com", Phone: "+254700000002",
		})
		assert.Equal(t, shared.ErrUnitOccupied, err)

		var count int64
		require.NoError(t, db.Model(&leasing.Tenant{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("defaults the lease term from the property policy", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewTenantService(db, zap.NewNop())
		_, u := seedPropertyWithUnit(t, db)

		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		tenant, err := svc.Assign(ctx, AssignTenantRequest{
			UnitID:     u.ID,
			FullName:   "Jane Wanjiku",
			Email:      "jane@example.com",
			Phone:      "+254700000001",
			LeaseStart: &start,
		})
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 12, 0), tenant.LeaseEnd)
	})
}

func TestTenantService_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTenantService(db, zap.NewNop())
	p, u := seedPropertyWithUnit(t, db)

	tenant, err := svc.Assign(ctx, AssignTenantRequest{
		UnitID: u.ID, FullName: "Jane Wanjiku", Email: "jane@example.com", Phone: "+254700000001",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tenant.ID))

	stored, err := persistence.NewGormUnitRepository(db).FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, property.OccupancyVacant, stored.Occupancy)
	assert.Nil(t, stored.TenantID)
	assert.Empty(t, stored.TenantName)

	refreshed, err := persistence.NewGormPropertyRepository(db).FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.Summary.LeasedCount)
	assert.Equal(t, 1, refreshed.Summary.VacantCount)

	_, err = svc.Get(ctx, tenant.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestTenantService_Deactivate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewTenantService(db, zap.NewNop())
	_, u := seedPropertyWithUnit(t, db)

	tenant, err := svc.Assign(ctx, AssignTenantRequest{
		UnitID: u.ID, FullName: "Jane Wanjiku", Email: "jane@example.com", Phone: "+254700000001",
	})
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, string(leasing.TenantStatusInactive), deactivated.Status)

	// The unit stays leased; deactivation is not a vacate.
	stored, err := persistence.NewGormUnitRepository(db).FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, property.OccupancyLeased, stored.Occupancy)
}
