package property

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
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&property.Property{},
		&property.Unit{},
		&leasing.Tenant{},
	)
	require.NoError(t, err)

	return db
}

func createRequest(units int) CreatePropertyRequest {
	return CreatePropertyRequest{
		Name:         "Sunrise Apartments",
		Address:      "Ngong Road",
		City:         "Nairobi",
		PropertyType: "one_two_bedroom",
		Units:        units,
		RentAmount:   decimal.NewFromInt(15000),
		LandlordID:   uuid.New(),
		FeePolicy: FeePolicyRequest{
			ApplicationFee:  decimal.NewFromInt(1000),
			SecurityDeposit: decimal.NewFromInt(30000),
			PetDeposit:      decimal.NewFromInt(5000),
		},
	}
}

func TestPropertyService_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPropertyService(db, zap.NewNop())

	created, err := svc.Create(ctx, createRequest(4))
	require.NoError(t, err)

	t.Run("generates sequentially numbered units", func(t *testing.T) {
		units, err := svc.ListUnits(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, units, 4)
		assert.Equal(t, "001", units[0].UnitNumber)
		assert.Equal(t, "004", units[3].UnitNumber)
	})

	t.Run("alternates layouts for the mixed type", func(t *testing.T) {
		units, err := svc.ListUnits(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, units[0].Bedrooms)
		assert.Equal(t, 2, units[1].Bedrooms)
		assert.Equal(t, 1, units[2].Bedrooms)
		assert.Equal(t, 2, units[3].Bedrooms)
	})

	t.Run("starts with an all-vacant summary", func(t *testing.T) {
		assert.Equal(t, 4, created.Summary.TotalUnits)
		assert.Equal(t, 4, created.Summary.VacantCount)
		assert.Equal(t, 0, created.Summary.LeasedCount)
		assert.Equal(t, 0, created.Summary.OccupancyRate)
	})

	t.Run("seeds units with the property fee policy", func(t *testing.T) {
		unitRepo := persistence.NewGormUnitRepository(db)
		units, err := unitRepo.FindByPropertyID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, units[0].FeePolicy.SecurityDeposit.Equal(decimal.NewFromInt(30000)))
		assert.True(t, units[0].FeePolicy.ApplicationFee.Equal(decimal.NewFromInt(1000)))
	})
}

func TestPropertyService_Update_UnitCountSync(t *testing.T) {
	ctx := context.Background()

	t.Run("grows from the highest existing number", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewPropertyService(db, zap.NewNop())
		created, err := svc.Create(ctx, createRequest(2))
		require.NoError(t, err)

		desired := 4
		updated, err := svc.Update(ctx, created.ID, UpdatePropertyRequest{Units: &desired})
		require.NoError(t, err)

		units, err := svc.ListUnits(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, units, 4)
		assert.Equal(t, "003", units[2].UnitNumber)
		assert.Equal(t, "004", units[3].UnitNumber)
		assert.Equal(t, 4, updated.Summary.TotalUnits)
	})

	t.Run("shrinks by removing the highest-numbered vacant units", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewPropertyService(db, zap.NewNop())
		created, err := svc.Create(ctx, createRequest(4))
		require.NoError(t, err)

		desired := 2
		updated, err := svc.Update(ctx, created.ID, UpdatePropertyRequest{Units: &desired})
		require.NoError(t, err)

		units, err := svc.ListUnits(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, units, 2)
		assert.Equal(t, "001", units[0].UnitNumber)
		assert.Equal(t, "002", units[1].UnitNumber)
		assert.Equal(t, 2, updated.Summary.TotalUnits)
	})

	t.Run("refuses to shrink past an occupied unit", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewPropertyService(db, zap.NewNop())
		created, err := svc.Create(ctx, createRequest(3))
		require.NoError(t, err)

		unitRepo := persistence.NewGormUnitRepository(db)
		units, err := unitRepo.FindByPropertyID(ctx, created.ID)
		require.NoError(t, err)
		top := &units[2]
		require.NoError(t, top.AssignTenant(uuid.New(), "Jane Wanjiku", "+254700000001", "jane@example.com",
			time.Now(), time.Now().AddDate(1, 0, 0)))
		require.NoError(t, unitRepo.Save(ctx, top))

		desired := 1
		_, err = svc.Update(ctx, created.ID, UpdatePropertyRequest{Units: &desired})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "003")

		// Nothing was deleted, including the vacant candidate.
		remaining, err := unitRepo.FindByPropertyID(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, 3)
	})
}

func TestPropertyService_Update_FeeCascade(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPropertyService(db, zap.NewNop())

	created, err := svc.Create(ctx, createRequest(3))
	require.NoError(t, err)

	// Give one unit a diverging deposit, then edit the property.
	unitRepo := persistence.NewGormUnitRepository(db)
	units, err := unitRepo.FindByPropertyID(ctx, created.ID)
	require.NoError(t, err)
	units[1].FeePolicy.SecurityDeposit = decimal.NewFromInt(99999)
	require.NoError(t, unitRepo.Save(ctx, &units[1]))

	_, err = svc.Update(ctx, created.ID, UpdatePropertyRequest{
		FeePolicy: &FeePolicyRequest{
			ApplicationFee:  decimal.NewFromInt(2000),
			SecurityDeposit: decimal.NewFromInt(45000),
			PetDeposit:      decimal.NewFromInt(5000),
		},
	})
	require.NoError(t, err)

	units, err = unitRepo.FindByPropertyID(ctx, created.ID)
	require.NoError(t, err)
	for i := range units {
		assert.True(t, units[i].FeePolicy.SecurityDeposit.Equal(decimal.NewFromInt(45000)),
			"unit %s kept a stale deposit", units[i].UnitNumber)
		assert.True(t, units[i].FeePolicy.ApplicationFee.Equal(decimal.NewFromInt(2000)))
	}
}

func TestPropertyService_Refresh(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPropertyService(db, zap.NewNop())

	created, err := svc.Create(ctx, createRequest(2))
	require.NoError(t, err)

	unitRepo := persistence.NewGormUnitRepository(db)
	tenantRepo := persistence.NewGormTenantRepository(db)
	units, err := unitRepo.FindByPropertyID(ctx, created.ID)
	require.NoError(t, err)

	// A tenant record pointing at a unit that does not reference them back.
	tenant, err := leasing.NewTenant("Brian Otieno", "brian@example.com", "+254700000002",
		leasing.Financials{MonthlyRent: decimal.NewFromInt(15000)},
		created.ID, units[0].ID, time.Now(), time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Save(ctx, tenant))

	report, err := svc.Refresh(ctx, created.ID)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, tenant.ID, report.Violations[0].TenantID)
	assert.Contains(t, report.Violations[0].Reason, "does not reference")

	// Summary was recomputed from the units, not from the orphan tenant.
	assert.Equal(t, 2, report.Property.Summary.TotalUnits)
	assert.Equal(t, 2, report.Property.Summary.VacantCount)
}

func TestPropertyService_List_Sorting(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPropertyService(db, zap.NewNop())

	for _, name := range []string{"Zawadi Court", "Acacia Heights", "Mimosa Villas"} {
		req := createRequest(1)
		req.Name = name
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	t.Run("sorts by a whitelisted field", func(t *testing.T) {
		page, err := svc.List(ctx, PropertyListFilter{OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "Acacia Heights", page.Items[0].Name)
		assert.Equal(t, "Zawadi Court", page.Items[2].Name)
	})

	t.Run("ignores a subquery passed as the sort field", func(t *testing.T) {
		page, err := svc.List(ctx, PropertyListFilter{OrderBy: "(SELECT count(*) FROM units)"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("ignores stacked statements in the sort field", func(t *testing.T) {
		page, err := svc.List(ctx, PropertyListFilter{OrderBy: "name; DROP TABLE properties; --"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)

		// The table must survive the attempt.
		page, err = svc.List(ctx, PropertyListFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})
}

func TestPropertyService_SummaryInvariants(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPropertyService(db, zap.NewNop())

	created, err := svc.Create(ctx, createRequest(4))
	require.NoError(t, err)

	unitRepo := persistence.NewGormUnitRepository(db)
	units, err := unitRepo.FindByPropertyID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, units[0].AssignTenant(uuid.New(), "Jane Wanjiku", "", "",
		time.Now(), time.Now().AddDate(1, 0, 0)))
	require.NoError(t, unitRepo.Save(ctx, &units[0]))
	require.NoError(t, units[1].SetMaintenance(property.MaintenanceUnderMaintenance))
	require.NoError(t, unitRepo.Save(ctx, &units[1]))

	report, err := svc.Refresh(ctx, created.ID)
	require.NoError(t, err)

	s := report.Property.Summary
	assert.Equal(t, s.TotalUnits, s.VacantCount+s.LeasedCount)
	assert.Equal(t, 1, s.LeasedCount)
	assert.Equal(t, 1, s.MaintenanceCount)
	assert.Equal(t, 25, s.OccupancyRate)
	assert.Equal(t, s.LeasedCount, s.TotalTenants)
	assert.True(t, s.MonthlyRevenue.Equal(decimal.NewFromInt(15000)))
}
