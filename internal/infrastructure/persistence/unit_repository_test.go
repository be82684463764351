package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumbani/backend/internal/domain/billing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&property.Property{},
		&property.Unit{},
		&billing.Payment{},
		&billing.ArchivedPayment{},
	)
	require.NoError(t, err)

	return db
}

func newVacantUnit(t *testing.T, repo *GormUnitRepository, propertyID uuid.UUID, number string) *property.Unit {
	u, err := property.NewUnit(propertyID, number, decimal.NewFromInt(15000), 1, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestGormUnitRepository_LeaseIfVacant(t *testing.T) {
	ctx := context.Background()

	t.Run("leases a vacant unit", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormUnitRepository(db)
		u := newVacantUnit(t, repo, uuid.New(), "001")

		tenantID := uuid.New()
		start := time.Now()
		end := start.AddDate(1, 0, 0)
		require.NoError(t, u.AssignTenant(tenantID, "Jane Wanjiku", "+254700000001", "jane@example.com", start, end))

		err := repo.LeaseIfVacant(ctx, u)

		require.NoError(t, err)
		stored, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, property.OccupancyLeased, stored.Occupancy)
		assert.Equal(t, "leased", stored.Status)
		require.NotNil(t, stored.TenantID)
		assert.Equal(t, tenantID, *stored.TenantID)
	})

	t.Run("second assignment loses the race", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormUnitRepository(db)
		u := newVacantUnit(t, repo, uuid.New(), "001")

		first := *u
		require.NoError(t, first.AssignTenant(uuid.New(), "First Tenant", "", "", time.Now(), time.Now().AddDate(1, 0, 0)))
		require.NoError(t, repo.LeaseIfVacant(ctx, &first))

		second := *u
		require.NoError(t, second.AssignTenant(uuid.New(), "Second Tenant", "", "", time.Now(), time.Now().AddDate(1, 0, 0)))
		err := repo.LeaseIfVacant(ctx, &second)

		assert.Equal(t, shared.ErrUnitOccupied, err)

		stored, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "First Tenant", stored.TenantName)
	})

	t.Run("missing unit reports not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormUnitRepository(db)

		u, err := property.NewUnit(uuid.New(), "001", decimal.NewFromInt(10000), 1, 1)
		require.NoError(t, err)
		require.NoError(t, u.AssignTenant(uuid.New(), "Ghost", "", "", time.Now(), time.Now().AddDate(1, 0, 0)))

		err = repo.LeaseIfVacant(ctx, u)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormUnitRepository_DeleteByPropertyID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUnitRepository(db)

	propertyID := uuid.New()
	otherPropertyID := uuid.New()
	for _, n := range []string{"001", "002", "003"} {
		newVacantUnit(t, repo, propertyID, n)
	}
	newVacantUnit(t, repo, otherPropertyID, "001")

	deleted, err := repo.DeleteByPropertyID(ctx, propertyID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.FindByPropertyID(ctx, otherPropertyID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestGormUnitRepository_FindByPropertyIDOrdersByNumber(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUnitRepository(db)

	propertyID := uuid.New()
	for _, n := range []string{"003", "001", "002"} {
		newVacantUnit(t, repo, propertyID, n)
	}

	units, err := repo.FindByPropertyID(ctx, propertyID)

	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, "001", units[0].UnitNumber)
	assert.Equal(t, "003", units[2].UnitNumber)
}

func TestGormPaymentRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)

	landlordID := uuid.New()
	p1, err := billing.NewPayment(uuid.New(), uuid.New(), landlordID,
		decimal.NewFromInt(15000), "+254700000001", "2026-08", "ws_CO_1", billing.PaymentTypeRent)
	require.NoError(t, err)
	require.NoError(t, p1.Complete("QCR7TX91LM"))
	require.NoError(t, repo.Save(ctx, p1))

	p2, err := billing.NewPayment(uuid.New(), uuid.New(), landlordID,
		decimal.NewFromInt(20000), "+254700000002", "2026-08", "ws_CO_2", billing.PaymentTypeRent)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p2))

	t.Run("finds by checkout request id", func(t *testing.T) {
		found, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_1")
		require.NoError(t, err)
		assert.Equal(t, p1.ID, found.ID)

		_, err = repo.FindByCheckoutRequestID(ctx, "ws_CO_missing")
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("finds by landlord", func(t *testing.T) {
		payments, err := repo.FindByLandlordID(ctx, landlordID)
		require.NoError(t, err)
		assert.Len(t, payments, 2)
	})

	t.Run("sums only completed payments for the month", func(t *testing.T) {
		total, err := repo.SumCompletedByMonth(ctx, "2026-08")
		require.NoError(t, err)
		assert.InDelta(t, 15000, total, 0.001)
	})
}
