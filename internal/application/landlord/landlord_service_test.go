package landlord

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

	"github.com/nyumbani/backend/internal/domain/billing"
	"github.com/nyumbani/backend/internal/domain/identity"
	domain "github.com/nyumbani/backend/internal/domain/landlord"
	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/domain/shared"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Landlord{},
		&property.Property{},
		&property.Unit{},
		&leasing.Tenant{},
		&billing.Payment{},
		&billing.ArchivedPayment{},
		&identity.User{},
	)
	require.NoError(t, err)

	return db
}

func TestLandlordService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewLandlordService(db, zap.NewNop())

	created, err := svc.Create(ctx, CreateLandlordRequest{
		FullName: "Peter Kamau",
		Email:    "peter@example.com",
		Phone:    "+254711000001",
		Password: "landlord-pass-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "peter@example.com", created.Email)

	t.Run("links a console account", func(t *testing.T) {
		u, err := persistence.NewGormUserRepository(db).FindByLandlordID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleLandlord, u.Role)
		assert.True(t, u.VerifyPassword("landlord-pass-1"))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateLandlordRequest{
			FullName: "Another Person", Email: "peter@example.com", Phone: "+254711000002",
		})
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})

	t.Run("updates banking details", func(t *testing.T) {
		bank := "Equity Bank"
		account := "0123456789"
		updated, err := svc.Update(ctx, created.ID, UpdateLandlordRequest{
			BankName:      &bank,
			AccountNumber: &account,
		})
		require.NoError(t, err)
		assert.Equal(t, "Equity Bank", updated.BankName)
		assert.Equal(t, "0123456789", updated.AccountNumber)
		assert.Equal(t, "+254711000001", updated.Phone)
	})
}

func TestLandlordService_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewLandlordService(db, zap.NewNop())

	created, err := svc.Create(ctx, CreateLandlordRequest{
		FullName: "Peter Kamau",
		Email:    "peter@example.com",
		Phone:    "+254711000001",
		Password: "landlord-pass-1",
	})
	require.NoError(t, err)

	properties := persistence.NewGormPropertyRepository(db)
	units := persistence.NewGormUnitRepository(db)
	tenants := persistence.NewGormTenantRepository(db)
	payments := persistence.NewGormPaymentRepository(db)

	p, err := property.NewProperty("Sunrise Apartments", "Ngong Road", "Nairobi", "", property.PropertyTypeOneBedroom, created.ID)
	require.NoError(t, err)
	require.NoError(t, properties.Save(ctx, p))

	for _, n := range []string{"001", "002"} {
		u, err := property.NewUnit(p.ID, n, decimal.NewFromInt(15000), 1, 1)
		require.NoError(t, err)
		require.NoError(t, units.Save(ctx, u))
	}

	tenant, err := leasing.NewTenant("Jane Wanjiku", "jane@example.com", "+254700000001",
		leasing.Financials{MonthlyRent: decimal.NewFromInt(15000)},
		p.ID, uuid.New(), time.Now(), time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, tenants.Save(ctx, tenant))

	completed, err := billing.NewPayment(tenant.ID, p.ID, created.ID,
		decimal.NewFromInt(15000), "+254700000001", "2026-08", "ws_CO_401", billing.PaymentTypeRent)
	require.NoError(t, err)
	require.NoError(t, completed.Complete("QCR7TX91LM"))
	require.NoError(t, payments.Save(ctx, completed))

	pending, err := billing.NewPayment(tenant.ID, p.ID, created.ID,
		decimal.NewFromInt(20000), "+254700000001", "2026-09", "ws_CO_402", billing.PaymentTypeRent)
	require.NoError(t, err)
	require.NoError(t, payments.Save(ctx, pending))

	report, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)

	t.Run("reports everything it removed", func(t *testing.T) {
		assert.Equal(t, created.ID, report.LandlordID)
		assert.Equal(t, 1, report.PropertiesDeleted)
		assert.Equal(t, 2, report.UnitsDeleted)
		assert.Equal(t, 1, report.TenantsDeleted)
		assert.Equal(t, 2, report.PaymentsDeleted)
		assert.Equal(t, 1, report.PaymentsArchived)
		assert.True(t, report.UserDeleted)
	})

	t.Run("archives only the completed payment", func(t *testing.T) {
		archived, err := persistence.NewGormArchivedPaymentRepository(db).FindByLandlordID(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, archived, 1)
		assert.Equal(t, completed.ID, archived[0].OriginalPaymentID)
		assert.Equal(t, "QCR7TX91LM", archived[0].MpesaReceipt)
		assert.Equal(t, "landlord account deleted", archived[0].ArchivedReason)
	})

	t.Run("leaves no trace of the portfolio", func(t *testing.T) {
		_, err := svc.Get(ctx, created.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		remaining, err := units.FindByPropertyID(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		_, err = payments.FindByCheckoutRequestID(ctx, "ws_CO_401")
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = persistence.NewGormUserRepository(db).FindByLandlordID(ctx, created.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
