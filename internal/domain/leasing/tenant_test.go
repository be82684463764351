package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFinancials() Financials {
	return Financials{
		MonthlyRent:     decimal.NewFromInt(15000),
		SecurityDeposit: decimal.NewFromInt(30000),
		ApplicationFee:  decimal.NewFromInt(1000),
		PetDeposit:      decimal.NewFromInt(5000),
	}
}

func TestNewTenant(t *testing.T) {
	propertyID := uuid.New()
	unitID := uuid.New()
	start := time.Now()
	end := start.AddDate(1, 0, 0)

	t.Run("creates tenant pending payment with computed move-in cost", func(t *testing.T) {
		tenant, err := NewTenant("Jane Wanjiku", "Jane@Example.com", "+254700000001",
			validFinancials(), propertyID, unitID, start, end)

		require.NoError(t, err)
		assert.Equal(t, TenantStatusApprovedPendingPayment, tenant.Status)
		assert.Equal(t, "jane@example.com", tenant.Email)
		assert.True(t, tenant.Financials.TotalMoveInCost.Equal(decimal.NewFromInt(51000)))
		assert.True(t, tenant.Financials.Balance.Equal(decimal.NewFromInt(51000)))
	})

	t.Run("fails without required personal fields", func(t *testing.T) {
		for _, tc := range []struct {
			name, email, phone string
		}{
			{"", "a@b.com", "0700"},
			{"Jane", "", "0700"},
			{"Jane", "a@b.com", ""},
		} {
			tenant, err := NewTenant(tc.name, tc.email, tc.phone, validFinancials(), propertyID, unitID, start, end)
			assert.Error(t, err)
			assert.Nil(t, tenant)
		}
	})

	t.Run("fails with non-positive rent", func(t *testing.T) {
		fin := validFinancials()
		fin.MonthlyRent = decimal.Zero

		tenant, err := NewTenant("Jane", "a@b.com", "0700", fin, propertyID, unitID, start, end)

		assert.Error(t, err)
		assert.Nil(t, tenant)
	})

	t.Run("fails without unit linkage", func(t *testing.T) {
		tenant, err := NewTenant("Jane", "a@b.com", "0700", validFinancials(), propertyID, uuid.Nil, start, end)

		assert.Error(t, err)
		assert.Nil(t, tenant)
	})
}

func TestTenantLifecycle(t *testing.T) {
	newTenant := func(t *testing.T) *Tenant {
		tenant, err := NewTenant("Jane Wanjiku", "jane@example.com", "+254700000001",
			validFinancials(), uuid.New(), uuid.New(), time.Now(), time.Now().AddDate(1, 0, 0))
		require.NoError(t, err)
		return tenant
	}

	t.Run("activates on payment confirmation", func(t *testing.T) {
		tenant := newTenant(t)

		require.NoError(t, tenant.Activate())
		assert.Equal(t, TenantStatusActive, tenant.Status)

		assert.Error(t, tenant.Activate())
	})

	t.Run("inactive tenant cannot be activated", func(t *testing.T) {
		tenant := newTenant(t)
		require.NoError(t, tenant.Deactivate())

		assert.Error(t, tenant.Activate())
		assert.Equal(t, TenantStatusInactive, tenant.Status)
	})

	t.Run("payment reduces balance", func(t *testing.T) {
		tenant := newTenant(t)

		require.NoError(t, tenant.RecordPayment(decimal.NewFromInt(51000)))
		assert.True(t, tenant.Financials.Balance.IsZero())

		assert.Error(t, tenant.RecordPayment(decimal.Zero))
	})
}

func TestApplicationLifecycle(t *testing.T) {
	newApp := func(t *testing.T) *Application {
		app, err := NewApplication("Peter Otieno", "peter@example.com", "+254711000002", uuid.New(), uuid.New())
		require.NoError(t, err)
		return app
	}

	t.Run("starts pending", func(t *testing.T) {
		app := newApp(t)
		assert.Equal(t, ApplicationStatusPending, app.Status)
		assert.False(t, app.AdminDeleted)
	})

	t.Run("approve and reject only from pending", func(t *testing.T) {
		app := newApp(t)
		require.NoError(t, app.Approve())
		assert.Error(t, app.Approve())
		assert.Error(t, app.Reject("too late"))

		app = newApp(t)
		require.NoError(t, app.Reject("unit taken"))
		assert.Equal(t, ApplicationStatusRejected, app.Status)
		assert.Equal(t, "unit taken", app.ReviewNote)
		assert.Error(t, app.Approve())
	})

	t.Run("soft delete hides without changing status", func(t *testing.T) {
		app := newApp(t)
		app.HideFromAdmin()

		assert.True(t, app.AdminDeleted)
		assert.Equal(t, ApplicationStatusPending, app.Status)
	})
}
