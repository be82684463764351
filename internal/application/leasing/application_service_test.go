package leasing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nyumbani/backend/internal/domain/leasing"
	"github.com/nyumbani/backend/internal/domain/property"
	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

func TestApplicationService_Approve(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewApplicationService(db, zap.NewNop())
	_, u := seedPropertyWithUnit(t, db)

	first, err := svc.Submit(ctx, SubmitApplicationRequest{
		FullName: "Jane Wanjiku", Email: "jane@example.com", Phone: "+254700000001",
		PropertyID: u.PropertyID, UnitID: u.ID,
	})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitApplicationRequest{
		FullName: "Brian Otieno", Email: "brian@example.com", Phone: "+254700000002",
		PropertyID: u.PropertyID, UnitID: u.ID,
	})
	require.NoError(t, err)

	tenant, err := svc.Approve(ctx, first.ID)
	require.NoError(t, err)

	t.Run("creates the tenant on the unit", func(t *testing.T) {
		assert.Equal(t, "Jane Wanjiku", tenant.FullName)
		assert.Equal(t, u.ID, tenant.UnitID)
		assert.Equal(t, string(leasing.TenantStatusApprovedPendingPayment), tenant.Status)

		stored, err := persistence.NewGormUnitRepository(db).FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, property.OccupancyLeased, stored.Occupancy)
	})

	t.Run("marks the approved application", func(t *testing.T) {
		approved, err := svc.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, string(leasing.ApplicationStatusApproved), approved.Status)
	})

	t.Run("rejects the competition", func(t *testing.T) {
		competitor, err := svc.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, string(leasing.ApplicationStatusRejected), competitor.Status)
		assert.Contains(t, competitor.ReviewNote, "another applicant")
	})

	t.Run("cannot approve a second application for the same unit", func(t *testing.T) {
		third, err := svc.Submit(ctx, SubmitApplicationRequest{
			FullName: "Grace Njeri", Email: "grace@example.com", Phone: "+254700000003",
			PropertyID: u.PropertyID, UnitID: u.ID,
		})
		require.NoError(t, err)

		_, err = svc.Approve(ctx, third.ID)
		require.Error(t, err)

		// The rollback undid the approval flag too.
		reloaded, err := svc.Get(ctx, third.ID)
		require.NoError(t, err)
		assert.Equal(t, string(leasing.ApplicationStatusPending), reloaded.Status)
	})
}

func TestApplicationService_Reject(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewApplicationService(db, zap.NewNop())
	_, u := seedPropertyWithUnit(t, db)

	a, err := svc.Submit(ctx, SubmitApplicationRequest{
		FullName: "Jane Wanjiku", Email: "jane@example.com", Phone: "+254700000001",
		PropertyID: u.PropertyID, UnitID: u.ID,
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, a.ID, RejectApplicationRequest{Note: "Income too low"})
	require.NoError(t, err)
	assert.Equal(t, string(leasing.ApplicationStatusRejected), rejected.Status)
	assert.Equal(t, "Income too low", rejected.ReviewNote)

	_, err = svc.Reject(ctx, a.ID, RejectApplicationRequest{})
	assert.Error(t, err)
}

func TestApplicationService_List_HidesSoftDeleted(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewApplicationService(db, zap.NewNop())
	_, u := seedPropertyWithUnit(t, db)

	kept, err := svc.Submit(ctx, SubmitApplicationRequest{
		FullName: "Jane Wanjiku", Email: "jane@example.com", Phone: "+254700000001",
		PropertyID: u.PropertyID, UnitID: u.ID,
	})
	require.NoError(t, err)
	hidden, err := svc.Submit(ctx, SubmitApplicationRequest{
		FullName: "Brian Otieno", Email: "brian@example.com", Phone: "+254700000002",
		PropertyID: u.PropertyID, UnitID: u.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, hidden.ID))

	page, err := svc.List(ctx, ApplicationListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].ID)

	// The record itself survives the soft delete.
	stored, err := svc.Get(ctx, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brian Otieno", stored.FullName)
}
