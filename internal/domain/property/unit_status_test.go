package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnitStatus(t *testing.T) {
	t.Run("uses dual fields when both are present", func(t *testing.T) {
		st := ResolveUnitStatus(OccupancyLeased, MaintenanceUnderMaintenance, "vacant", false)

		assert.Equal(t, OccupancyLeased, st.Occupancy)
		assert.Equal(t, MaintenanceUnderMaintenance, st.Maintenance)
		assert.Equal(t, DisplayMaintenance, st.Display)
	})

	t.Run("legacy maintenance values infer occupancy from tenant linkage", func(t *testing.T) {
		for _, legacy := range []string{"maintenance", "repair", "under_repair"} {
			st := ResolveUnitStatus("", "", legacy, true)
			assert.Equal(t, OccupancyLeased, st.Occupancy, legacy)
			assert.Equal(t, MaintenanceUnderMaintenance, st.Maintenance, legacy)
			assert.Equal(t, DisplayMaintenance, st.Display, legacy)

			st = ResolveUnitStatus("", "", legacy, false)
			assert.Equal(t, OccupancyVacant, st.Occupancy, legacy)
			assert.Equal(t, MaintenanceUnderMaintenance, st.Maintenance, legacy)
		}
	})

	t.Run("legacy leased values map to leased and normal", func(t *testing.T) {
		for _, legacy := range []string{"leased", "occupied", "rented", "LEASED", " Rented "} {
			st := ResolveUnitStatus("", "", legacy, false)
			assert.Equal(t, OccupancyLeased, st.Occupancy, legacy)
			assert.Equal(t, MaintenanceNormal, st.Maintenance, legacy)
			assert.Equal(t, DisplayLeased, st.Display, legacy)
		}
	})

	t.Run("unknown input defaults to vacant and normal", func(t *testing.T) {
		for _, legacy := range []string{"", "garbage", "vacant", "???", "pending"} {
			st := ResolveUnitStatus("", "", legacy, false)
			assert.Equal(t, OccupancyVacant, st.Occupancy, legacy)
			assert.Equal(t, MaintenanceNormal, st.Maintenance, legacy)
			assert.Equal(t, DisplayVacant, st.Display, legacy)
		}
	})

	t.Run("is total over any field combination", func(t *testing.T) {
		occupancies := []OccupancyStatus{"", OccupancyVacant, OccupancyLeased, "bogus"}
		maintenances := []MaintenanceStatus{"", MaintenanceNormal, MaintenanceUnderMaintenance, "bogus"}
		legacies := []string{"", "vacant", "leased", "maintenance", "nonsense"}

		for _, occ := range occupancies {
			for _, mnt := range maintenances {
				for _, legacy := range legacies {
					for _, hasTenant := range []bool{false, true} {
						st := ResolveUnitStatus(occ, mnt, legacy, hasTenant)
						assert.True(t, st.Occupancy.IsValid())
						assert.True(t, st.Maintenance.IsValid())
						assert.Contains(t, []DisplayStatus{DisplayVacant, DisplayLeased, DisplayMaintenance}, st.Display)
					}
				}
			}
		}
	})
}

func TestDeriveDisplayStatus(t *testing.T) {
	assert.Equal(t, DisplayMaintenance, DeriveDisplayStatus(OccupancyLeased, MaintenanceUnderMaintenance))
	assert.Equal(t, DisplayMaintenance, DeriveDisplayStatus(OccupancyVacant, MaintenanceUnderMaintenance))
	assert.Equal(t, DisplayLeased, DeriveDisplayStatus(OccupancyLeased, MaintenanceNormal))
	assert.Equal(t, DisplayVacant, DeriveDisplayStatus(OccupancyVacant, MaintenanceNormal))
}

func TestUnitOccupancyLock(t *testing.T) {
	newLeasedUnit := func(t *testing.T) *Unit {
		unit, err := NewUnit(uuid.New(), "001", decimal.NewFromInt(15000), 1, 1)
		require.NoError(t, err)
		tenantID := uuid.New()
		require.NoError(t, unit.AssignTenant(tenantID, "Jane Wanjiku", "+254700000001", "jane@example.com",
			time.Now(), time.Now().AddDate(1, 0, 0)))
		return unit
	}

	t.Run("direct leased to vacant edit is rejected without mutation", func(t *testing.T) {
		unit := newLeasedUnit(t)
		before := *unit

		err := unit.SetOccupancy(OccupancyVacant)

		assert.Error(t, err)
		assert.Equal(t, before.Occupancy, unit.Occupancy)
		assert.Equal(t, before.Status, unit.Status)
		assert.Equal(t, before.TenantID, unit.TenantID)
		assert.Equal(t, before.TenantName, unit.TenantName)
	})

	t.Run("clear tenant is the sanctioned vacate path", func(t *testing.T) {
		unit := newLeasedUnit(t)

		unit.ClearTenant()

		assert.Equal(t, OccupancyVacant, unit.Occupancy)
		assert.Equal(t, string(DisplayVacant), unit.Status)
		assert.Nil(t, unit.TenantID)
		assert.Empty(t, unit.TenantName)
		assert.Nil(t, unit.LeaseStart)
	})

	t.Run("maintenance toggles freely on a leased unit", func(t *testing.T) {
		unit := newLeasedUnit(t)

		require.NoError(t, unit.SetMaintenance(MaintenanceUnderMaintenance))
		assert.Equal(t, string(DisplayMaintenance), unit.Status)
		assert.Equal(t, OccupancyLeased, unit.Occupancy)

		require.NoError(t, unit.SetMaintenance(MaintenanceNormal))
		assert.Equal(t, string(DisplayLeased), unit.Status)
	})

	t.Run("assignment requires a vacant unit", func(t *testing.T) {
		unit := newLeasedUnit(t)

		err := unit.AssignTenant(uuid.New(), "Second Tenant", "", "", time.Now(), time.Now())

		assert.Error(t, err)
		assert.Equal(t, "Jane Wanjiku", unit.TenantName)
	})

	t.Run("assignment allowed on a vacant unit under maintenance", func(t *testing.T) {
		unit, err := NewUnit(uuid.New(), "002", decimal.NewFromInt(12000), 1, 1)
		require.NoError(t, err)
		require.NoError(t, unit.SetMaintenance(MaintenanceUnderMaintenance))

		err = unit.AssignTenant(uuid.New(), "Peter Otieno", "", "", time.Now(), time.Now().AddDate(1, 0, 0))

		require.NoError(t, err)
		assert.Equal(t, OccupancyLeased, unit.Occupancy)
		assert.Equal(t, string(DisplayMaintenance), unit.Status)
	})
}
