package property

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	landlordID := uuid.New()

	t.Run("creates property successfully", func(t *testing.T) {
		p, err := NewProperty("Sunrise Court", "Ngong Road", "Nairobi", "", PropertyTypeApartment, landlordID)

		require.NoError(t, err)
		assert.Equal(t, "Sunrise Court", p.Name)
		assert.Equal(t, "Kenya", p.Country)
		assert.Equal(t, 12, p.FeePolicy.LeaseTermMonths)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		p, err := NewProperty("", "Ngong Road", "Nairobi", "", PropertyTypeApartment, landlordID)

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		p, err := NewProperty("Sunrise Court", "Ngong Road", "Nairobi", "", PropertyType("castle"), landlordID)

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails without landlord", func(t *testing.T) {
		p, err := NewProperty("Sunrise Court", "Ngong Road", "Nairobi", "", PropertyTypeApartment, uuid.Nil)

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestComputeUnitSummary(t *testing.T) {
	propertyID := uuid.New()

	makeUnit := func(t *testing.T, number string, rent int64) Unit {
		u, err := NewUnit(propertyID, number, decimal.NewFromInt(rent), 1, 1)
		require.NoError(t, err)
		return *u
	}

	lease := func(t *testing.T, u Unit) Unit {
		require.NoError(t, u.AssignTenant(uuid.New(), "Tenant", "", "", u.CreatedAt, u.CreatedAt.AddDate(1, 0, 0)))
		return u
	}

	t.Run("empty unit set yields zero summary", func(t *testing.T) {
		s := ComputeUnitSummary(nil)

		assert.Equal(t, 0, s.TotalUnits)
		assert.Equal(t, 0, s.OccupancyRate)
		assert.True(t, s.MonthlyRevenue.IsZero())
	})

	t.Run("counts and rate over a mixed set", func(t *testing.T) {
		units := []Unit{
			lease(t, makeUnit(t, "001", 15000)),
			lease(t, makeUnit(t, "002", 18000)),
			makeUnit(t, "003", 15000),
		}
		require.NoError(t, units[2].SetMaintenance(MaintenanceUnderMaintenance))

		s := ComputeUnitSummary(units)

		assert.Equal(t, 3, s.TotalUnits)
		assert.Equal(t, 2, s.LeasedCount)
		assert.Equal(t, 1, s.VacantCount)
		assert.Equal(t, 1, s.MaintenanceCount)
		assert.Equal(t, 67, s.OccupancyRate)
		assert.True(t, s.MonthlyRevenue.Equal(decimal.NewFromInt(33000)))
		assert.Equal(t, 2, s.TotalTenants)
	})

	t.Run("maintenance is orthogonal to occupancy counts", func(t *testing.T) {
		leased := lease(t, makeUnit(t, "001", 20000))
		require.NoError(t, leased.SetMaintenance(MaintenanceUnderMaintenance))
		units := []Unit{leased, makeUnit(t, "002", 20000)}

		s := ComputeUnitSummary(units)

		assert.Equal(t, s.TotalUnits, s.VacantCount+s.LeasedCount)
		assert.Equal(t, 1, s.MaintenanceCount)
		assert.Equal(t, 1, s.LeasedCount)
	})

	t.Run("legacy records resolve before counting", func(t *testing.T) {
		legacy := makeUnit(t, "001", 10000)
		legacy.Occupancy = ""
		legacy.Maintenance = ""
		legacy.Status = "occupied"
		legacy.TenantName = "Old Record"

		s := ComputeUnitSummary([]Unit{legacy})

		assert.Equal(t, 1, s.LeasedCount)
		assert.Equal(t, 0, s.VacantCount)
		assert.Equal(t, 100, s.OccupancyRate)
	})

	t.Run("invariant holds over generated sets", func(t *testing.T) {
		for n := 0; n <= 10; n++ {
			units := make([]Unit, 0, n)
			for i := 0; i < n; i++ {
				u := makeUnit(t, "00"+string(rune('1'+i)), 5000)
				if i%2 == 0 {
					u = lease(t, u)
				}
				if i%3 == 0 {
					require.NoError(t, u.SetMaintenance(MaintenanceUnderMaintenance))
				}
				units = append(units, u)
			}

			s := ComputeUnitSummary(units)

			assert.Equal(t, n, s.VacantCount+s.LeasedCount)
			assert.GreaterOrEqual(t, s.OccupancyRate, 0)
			assert.LessOrEqual(t, s.OccupancyRate, 100)
			if n == 0 {
				assert.Equal(t, 0, s.OccupancyRate)
			}
		}
	})
}

func TestUnitDefaults(t *testing.T) {
	landlordID := uuid.New()

	t.Run("one_two_bedroom alternates by parity", func(t *testing.T) {
		p, err := NewProperty("Mixed Court", "Thika Road", "Nairobi", "", PropertyTypeOneTwoBedroom, landlordID)
		require.NoError(t, err)

		for _, tc := range []struct {
			index     int
			bedrooms  int
			bathrooms int
		}{
			{1, 1, 1}, {2, 2, 2}, {3, 1, 1}, {4, 2, 2},
		} {
			bed, bath := p.UnitDefaults(tc.index)
			assert.Equal(t, tc.bedrooms, bed, "unit %d", tc.index)
			assert.Equal(t, tc.bathrooms, bath, "unit %d", tc.index)
		}
	})

	t.Run("fixed types ignore index", func(t *testing.T) {
		p, err := NewProperty("Three Bed Villas", "Karen", "Nairobi", "", PropertyTypeThreeBedroom, landlordID)
		require.NoError(t, err)

		bed, bath := p.UnitDefaults(1)
		assert.Equal(t, 3, bed)
		assert.Equal(t, 2, bath)
	})

	t.Run("apartment uses declared counts", func(t *testing.T) {
		p, err := NewProperty("Declared Apartments", "Westlands", "Nairobi", "", PropertyTypeApartment, landlordID)
		require.NoError(t, err)
		p.Bedrooms = 2
		p.Bathrooms = 1

		bed, bath := p.UnitDefaults(5)
		assert.Equal(t, 2, bed)
		assert.Equal(t, 1, bath)
	})
}

func TestUpdateFeePolicy(t *testing.T) {
	landlordID := uuid.New()
	p, err := NewProperty("Sunrise Court", "Ngong Road", "Nairobi", "", PropertyTypeApartment, landlordID)
	require.NoError(t, err)

	t.Run("rejects negative fees", func(t *testing.T) {
		err := p.UpdateFeePolicy(FeePolicy{
			SecurityDeposit: decimal.NewFromInt(-1),
			LeaseTermMonths: 12,
		})
		assert.Error(t, err)
	})

	t.Run("policy cascades onto units", func(t *testing.T) {
		require.NoError(t, p.UpdateFeePolicy(FeePolicy{
			ApplicationFee:   decimal.NewFromInt(1000),
			SecurityDeposit:  decimal.NewFromInt(30000),
			LeaseTermMonths:  6,
			NoticePeriodDays: 60,
			GracePeriodDays:  7,
		}))

		unit, err := NewUnit(p.ID, "001", decimal.NewFromInt(15000), 1, 1)
		require.NoError(t, err)
		unit.FeePolicy.SecurityDeposit = decimal.NewFromInt(99999)

		unit.ApplyPropertyPolicy(p)

		assert.True(t, unit.FeePolicy.SecurityDeposit.Equal(decimal.NewFromInt(30000)))
		assert.Equal(t, 6, unit.FeePolicy.LeaseTermMonths)
		assert.Equal(t, PropertyTypeApartment, unit.PropertyType)
	})
}
