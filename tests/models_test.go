// Package tests contains test cases for models, repository, and flow packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateValidity(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad test date %s: %v", s, err)
		}
		return d
	}

	t.Run("UnboundedWindowIsAlwaysValid", func(t *testing.T) {
		rate := &models.Rate{Available: utils.ToPtr(true)}
		assert.True(t, rate.IsValidOn(day("2026-01-15")))
		assert.True(t, rate.IsValidOn(day("1999-12-31")))
	})

	t.Run("InclusiveBounds", func(t *testing.T) {
		rate := &models.Rate{
			Available: utils.ToPtr(true),
			ValidFrom: utils.ToPtr(day("2026-06-01")),
			ValidTo:   utils.ToPtr(day("2026-06-30")),
		}
		assert.True(t, rate.IsValidOn(day("2026-06-01")))
		assert.True(t, rate.IsValidOn(day("2026-06-30")))
		assert.True(t, rate.IsValidOn(day("2026-06-15")))
		assert.False(t, rate.IsValidOn(day("2026-05-31")))
		assert.False(t, rate.IsValidOn(day("2026-07-01")))
	})

	t.Run("OpenEndedWindows", func(t *testing.T) {
		fromOnly := &models.Rate{
			Available: utils.ToPtr(true),
			ValidFrom: utils.ToPtr(day("2026-06-01")),
		}
		assert.False(t, fromOnly.IsValidOn(day("2026-05-31")))
		assert.True(t, fromOnly.IsValidOn(day("2030-01-01")))

		toOnly := &models.Rate{
			Available: utils.ToPtr(true),
			ValidTo:   utils.ToPtr(day("2026-06-30")),
		}
		assert.True(t, toOnly.IsValidOn(day("2020-01-01")))
		assert.False(t, toOnly.IsValidOn(day("2026-07-01")))
	})

	t.Run("UnavailableNeverValid", func(t *testing.T) {
		rate := &models.Rate{Available: utils.ToPtr(false)}
		assert.False(t, rate.IsValidOn(day("2026-06-15")))

		noFlag := &models.Rate{}
		assert.False(t, noFlag.IsValidOn(day("2026-06-15")))
	})

	t.Run("SubDayPrecisionIgnored", func(t *testing.T) {
		rate := &models.Rate{
			Available: utils.ToPtr(true),
			ValidTo:   utils.ToPtr(day("2026-06-30")),
		}
		// 23:59 on the last valid day still falls inside the window
		assert.True(t, rate.IsValidOn(day("2026-06-30").Add(23*time.Hour+59*time.Minute)))
	})
}

func TestRateLocationOverride(t *testing.T) {
	t.Run("BothEndpointsSet", func(t *testing.T) {
		rate := &models.Rate{
			FromLocationID: utils.ToPtr(uint(10)),
			ToLocationID:   utils.ToPtr(uint(20)),
		}
		assert.True(t, rate.IsLocationOverride())
	})

	t.Run("ZoneLevelRow", func(t *testing.T) {
		rate := &models.Rate{}
		assert.False(t, rate.IsLocationOverride())
	})

	t.Run("HalfSetPairIsNotOverride", func(t *testing.T) {
		fromOnly := &models.Rate{FromLocationID: utils.ToPtr(uint(10))}
		assert.False(t, fromOnly.IsLocationOverride())

		toOnly := &models.Rate{ToLocationID: utils.ToPtr(uint(20))}
		assert.False(t, toOnly.IsLocationOverride())
	})
}

func TestRateTotalForTrip(t *testing.T) {
	rate := &models.Rate{
		TotalOneWay:    decimal.NewFromInt(60),
		TotalRoundTrip: decimal.NewFromInt(110),
	}

	t.Run("RoundTripColumn", func(t *testing.T) {
		assert.True(t, rate.TotalForTrip(models.ServiceTypeRoundTrip).Equal(decimal.NewFromInt(110)))
	})

	t.Run("OneWayColumn", func(t *testing.T) {
		assert.True(t, rate.TotalForTrip(models.ServiceTypeOneWay).Equal(decimal.NewFromInt(60)))
	})

	t.Run("UnknownTripTypeDefaultsToOneWay", func(t *testing.T) {
		assert.True(t, rate.TotalForTrip("charter").Equal(decimal.NewFromInt(60)))
	})
}

func TestVehicleTypeCapacity(t *testing.T) {
	van := &models.VehicleType{Name: "Standard Van", MaxPax: 8, MaxUnits: 3}

	t.Run("WithinCapacity", func(t *testing.T) {
		assert.True(t, van.CanCarry(1))
		assert.True(t, van.CanCarry(8))
	})

	t.Run("OverCapacity", func(t *testing.T) {
		assert.False(t, van.CanCarry(9))
	})

	t.Run("NonPositivePassengers", func(t *testing.T) {
		assert.False(t, van.CanCarry(0))
		assert.False(t, van.CanCarry(-1))
	})
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "cities", models.City{}.TableName())
	assert.Equal(t, "zones", models.Zone{}.TableName())
	assert.Equal(t, "locations", models.Location{}.TableName())
	assert.Equal(t, "service_types", models.ServiceType{}.TableName())
	assert.Equal(t, "vehicle_types", models.VehicleType{}.TableName())
	assert.Equal(t, "rates", models.Rate{}.TableName())
	assert.Equal(t, "currency_exchanges", models.CurrencyExchange{}.TableName())
	assert.Equal(t, "customers", models.Customer{}.TableName())
	assert.Equal(t, "bookings", models.Booking{}.TableName())
	assert.Equal(t, "audit_log", models.AuditLog{}.TableName())
}
