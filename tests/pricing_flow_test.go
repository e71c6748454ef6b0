// Package tests contains test cases for models, repository, and flow packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/app/services"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/repository"
	testingutil "github.com/caribetransfers/backend/testing"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFlow(testDB *testingutil.TestDB, cache services.RateCache) businessflow.PricingFlow {
	currencyFlow := businessflow.NewCurrencyFlow(
		repository.NewCurrencyExchangeRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
	)
	return businessflow.NewPricingFlow(
		repository.NewRateRepository(testDB.DB),
		repository.NewLocationRepository(testDB.DB),
		repository.NewServiceTypeRepository(testDB.DB),
		cache,
		currencyFlow,
		config.CacheConfig{Enabled: true, Provider: "memory", RouteTTL: time.Minute, ServiceTypeTTL: time.Minute},
		config.PricingConfig{BaseCurrency: "USD", PriceTolerance: 5},
	)
}

func TestRateResolution(t *testing.T) {
	travelDate, err := utils.ParseDate("2026-06-15")
	require.NoError(t, err)

	err = testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		zoneRate, err := fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			60, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		t.Run("ZoneDefaultWhenNoOverride", func(t *testing.T) {
			flow := newPricingFlow(testDB, services.NewMemoryRateCache())

			rates, source, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Equal(t, dto.RateSourceZoneDefault, source)
			require.Len(t, rates, 1)
			assert.Equal(t, zoneRate.ID, rates[0].ID)
		})

		t.Run("OverrideSuppressesZoneDefaults", func(t *testing.T) {
			overrideRate, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				75, 140, testingutil.RateOptions{
					FromLocationID: &world.FromLocation.ID,
					ToLocationID:   &world.ToLocation.ID,
				})
			require.NoError(t, err)

			flow := newPricingFlow(testDB, services.NewMemoryRateCache())

			rates, source, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Equal(t, dto.RateSourceLocationOverride, source)
			require.Len(t, rates, 1)
			assert.Equal(t, overrideRate.ID, rates[0].ID)
		})

		t.Run("NoRatesIsEmptyNotError", func(t *testing.T) {
			unrated, err := fixtures.CreateTestServiceType("charter", "Private Charter")
			require.NoError(t, err)

			flow := newPricingFlow(testDB, services.NewMemoryRateCache())

			rates, source, err := flow.ResolveRouteRates(ctx, unrated.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Empty(t, rates)
			assert.Empty(t, source)
		})

		t.Run("UnknownLocationIsError", func(t *testing.T) {
			flow := newPricingFlow(testDB, services.NewMemoryRateCache())

			_, _, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, 99999, world.ToLocation.ID, travelDate)
			require.Error(t, err)
			assert.True(t, businessflow.IsLocationNotFound(err))
		})

		t.Run("ExpiredOverrideFallsBackToZoneDefault", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			world, err := fixtures.CreatePricingWorld()
			require.NoError(t, err)

			zoneRate, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				60, 110, testingutil.RateOptions{})
			require.NoError(t, err)

			lastSeason, err := utils.ParseDate("2025-12-31")
			require.NoError(t, err)
			_, err = fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				75, 140, testingutil.RateOptions{
					FromLocationID: &world.FromLocation.ID,
					ToLocationID:   &world.ToLocation.ID,
					ValidTo:        &lastSeason,
				})
			require.NoError(t, err)

			flow := newPricingFlow(testDB, services.NewMemoryRateCache())

			rates, source, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Equal(t, dto.RateSourceZoneDefault, source)
			require.Len(t, rates, 1)
			assert.Equal(t, zoneRate.ID, rates[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRateResolutionCaching(t *testing.T) {
	travelDate, err := utils.ParseDate("2026-06-15")
	require.NoError(t, err)

	err = testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			60, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		cache := services.NewMemoryRateCache()
		flow := newPricingFlow(testDB, cache)

		t.Run("HitMatchesMiss", func(t *testing.T) {
			first, firstSource, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)

			second, secondSource, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)

			assert.Equal(t, firstSource, secondSource)
			require.Len(t, second, len(first))
			for i := range first {
				assert.Equal(t, first[i].ID, second[i].ID)
				assert.True(t, first[i].TotalOneWay.Equal(second[i].TotalOneWay))
			}
			// Preloaded associations survive the cache round-trip
			require.NotNil(t, second[0].VehicleType)
			assert.Equal(t, world.VehicleType.Name, second[0].VehicleType.Name)
		})

		t.Run("CachedSetServedUntilCleared", func(t *testing.T) {
			added, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				45, 85, testingutil.RateOptions{})
			require.NoError(t, err)

			cached, _, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Len(t, cached, 1)

			require.NoError(t, cache.Clear(ctx))

			fresh, _, err := flow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Len(t, fresh, 2)

			ids := []uint{fresh[0].ID, fresh[1].ID}
			assert.Contains(t, ids, added.ID)
		})

		t.Run("EmptyResultIsCached", func(t *testing.T) {
			unrated, err := fixtures.CreateTestServiceType("vip", "VIP Transfer")
			require.NoError(t, err)

			rates, _, err := flow.ResolveRouteRates(ctx, unrated.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
			require.NoError(t, err)
			assert.Empty(t, rates)

			key := services.RouteCacheKey(unrated.ID, world.FromLocation.ID, world.ToLocation.ID, utils.FormatDate(travelDate))
			_, ok := cache.Get(ctx, key)
			assert.True(t, ok)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRatesForRoute(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			60, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		flow := newPricingFlow(testDB, services.NewMemoryRateCache())

		t.Run("BaseCurrencyByDefault", func(t *testing.T) {
			resp, err := flow.RatesForRoute(ctx, &dto.RouteRatesRequest{
				ServiceTypeID:  world.ServiceType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				Date:           "2026-06-15",
			})
			require.NoError(t, err)
			assert.Equal(t, "USD", resp.Currency)
			assert.Equal(t, dto.RateSourceZoneDefault, resp.Source)
			require.Len(t, resp.Rates, 1)
			assert.True(t, resp.Rates[0].TotalOneWay.Equal(decimal.NewFromInt(60)))
			assert.Equal(t, world.VehicleType.Name, resp.Rates[0].VehicleTypeName)
		})

		t.Run("ConvertedToRequestedCurrency", func(t *testing.T) {
			_, err := fixtures.CreateTestCurrencyPair("USD", "MXN", 17.5)
			require.NoError(t, err)

			resp, err := flow.RatesForRoute(ctx, &dto.RouteRatesRequest{
				ServiceTypeID:  world.ServiceType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				Date:           "2026-06-15",
				Currency:       "MXN",
			})
			require.NoError(t, err)
			assert.Equal(t, "MXN", resp.Currency)
			require.Len(t, resp.Rates, 1)
			assert.True(t, resp.Rates[0].TotalOneWay.Equal(decimal.NewFromInt(1050)))
		})

		t.Run("CapacityFilterDropsSmallVehicles", func(t *testing.T) {
			resp, err := flow.RatesForRoute(ctx, &dto.RouteRatesRequest{
				ServiceTypeID:  world.ServiceType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				Date:           "2026-06-15",
				Passengers:     10,
			})
			require.NoError(t, err)
			assert.Empty(t, resp.Rates)
		})

		t.Run("InvalidDateRejected", func(t *testing.T) {
			_, err := flow.RatesForRoute(ctx, &dto.RouteRatesRequest{
				ServiceTypeID:  world.ServiceType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				Date:           "15-06-2026",
			})
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCurrencyFlowResolveFactor(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewCurrencyFlow(
			repository.NewCurrencyExchangeRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
		)

		_, err := fixtures.CreateTestCurrencyPair("USD", "MXN", 17.5)
		require.NoError(t, err)

		t.Run("Identity", func(t *testing.T) {
			factor, source := flow.ResolveFactor(ctx, "USD", "USD")
			assert.True(t, factor.Equal(decimal.NewFromInt(1)))
			assert.Equal(t, dto.ExchangeRateSourceDirect, source)
		})

		t.Run("DirectPair", func(t *testing.T) {
			factor, source := flow.ResolveFactor(ctx, "USD", "MXN")
			assert.True(t, factor.Equal(decimal.NewFromFloat(17.5)))
			assert.Equal(t, dto.ExchangeRateSourceDirect, source)
		})

		t.Run("ReciprocalOfStoredPair", func(t *testing.T) {
			factor, source := flow.ResolveFactor(ctx, "MXN", "USD")
			assert.Equal(t, dto.ExchangeRateSourceReciprocal, source)

			// factor * 17.5 must land back on 1 within rounding noise
			roundTrip := factor.Mul(decimal.NewFromFloat(17.5))
			diff := roundTrip.Sub(decimal.NewFromInt(1)).Abs()
			assert.True(t, diff.LessThan(decimal.New(1, -9)), "round trip drifted: %s", roundTrip)
		})

		t.Run("MissingPairFallsBackToOne", func(t *testing.T) {
			factor, source := flow.ResolveFactor(ctx, "USD", "EUR")
			assert.True(t, factor.Equal(decimal.NewFromInt(1)))
			assert.Equal(t, dto.ExchangeRateSourceFallback, source)
		})

		t.Run("NormalizesCase", func(t *testing.T) {
			factor, source := flow.ResolveFactor(ctx, "usd", "mxn")
			assert.True(t, factor.Equal(decimal.NewFromFloat(17.5)))
			assert.Equal(t, dto.ExchangeRateSourceDirect, source)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCurrencyFlowUpsert(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()

		flow := businessflow.NewCurrencyFlow(
			repository.NewCurrencyExchangeRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("StoresNewPair", func(t *testing.T) {
			resp, err := flow.UpsertExchangeRate(ctx, &dto.UpsertExchangeRateRequest{
				FromCurrency: "usd",
				ToCurrency:   "cad",
				ExchangeRate: decimal.NewFromFloat(1.35),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "USD", resp.FromCurrency)
			assert.Equal(t, "CAD", resp.ToCurrency)

			factor, source := flow.ResolveFactor(ctx, "USD", "CAD")
			assert.True(t, factor.Equal(decimal.NewFromFloat(1.35)))
			assert.Equal(t, dto.ExchangeRateSourceDirect, source)
		})

		t.Run("RejectsSamePair", func(t *testing.T) {
			_, err := flow.UpsertExchangeRate(ctx, &dto.UpsertExchangeRateRequest{
				FromCurrency: "USD",
				ToCurrency:   "usd",
				ExchangeRate: decimal.NewFromInt(1),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSameCurrencyPair(err))
		})

		t.Run("RejectsNonPositiveRate", func(t *testing.T) {
			_, err := flow.UpsertExchangeRate(ctx, &dto.UpsertExchangeRateRequest{
				FromCurrency: "USD",
				ToCurrency:   "EUR",
				ExchangeRate: decimal.Zero,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsExchangeRateNotPositive(err))
		})

		return nil
	})
	require.NoError(t, err)
}
