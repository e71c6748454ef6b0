// Package tests contains test cases for models, repository, and flow packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	testingutil "github.com/caribetransfers/backend/testing"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewRateRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		zoneRate, err := fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			60, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		overrideRate, err := fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			75, 140, testingutil.RateOptions{
				FromLocationID: &world.FromLocation.ID,
				ToLocationID:   &world.ToLocation.ID,
			})
		require.NoError(t, err)

		t.Run("ByRouteReturnsOnlyLocationRows", func(t *testing.T) {
			rates, err := repo.ByRoute(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID)
			require.NoError(t, err)
			require.Len(t, rates, 1)
			assert.Equal(t, overrideRate.ID, rates[0].ID)
			assert.True(t, rates[0].IsLocationOverride())
		})

		t.Run("ByRoutePreloadsAssociations", func(t *testing.T) {
			rates, err := repo.ByRoute(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID)
			require.NoError(t, err)
			require.Len(t, rates, 1)
			require.NotNil(t, rates[0].VehicleType)
			assert.Equal(t, world.VehicleType.Name, rates[0].VehicleType.Name)
			require.NotNil(t, rates[0].ServiceType)
			assert.Equal(t, world.ServiceType.Code, rates[0].ServiceType.Code)
		})

		t.Run("ByZonesExcludesOverrideRows", func(t *testing.T) {
			rates, err := repo.ByZones(ctx, world.ServiceType.ID, world.FromZone.ID, world.ToZone.ID)
			require.NoError(t, err)
			require.Len(t, rates, 1)
			assert.Equal(t, zoneRate.ID, rates[0].ID)
			assert.False(t, rates[0].IsLocationOverride())
		})

		t.Run("ByZonesUnknownPairIsEmpty", func(t *testing.T) {
			rates, err := repo.ByZones(ctx, world.ServiceType.ID, world.FromZone.ID, 9999)
			require.NoError(t, err)
			assert.Empty(t, rates)
		})

		t.Run("ByServiceTypeReturnsAllRows", func(t *testing.T) {
			rates, err := repo.ByServiceType(ctx, world.ServiceType.ID)
			require.NoError(t, err)
			assert.Len(t, rates, 2)
		})

		t.Run("ByFilterAvailable", func(t *testing.T) {
			_, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				50, 95, testingutil.RateOptions{Unavailable: true})
			require.NoError(t, err)

			rates, err := repo.ByFilter(ctx, models.RateFilter{
				ServiceTypeID: &world.ServiceType.ID,
				Available:     utils.ToPtr(false),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, rates, 1)
			assert.False(t, utils.IsTrue(rates[0].Available))
		})

		t.Run("UpdateReplacesRow", func(t *testing.T) {
			updated := *zoneRate
			updated.Available = utils.ToPtr(false)
			require.NoError(t, repo.Update(ctx, updated))

			reloaded, err := repo.ByID(ctx, zoneRate.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.False(t, utils.IsTrue(reloaded.Available))
		})

		t.Run("DeleteByID", func(t *testing.T) {
			victim, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				10, 18, testingutil.RateOptions{})
			require.NoError(t, err)

			require.NoError(t, repo.DeleteByID(ctx, victim.ID))

			gone, err := repo.ByID(ctx, victim.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCurrencyExchangeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCurrencyExchangeRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestCurrencyPair("USD", "MXN", 17.5)
		require.NoError(t, err)

		t.Run("ByPair", func(t *testing.T) {
			pair, err := repo.ByPair(ctx, "USD", "MXN")
			require.NoError(t, err)
			require.NotNil(t, pair)
			assert.True(t, pair.ExchangeRate.Equal(decimal.NewFromFloat(17.5)))
		})

		t.Run("ByPairIsDirectional", func(t *testing.T) {
			pair, err := repo.ByPair(ctx, "MXN", "USD")
			require.NoError(t, err)
			assert.Nil(t, pair)
		})

		t.Run("ByPairMissing", func(t *testing.T) {
			pair, err := repo.ByPair(ctx, "USD", "EUR")
			require.NoError(t, err)
			assert.Nil(t, pair)
		})

		t.Run("UpsertReplacesExisting", func(t *testing.T) {
			require.NoError(t, repo.Upsert(ctx, &models.CurrencyExchange{
				FromCurrency: "USD",
				ToCurrency:   "MXN",
				ExchangeRate: decimal.NewFromFloat(18.2),
			}))

			pair, err := repo.ByPair(ctx, "USD", "MXN")
			require.NoError(t, err)
			require.NotNil(t, pair)
			assert.True(t, pair.ExchangeRate.Equal(decimal.NewFromFloat(18.2)))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLocationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewLocationRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		city, err := fixtures.CreateTestCity("Playa del Carmen")
		require.NoError(t, err)
		zone, err := fixtures.CreateTestZone(city.ID, "Playacar")
		require.NoError(t, err)
		location, err := fixtures.CreateTestLocation(zone.ID, "Riu Palace", models.LocationTypeHotel)
		require.NoError(t, err)

		t.Run("ByIDWithZone", func(t *testing.T) {
			got, err := repo.ByIDWithZone(ctx, location.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, zone.ID, got.ZoneID)
			require.NotNil(t, got.Zone)
			assert.Equal(t, "Playacar", got.Zone.Name)
		})

		t.Run("ByIDWithZoneMissing", func(t *testing.T) {
			got, err := repo.ByIDWithZone(ctx, 9999)
			require.NoError(t, err)
			assert.Nil(t, got)
		})

		t.Run("ListByZone", func(t *testing.T) {
			locations, err := repo.ListByZone(ctx, zone.ID)
			require.NoError(t, err)
			require.Len(t, locations, 1)
			assert.Equal(t, location.ID, locations[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCustomerRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCustomerRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)

		t.Run("ByEmail", func(t *testing.T) {
			got, err := repo.ByEmail(ctx, customer.Email)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, customer.ID, got.ID)
		})

		t.Run("ByEmailMissing", func(t *testing.T) {
			got, err := repo.ByEmail(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.Nil(t, got)
		})

		return nil
	})
	require.NoError(t, err)
}
