// Package tests contains test cases for models, repository, and flow packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/app/services"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	testingutil "github.com/caribetransfers/backend/testing"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateAdminFlow(testDB *testingutil.TestDB, cache services.RateCache) businessflow.RateAdminFlow {
	return businessflow.NewRateAdminFlow(
		repository.NewRateRepository(testDB.DB),
		repository.NewZoneRepository(testDB.DB),
		repository.NewLocationRepository(testDB.DB),
		repository.NewServiceTypeRepository(testDB.DB),
		repository.NewVehicleTypeRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		cache,
		config.PricingConfig{BaseCurrency: "USD", PriceTolerance: 5},
	)
}

func createRateRequest(world *testingutil.PricingWorld) *dto.CreateRateRequest {
	return &dto.CreateRateRequest{
		ServiceTypeID:        world.ServiceType.ID,
		VehicleTypeID:        world.VehicleType.ID,
		FromZoneID:           world.FromZone.ID,
		ToZoneID:             world.ToZone.ID,
		CostVehicleOneWay:    decimal.NewFromInt(48),
		TotalOneWay:          decimal.NewFromInt(60),
		CostVehicleRoundTrip: decimal.NewFromInt(88),
		TotalRoundTrip:       decimal.NewFromInt(110),
	}
}

func TestCreateRate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		flow := newRateAdminFlow(testDB, services.NewMemoryRateCache())
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		t.Run("ZoneLevelRate", func(t *testing.T) {
			resp, err := flow.CreateRate(ctx, createRateRequest(world), metadata)
			require.NoError(t, err)
			assert.NotZero(t, resp.Rate.ID)
			assert.Equal(t, 1, resp.Rate.NumVehicles)
			assert.Equal(t, "USD", resp.Rate.Currency)
			assert.Nil(t, resp.Rate.FromLocationID)

			audits, err := auditRepo.ListByAction(ctx, models.AuditActionRateCreated, 10, 0)
			require.NoError(t, err)
			assert.Len(t, audits, 1)
		})

		t.Run("LocationOverrideRate", func(t *testing.T) {
			req := createRateRequest(world)
			req.FromLocationID = &world.FromLocation.ID
			req.ToLocationID = &world.ToLocation.ID

			resp, err := flow.CreateRate(ctx, req, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp.Rate.FromLocationID)
			assert.Equal(t, world.FromLocation.ID, *resp.Rate.FromLocationID)
		})

		t.Run("RejectsHalfLocationPair", func(t *testing.T) {
			req := createRateRequest(world)
			req.FromLocationID = &world.FromLocation.ID

			_, err := flow.CreateRate(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsRateLocationPairSplit(err))
		})

		t.Run("RejectsLocationOutsideZone", func(t *testing.T) {
			req := createRateRequest(world)
			// Both locations named, but the from-location sits in the
			// to-zone, not the from-zone
			req.FromLocationID = &world.ToLocation.ID
			req.ToLocationID = &world.FromLocation.ID

			_, err := flow.CreateRate(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLocationZoneMismatch(err))
		})

		t.Run("RejectsUnknownZone", func(t *testing.T) {
			req := createRateRequest(world)
			req.ToZoneID = 99999

			_, err := flow.CreateRate(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsZoneNotFound(err))
		})

		t.Run("RejectsInvertedValidityWindow", func(t *testing.T) {
			req := createRateRequest(world)
			req.ValidFrom = utils.ToPtr("2026-07-01")
			req.ValidTo = utils.ToPtr("2026-06-01")

			_, err := flow.CreateRate(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsValidityWindowInverted(err))
		})

		t.Run("RejectsNegativeAmount", func(t *testing.T) {
			req := createRateRequest(world)
			req.TotalOneWay = decimal.NewFromInt(-1)

			_, err := flow.CreateRate(ctx, req, metadata)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRateWritesClearPricingCache(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			60, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		cache := services.NewMemoryRateCache()
		pricingFlow := newPricingFlow(testDB, cache)
		adminFlow := newRateAdminFlow(testDB, cache)

		travelDate, err := utils.ParseDate("2026-06-15")
		require.NoError(t, err)

		// Warm the cache
		first, _, err := pricingFlow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
		require.NoError(t, err)
		require.Len(t, first, 1)

		// An administrative write must invalidate the warmed entry
		req := createRateRequest(world)
		req.TotalOneWay = decimal.NewFromInt(45)
		_, err = adminFlow.CreateRate(ctx, req, metadata)
		require.NoError(t, err)

		key := services.RouteCacheKey(world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, utils.FormatDate(travelDate))
		_, ok := cache.Get(ctx, key)
		assert.False(t, ok)

		// The next resolution sees the new row
		fresh, _, err := pricingFlow.ResolveRouteRates(ctx, world.ServiceType.ID, world.FromLocation.ID, world.ToLocation.ID, travelDate)
		require.NoError(t, err)
		assert.Len(t, fresh, 2)

		return nil
	})
	require.NoError(t, err)
}

func TestUpdateAndDeleteRate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		flow := newRateAdminFlow(testDB, services.NewMemoryRateCache())
		rateRepo := repository.NewRateRepository(testDB.DB)

		created, err := flow.CreateRate(ctx, createRateRequest(world), metadata)
		require.NoError(t, err)

		t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
			resp, err := flow.UpdateRate(ctx, created.Rate.ID, &dto.UpdateRateRequest{
				TotalOneWay: utils.ToPtr(decimal.NewFromInt(72)),
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.Rate.TotalOneWay.Equal(decimal.NewFromInt(72)))
			assert.True(t, resp.Rate.TotalRoundTrip.Equal(decimal.NewFromInt(110)))
		})

		t.Run("SetAndClearValidityWindow", func(t *testing.T) {
			resp, err := flow.UpdateRate(ctx, created.Rate.ID, &dto.UpdateRateRequest{
				ValidFrom: utils.ToPtr("2026-06-01"),
				ValidTo:   utils.ToPtr("2026-08-31"),
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp.Rate.ValidFrom)
			assert.Equal(t, "2026-06-01", *resp.Rate.ValidFrom)

			resp, err = flow.UpdateRate(ctx, created.Rate.ID, &dto.UpdateRateRequest{
				ClearValidity: true,
			}, metadata)
			require.NoError(t, err)
			assert.Nil(t, resp.Rate.ValidFrom)
			assert.Nil(t, resp.Rate.ValidTo)
		})

		t.Run("PromoteAndDemoteLocationOverride", func(t *testing.T) {
			resp, err := flow.UpdateRate(ctx, created.Rate.ID, &dto.UpdateRateRequest{
				FromLocationID: &world.FromLocation.ID,
				ToLocationID:   &world.ToLocation.ID,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp.Rate.FromLocationID)

			resp, err = flow.UpdateRate(ctx, created.Rate.ID, &dto.UpdateRateRequest{
				ClearLocations: true,
			}, metadata)
			require.NoError(t, err)
			assert.Nil(t, resp.Rate.FromLocationID)
			assert.Nil(t, resp.Rate.ToLocationID)
		})

		t.Run("UpdateUnknownRate", func(t *testing.T) {
			_, err := flow.UpdateRate(ctx, 99999, &dto.UpdateRateRequest{
				TotalOneWay: utils.ToPtr(decimal.NewFromInt(10)),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsRateNotFound(err))
		})

		t.Run("DeleteRemovesRow", func(t *testing.T) {
			_, err := flow.DeleteRate(ctx, created.Rate.ID, metadata)
			require.NoError(t, err)

			gone, err := rateRepo.ByID(ctx, created.Rate.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)

			_, err = flow.DeleteRate(ctx, created.Rate.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsRateNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListRates(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			_, err := fixtures.CreateTestRate(
				world.ServiceType.ID, world.VehicleType.ID,
				world.FromZone.ID, world.ToZone.ID,
				float64(50+i), float64(90+i), testingutil.RateOptions{})
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			40, 75, testingutil.RateOptions{Unavailable: true})
		require.NoError(t, err)

		flow := newRateAdminFlow(testDB, services.NewNoopRateCache())

		t.Run("Paginates", func(t *testing.T) {
			resp, err := flow.ListRates(ctx, &dto.ListRatesRequest{Page: 1, PageSize: 4})
			require.NoError(t, err)
			assert.Equal(t, int64(6), resp.Total)
			assert.Len(t, resp.Rates, 4)

			resp, err = flow.ListRates(ctx, &dto.ListRatesRequest{Page: 2, PageSize: 4})
			require.NoError(t, err)
			assert.Len(t, resp.Rates, 2)
		})

		t.Run("FiltersByAvailability", func(t *testing.T) {
			resp, err := flow.ListRates(ctx, &dto.ListRatesRequest{Available: utils.ToPtr(false)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Total)
			require.Len(t, resp.Rates, 1)
		})

		t.Run("DefaultsPageAndSize", func(t *testing.T) {
			resp, err := flow.ListRates(ctx, &dto.ListRatesRequest{})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Page)
			assert.Equal(t, 50, resp.PageSize)
			assert.Len(t, resp.Rates, 6)
		})

		return nil
	})
	require.NoError(t, err)
}
