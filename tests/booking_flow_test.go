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

func newBookingFlow(testDB *testingutil.TestDB, notifier services.NotificationService) businessflow.BookingFlow {
	pricingCfg := config.PricingConfig{BaseCurrency: "USD", PriceTolerance: 5}
	return businessflow.NewBookingFlow(
		testDB.DB,
		repository.NewServiceTypeRepository(testDB.DB),
		repository.NewVehicleTypeRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		repository.NewBookingRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		newPricingFlow(testDB, services.NewNoopRateCache()),
		businessflow.NewCurrencyFlow(
			repository.NewCurrencyExchangeRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
		),
		notifier,
		pricingCfg,
	)
}

func futurePickupDate() string {
	return utils.FormatDate(utils.UTCToday().AddDate(0, 0, 30))
}

func TestPriceValidation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		// One-way 65, round-trip 110
		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			65, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		flow := newBookingFlow(testDB, services.NewMockNotificationService())

		validate := func(total float64, tripType string) *dto.ValidatePriceResponse {
			resp, err := flow.ValidatePrice(ctx, &dto.ValidatePriceRequest{
				ServiceTypeID:  world.ServiceType.ID,
				VehicleTypeID:  world.VehicleType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       tripType,
				Passengers:     2,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromFloat(total),
			}, metadata)
			require.NoError(t, err)
			return resp
		}

		t.Run("ExactPriceIsValid", func(t *testing.T) {
			resp := validate(65, models.ServiceTypeOneWay)
			assert.True(t, resp.Valid)
			assert.True(t, resp.ExpectedPrice.Equal(decimal.NewFromInt(65)))
		})

		t.Run("UnderpayWithinToleranceIsValid", func(t *testing.T) {
			// 65 <= 60 + 5
			resp := validate(60, models.ServiceTypeOneWay)
			assert.True(t, resp.Valid)
		})

		t.Run("UnderpayBeyondToleranceIsInvalid", func(t *testing.T) {
			// 65 > 59 + 5
			resp := validate(59, models.ServiceTypeOneWay)
			assert.False(t, resp.Valid)
			assert.True(t, resp.ExpectedPrice.Equal(decimal.NewFromInt(65)))
			assert.Equal(t, "USD", resp.Currency)
		})

		t.Run("OverpayAlwaysValid", func(t *testing.T) {
			resp := validate(500, models.ServiceTypeOneWay)
			assert.True(t, resp.Valid)
		})

		t.Run("RoundTripUsesRoundTripColumn", func(t *testing.T) {
			resp := validate(110, models.ServiceTypeRoundTrip)
			assert.True(t, resp.Valid)

			// The one-way total is nowhere near the round-trip fare
			resp = validate(65, models.ServiceTypeRoundTrip)
			assert.False(t, resp.Valid)
			assert.True(t, resp.ExpectedPrice.Equal(decimal.NewFromInt(110)))
		})

		t.Run("SubmittedCurrencyConvertedBeforeComparison", func(t *testing.T) {
			_, err := fixtures.CreateTestCurrencyPair("USD", "MXN", 17.5)
			require.NoError(t, err)

			// 1137.50 MXN converts through the reciprocal pair to 65 USD
			resp, err := flow.ValidatePrice(ctx, &dto.ValidatePriceRequest{
				ServiceTypeID:  world.ServiceType.ID,
				VehicleTypeID:  world.VehicleType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       models.ServiceTypeOneWay,
				Passengers:     2,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromFloat(1137.50),
				Currency:       "MXN",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.Valid)
		})

		t.Run("WrongVehicleTypeIsInvalid", func(t *testing.T) {
			suv, err := fixtures.CreateTestVehicleType("Luxury SUV", 5)
			require.NoError(t, err)

			resp, err := flow.ValidatePrice(ctx, &dto.ValidatePriceRequest{
				ServiceTypeID:  world.ServiceType.ID,
				VehicleTypeID:  suv.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       models.ServiceTypeOneWay,
				Passengers:     2,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromInt(65),
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.Valid)
		})

		t.Run("TooManyPassengersIsError", func(t *testing.T) {
			_, err := flow.ValidatePrice(ctx, &dto.ValidatePriceRequest{
				ServiceTypeID:  world.ServiceType.ID,
				VehicleTypeID:  world.VehicleType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       models.ServiceTypeOneWay,
				Passengers:     20,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromInt(65),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNoVehiclesAvailable(err))
		})

		t.Run("UnknownServiceTypeIsError", func(t *testing.T) {
			_, err := flow.ValidatePrice(ctx, &dto.ValidatePriceRequest{
				ServiceTypeID:  99999,
				VehicleTypeID:  world.VehicleType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       models.ServiceTypeOneWay,
				Passengers:     2,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromInt(65),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsServiceTypeNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCreateBooking(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		world, err := fixtures.CreatePricingWorld()
		require.NoError(t, err)

		_, err = fixtures.CreateTestRate(
			world.ServiceType.ID, world.VehicleType.ID,
			world.FromZone.ID, world.ToZone.ID,
			65, 110, testingutil.RateOptions{})
		require.NoError(t, err)

		notifier := services.NewMockNotificationService()
		flow := newBookingFlow(testDB, notifier)

		customerRepo := repository.NewCustomerRepository(testDB.DB)
		bookingRepo := repository.NewBookingRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		baseRequest := func() *dto.CreateBookingRequest {
			return &dto.CreateBookingRequest{
				FirstName:      "Maria",
				LastName:       "Lopez",
				Email:          "maria.lopez@example.com",
				Phone:          "+525512345678",
				ServiceTypeID:  world.ServiceType.ID,
				VehicleTypeID:  world.VehicleType.ID,
				FromLocationID: world.FromLocation.ID,
				ToLocationID:   world.ToLocation.ID,
				TripType:       models.ServiceTypeOneWay,
				Passengers:     3,
				PickupDate:     futurePickupDate(),
				TotalPrice:     decimal.NewFromInt(65),
				Currency:       "USD",
			}
		}

		t.Run("CreatesCustomerAndBooking", func(t *testing.T) {
			resp, err := flow.CreateBooking(ctx, baseRequest(), metadata)
			require.NoError(t, err)
			assert.Equal(t, models.BookingStatusPending, resp.Booking.Status)
			assert.NotEmpty(t, resp.Booking.UUID)
			assert.True(t, resp.Booking.TotalPrice.Equal(decimal.NewFromInt(65)))

			customer, err := customerRepo.ByEmail(ctx, "maria.lopez@example.com")
			require.NoError(t, err)
			require.NotNil(t, customer)
			assert.Equal(t, "Maria", customer.FirstName)

			bookings, err := bookingRepo.ListByCustomer(ctx, customer.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, bookings, 1)
			assert.Equal(t, resp.Booking.UUID, bookings[0].UUID.String())

			assert.Equal(t, []string{resp.Booking.UUID}, notifier.SentBookings)

			audits, err := auditRepo.ListByAction(ctx, models.AuditActionBookingCreated, 10, 0)
			require.NoError(t, err)
			require.Len(t, audits, 1)
			require.NotNil(t, audits[0].CustomerID)
			assert.Equal(t, customer.ID, *audits[0].CustomerID)
		})

		t.Run("ReusesExistingCustomer", func(t *testing.T) {
			_, err := flow.CreateBooking(ctx, baseRequest(), metadata)
			require.NoError(t, err)

			customer, err := customerRepo.ByEmail(ctx, "maria.lopez@example.com")
			require.NoError(t, err)
			require.NotNil(t, customer)

			bookings, err := bookingRepo.ListByCustomer(ctx, customer.ID, 10, 0)
			require.NoError(t, err)
			assert.Len(t, bookings, 2)
		})

		t.Run("RejectsUnderpaidBooking", func(t *testing.T) {
			req := baseRequest()
			req.TotalPrice = decimal.NewFromInt(40)

			_, err := flow.CreateBooking(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPriceMismatch(err))

			audits, err := auditRepo.ListByAction(ctx, models.AuditActionBookingPriceRejected, 10, 0)
			require.NoError(t, err)
			require.Len(t, audits, 1)
			assert.True(t, audits[0].IsFailed())
		})

		t.Run("RejectsPastPickupDate", func(t *testing.T) {
			req := baseRequest()
			req.PickupDate = utils.FormatDate(utils.UTCToday().AddDate(0, 0, -1))

			_, err := flow.CreateBooking(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPickupDateInPast(err))
		})

		t.Run("RejectsMalformedDate", func(t *testing.T) {
			req := baseRequest()
			req.PickupDate = "June 15th"

			_, err := flow.CreateBooking(ctx, req, metadata)
			require.Error(t, err)
		})

		t.Run("NotifierFailureDoesNotFailBooking", func(t *testing.T) {
			failing := services.NewMockNotificationService()
			failing.FailWith = assert.AnError
			flaky := newBookingFlow(testDB, failing)

			req := baseRequest()
			req.Email = "second.customer@example.com"

			resp, err := flaky.CreateBooking(ctx, req, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Booking.UUID)
			assert.Empty(t, failing.SentBookings)
		})

		return nil
	})
	require.NoError(t, err)
}
