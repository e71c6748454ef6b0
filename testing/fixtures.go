// Package testing provides test utilities and database setup for testing the booking system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCity creates a city
func (tf *TestFixtures) CreateTestCity(name string) (*models.City, error) {
	city := &models.City{
		Name:     name,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(city).Error; err != nil {
		return nil, fmt.Errorf("failed to create test city: %w", err)
	}
	return city, nil
}

// CreateTestZone creates a pricing zone in the given city
func (tf *TestFixtures) CreateTestZone(cityID uint, name string) (*models.Zone, error) {
	zone := &models.Zone{
		CityID:   cityID,
		Name:     name,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(zone).Error; err != nil {
		return nil, fmt.Errorf("failed to create test zone: %w", err)
	}
	return zone, nil
}

// CreateTestLocation creates a location in the given zone
func (tf *TestFixtures) CreateTestLocation(zoneID uint, name, locationType string) (*models.Location, error) {
	location := &models.Location{
		ZoneID:   zoneID,
		Name:     name,
		Type:     locationType,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(location).Error; err != nil {
		return nil, fmt.Errorf("failed to create test location: %w", err)
	}
	return location, nil
}

// CreateTestServiceType creates a service type with a unique code
func (tf *TestFixtures) CreateTestServiceType(code, name string) (*models.ServiceType, error) {
	serviceType := &models.ServiceType{
		Code:     code,
		Name:     name,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(serviceType).Error; err != nil {
		return nil, fmt.Errorf("failed to create test service type: %w", err)
	}
	return serviceType, nil
}

// CreateTestVehicleType creates a vehicle class with the given capacity
func (tf *TestFixtures) CreateTestVehicleType(name string, maxPax int) (*models.VehicleType, error) {
	vehicleType := &models.VehicleType{
		Name:     name,
		MaxPax:   maxPax,
		MaxUnits: 3,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(vehicleType).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vehicle type: %w", err)
	}
	return vehicleType, nil
}

// RateOptions tunes CreateTestRate. Zero values mean zone-level, always
// valid, available.
type RateOptions struct {
	FromLocationID *uint
	ToLocationID   *uint
	ValidFrom      *time.Time
	ValidTo        *time.Time
	Unavailable    bool
}

// CreateTestRate creates a fare row for the given zone pair
func (tf *TestFixtures) CreateTestRate(serviceTypeID, vehicleTypeID, fromZoneID, toZoneID uint, totalOneWay, totalRoundTrip float64, opts RateOptions) (*models.Rate, error) {
	oneWay := decimal.NewFromFloat(totalOneWay)
	roundTrip := decimal.NewFromFloat(totalRoundTrip)

	rate := &models.Rate{
		ServiceTypeID:        serviceTypeID,
		VehicleTypeID:        vehicleTypeID,
		FromZoneID:           fromZoneID,
		ToZoneID:             toZoneID,
		FromLocationID:       opts.FromLocationID,
		ToLocationID:         opts.ToLocationID,
		CostVehicleOneWay:    oneWay.Mul(decimal.NewFromFloat(0.8)).Round(2),
		TotalOneWay:          oneWay,
		CostVehicleRoundTrip: roundTrip.Mul(decimal.NewFromFloat(0.8)).Round(2),
		TotalRoundTrip:       roundTrip,
		NumVehicles:          1,
		Available:            utils.ToPtr(!opts.Unavailable),
		ValidFrom:            opts.ValidFrom,
		ValidTo:              opts.ValidTo,
	}
	if err := tf.DB.DB.Create(rate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rate: %w", err)
	}
	return rate, nil
}

// CreateTestCurrencyPair stores a directed conversion pair
func (tf *TestFixtures) CreateTestCurrencyPair(from, to string, rate float64) (*models.CurrencyExchange, error) {
	pair := &models.CurrencyExchange{
		FromCurrency: from,
		ToCurrency:   to,
		ExchangeRate: decimal.NewFromFloat(rate),
	}
	if err := tf.DB.DB.Create(pair).Error; err != nil {
		return nil, fmt.Errorf("failed to create test currency pair: %w", err)
	}
	return pair, nil
}

// CreateTestCustomer creates a customer with a unique email
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	suffix := rand.Intn(10000000)
	customer := &models.Customer{
		FirstName: "John",
		LastName:  "Doe",
		Email:     fmt.Sprintf("john.doe.%d@example.com", suffix),
		Phone:     utils.ToPtr("+15550100"),
	}
	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// PricingWorld is a fully-populated routing fixture: one city, two zones, a
// location in each, one service type, and one vehicle class.
type PricingWorld struct {
	City         *models.City
	FromZone     *models.Zone
	ToZone       *models.Zone
	FromLocation *models.Location
	ToLocation   *models.Location
	ServiceType  *models.ServiceType
	VehicleType  *models.VehicleType
}

// CreatePricingWorld builds the standard fixture graph most pricing tests need
func (tf *TestFixtures) CreatePricingWorld() (*PricingWorld, error) {
	city, err := tf.CreateTestCity("Cancun")
	if err != nil {
		return nil, err
	}
	fromZone, err := tf.CreateTestZone(city.ID, "Hotel Zone")
	if err != nil {
		return nil, err
	}
	toZone, err := tf.CreateTestZone(city.ID, "Airport Zone")
	if err != nil {
		return nil, err
	}
	fromLocation, err := tf.CreateTestLocation(fromZone.ID, "Grand Fiesta Resort", models.LocationTypeHotel)
	if err != nil {
		return nil, err
	}
	toLocation, err := tf.CreateTestLocation(toZone.ID, "CUN Terminal 3", models.LocationTypeAirport)
	if err != nil {
		return nil, err
	}
	serviceType, err := tf.CreateTestServiceType(models.ServiceTypeOneWay, "One Way Transfer")
	if err != nil {
		return nil, err
	}
	vehicleType, err := tf.CreateTestVehicleType("Standard Van", 8)
	if err != nil {
		return nil, err
	}

	return &PricingWorld{
		City:         city,
		FromZone:     fromZone,
		ToZone:       toZone,
		FromLocation: fromLocation,
		ToLocation:   toLocation,
		ServiceType:  serviceType,
		VehicleType:  vehicleType,
	}, nil
}
