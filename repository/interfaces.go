// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/caribetransfers/backend/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CityRepository defines operations for cities
type CityRepository interface {
	Repository[models.City, models.CityFilter]
	ByName(ctx context.Context, name string) (*models.City, error)
}

// ZoneRepository defines operations for pricing zones
type ZoneRepository interface {
	Repository[models.Zone, models.ZoneFilter]
	ListByCity(ctx context.Context, cityID uint) ([]*models.Zone, error)
}

// LocationRepository defines operations for pickup/dropoff locations
type LocationRepository interface {
	Repository[models.Location, models.LocationFilter]
	ByIDWithZone(ctx context.Context, id uint) (*models.Location, error)
	ListByZone(ctx context.Context, zoneID uint) ([]*models.Location, error)
}

// ServiceTypeRepository defines operations for service types
type ServiceTypeRepository interface {
	Repository[models.ServiceType, models.ServiceTypeFilter]
	ByCode(ctx context.Context, code string) (*models.ServiceType, error)
}

// VehicleTypeRepository defines operations for vehicle classes
type VehicleTypeRepository interface {
	Repository[models.VehicleType, models.VehicleTypeFilter]
	ByName(ctx context.Context, name string) (*models.VehicleType, error)
}

// RateRepository is the rate store: fare rows looked up by location pair,
// zone pair, or service type. Validity filtering is the caller's concern so
// the predicate lives in exactly one place.
type RateRepository interface {
	Repository[models.Rate, models.RateFilter]
	ByRoute(ctx context.Context, serviceTypeID, fromLocationID, toLocationID uint) ([]*models.Rate, error)
	ByZones(ctx context.Context, serviceTypeID, fromZoneID, toZoneID uint) ([]*models.Rate, error)
	ByServiceType(ctx context.Context, serviceTypeID uint) ([]*models.Rate, error)
	Update(ctx context.Context, rate models.Rate) error
	DeleteByID(ctx context.Context, id uint) error
}

// CurrencyExchangeRepository defines operations for stored conversion pairs
type CurrencyExchangeRepository interface {
	Repository[models.CurrencyExchange, models.CurrencyExchangeFilter]
	ByPair(ctx context.Context, fromCurrency, toCurrency string) (*models.CurrencyExchange, error)
	Upsert(ctx context.Context, pair *models.CurrencyExchange) error
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// BookingRepository defines operations for bookings
type BookingRepository interface {
	Repository[models.Booking, models.BookingFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
