package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the central pricing entity: a priced fare row keyed by service type,
// vehicle type and a zone pair, optionally overridden for a specific location
// pair. A row is zone-based always (both zone IDs are required) and
// additionally location-specific when both location IDs are set. Multiple rows
// may exist for the same (service type, zone pair) with disjoint or overlapping
// validity windows; resolution order, not the database, disambiguates.
// Amounts are stored in the base currency (USD) with 2-place precision.
// Table: rates
type Rate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceTypeID uint         `gorm:"not null;index:idx_rates_service_type_id" json:"service_type_id"`
	ServiceType   *ServiceType `gorm:"foreignKey:ServiceTypeID;references:ID" json:"service_type,omitempty"`
	VehicleTypeID uint         `gorm:"not null;index:idx_rates_vehicle_type_id" json:"vehicle_type_id"`
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID;references:ID" json:"vehicle_type,omitempty"`

	FromZoneID uint  `gorm:"not null;index:idx_rates_zone_pair" json:"from_zone_id"`
	FromZone   *Zone `gorm:"foreignKey:FromZoneID;references:ID" json:"from_zone,omitempty"`
	ToZoneID   uint  `gorm:"not null;index:idx_rates_zone_pair" json:"to_zone_id"`
	ToZone     *Zone `gorm:"foreignKey:ToZoneID;references:ID" json:"to_zone,omitempty"`

	FromLocationID *uint     `gorm:"index:idx_rates_location_pair" json:"from_location_id,omitempty"`
	FromLocation   *Location `gorm:"foreignKey:FromLocationID;references:ID" json:"from_location,omitempty"`
	ToLocationID   *uint     `gorm:"index:idx_rates_location_pair" json:"to_location_id,omitempty"`
	ToLocation     *Location `gorm:"foreignKey:ToLocationID;references:ID" json:"to_location,omitempty"`

	CostVehicleOneWay    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost_vehicle_one_way"`
	TotalOneWay          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_one_way"`
	CostVehicleRoundTrip decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost_vehicle_round_trip"`
	TotalRoundTrip       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_round_trip"`

	NumVehicles int   `gorm:"not null;default:1" json:"num_vehicles"`
	Available   *bool `gorm:"default:true;index:idx_rates_available" json:"available"`

	ValidFrom *time.Time `gorm:"type:date" json:"valid_from,omitempty"`
	ValidTo   *time.Time `gorm:"type:date" json:"valid_to,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_rates_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Rate) TableName() string { return "rates" }

// IsLocationOverride reports whether the row prices a specific location pair
// rather than the zone-level default. Both endpoints must be set.
func (r *Rate) IsLocationOverride() bool {
	return r.FromLocationID != nil && r.ToLocationID != nil
}

// IsValidOn is the validity predicate applied to every candidate row before it
// is offered to the resolver's priority logic. A nil bound is unbounded on that
// side. Comparison is at calendar-date granularity.
func (r *Rate) IsValidOn(date time.Time) bool {
	if r.Available == nil || !*r.Available {
		return false
	}
	day := date.Truncate(24 * time.Hour)
	if r.ValidFrom != nil && day.Before(r.ValidFrom.Truncate(24*time.Hour)) {
		return false
	}
	if r.ValidTo != nil && day.After(r.ValidTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// TotalForTrip returns the fare column matching the trip type: round-trip
// bookings price against TotalRoundTrip, everything else against TotalOneWay.
func (r *Rate) TotalForTrip(tripType string) decimal.Decimal {
	if tripType == ServiceTypeRoundTrip {
		return r.TotalRoundTrip
	}
	return r.TotalOneWay
}

// RateFilter represents filter criteria for rate queries
type RateFilter struct {
	ID             *uint
	ServiceTypeID  *uint
	VehicleTypeID  *uint
	FromZoneID     *uint
	ToZoneID       *uint
	FromLocationID *uint
	ToLocationID   *uint
	Available      *bool
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
