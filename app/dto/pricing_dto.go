package dto

import "github.com/shopspring/decimal"

// Rate source values returned by resolution
const (
	RateSourceLocationOverride = "location_override"
	RateSourceZoneDefault      = "zone_default"
)

// RateDTO is one priced vehicle option for a route
type RateDTO struct {
	ID                   uint            `json:"id"`
	ServiceTypeID        uint            `json:"service_type_id"`
	ServiceTypeCode      string          `json:"service_type_code,omitempty"`
	VehicleTypeID        uint            `json:"vehicle_type_id"`
	VehicleTypeName      string          `json:"vehicle_type_name,omitempty"`
	MaxPax               int             `json:"max_pax,omitempty"`
	FromZoneID           uint            `json:"from_zone_id"`
	ToZoneID             uint            `json:"to_zone_id"`
	FromLocationID       *uint           `json:"from_location_id,omitempty"`
	ToLocationID         *uint           `json:"to_location_id,omitempty"`
	CostVehicleOneWay    decimal.Decimal `json:"cost_vehicle_one_way"`
	TotalOneWay          decimal.Decimal `json:"total_one_way"`
	CostVehicleRoundTrip decimal.Decimal `json:"cost_vehicle_round_trip"`
	TotalRoundTrip       decimal.Decimal `json:"total_round_trip"`
	NumVehicles          int             `json:"num_vehicles"`
	Currency             string          `json:"currency"`
	ValidFrom            *string         `json:"valid_from,omitempty"`
	ValidTo              *string         `json:"valid_to,omitempty"`
}

// RouteRatesRequest queries priced options for a concrete location pair
type RouteRatesRequest struct {
	ServiceTypeID  uint   `json:"service_type_id" validate:"required,min=1"`
	FromLocationID uint   `json:"from_location_id" validate:"required,min=1"`
	ToLocationID   uint   `json:"to_location_id" validate:"required,min=1"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Currency       string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Passengers     int    `json:"passengers" validate:"omitempty,min=1"`
}

// ZoneRatesRequest queries priced options for a zone pair
type ZoneRatesRequest struct {
	ServiceTypeID uint   `json:"service_type_id" validate:"required,min=1"`
	FromZoneID    uint   `json:"from_zone_id" validate:"required,min=1"`
	ToZoneID      uint   `json:"to_zone_id" validate:"required,min=1"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Currency      string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Passengers    int    `json:"passengers" validate:"omitempty,min=1"`
}

// ServiceTypeRatesRequest queries every valid rate under one service type
type ServiceTypeRatesRequest struct {
	ServiceTypeID uint   `json:"service_type_id" validate:"required,min=1"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Currency      string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// RouteRatesResponse carries resolved rates plus which tier produced them
type RouteRatesResponse struct {
	Message  string    `json:"message"`
	Source   string    `json:"source,omitempty"`
	Currency string    `json:"currency"`
	Rates    []RateDTO `json:"rates"`
}

// ServiceTypeRatesResponse carries the bulk listing for one service type
type ServiceTypeRatesResponse struct {
	Message  string    `json:"message"`
	Currency string    `json:"currency"`
	Rates    []RateDTO `json:"rates"`
}
