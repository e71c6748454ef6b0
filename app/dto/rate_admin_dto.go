package dto

import "github.com/shopspring/decimal"

// CreateRateRequest creates a new fare row. The zone pair is mandatory; the
// location pair is optional and must be set as a whole or not at all.
type CreateRateRequest struct {
	ServiceTypeID  uint  `json:"service_type_id" validate:"required,min=1"`
	VehicleTypeID  uint  `json:"vehicle_type_id" validate:"required,min=1"`
	FromZoneID     uint  `json:"from_zone_id" validate:"required,min=1"`
	ToZoneID       uint  `json:"to_zone_id" validate:"required,min=1"`
	FromLocationID *uint `json:"from_location_id" validate:"omitempty,min=1"`
	ToLocationID   *uint `json:"to_location_id" validate:"omitempty,min=1"`

	CostVehicleOneWay    decimal.Decimal `json:"cost_vehicle_one_way" validate:"required"`
	TotalOneWay          decimal.Decimal `json:"total_one_way" validate:"required"`
	CostVehicleRoundTrip decimal.Decimal `json:"cost_vehicle_round_trip" validate:"required"`
	TotalRoundTrip       decimal.Decimal `json:"total_round_trip" validate:"required"`

	NumVehicles int     `json:"num_vehicles" validate:"omitempty,min=1"`
	Available   *bool   `json:"available"`
	ValidFrom   *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo     *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRateRequest partially updates a fare row; nil fields are left as-is
type UpdateRateRequest struct {
	FromZoneID     *uint `json:"from_zone_id" validate:"omitempty,min=1"`
	ToZoneID       *uint `json:"to_zone_id" validate:"omitempty,min=1"`
	FromLocationID *uint `json:"from_location_id" validate:"omitempty,min=1"`
	ToLocationID   *uint `json:"to_location_id" validate:"omitempty,min=1"`

	CostVehicleOneWay    *decimal.Decimal `json:"cost_vehicle_one_way"`
	TotalOneWay          *decimal.Decimal `json:"total_one_way"`
	CostVehicleRoundTrip *decimal.Decimal `json:"cost_vehicle_round_trip"`
	TotalRoundTrip       *decimal.Decimal `json:"total_round_trip"`

	NumVehicles *int    `json:"num_vehicles" validate:"omitempty,min=1"`
	Available   *bool   `json:"available"`
	ValidFrom   *string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"`
	ValidTo     *string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`

	ClearLocations bool `json:"clear_locations"`
	ClearValidity  bool `json:"clear_validity"`
}

// ListRatesRequest filters the admin rate listing
type ListRatesRequest struct {
	ServiceTypeID *uint `json:"service_type_id" validate:"omitempty,min=1"`
	VehicleTypeID *uint `json:"vehicle_type_id" validate:"omitempty,min=1"`
	FromZoneID    *uint `json:"from_zone_id" validate:"omitempty,min=1"`
	ToZoneID      *uint `json:"to_zone_id" validate:"omitempty,min=1"`
	Available     *bool `json:"available"`
	Page          int   `json:"page" validate:"omitempty,min=1"`
	PageSize      int   `json:"page_size" validate:"omitempty,min=1,max=200"`
}

// RateAdminResponse wraps a single rate for admin endpoints
type RateAdminResponse struct {
	Message string  `json:"message"`
	Rate    RateDTO `json:"rate"`
}

// ListRatesResponse is the paginated admin rate listing
type ListRatesResponse struct {
	Message  string    `json:"message"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Rates    []RateDTO `json:"rates"`
}

// DeleteRateResponse confirms a rate removal
type DeleteRateResponse struct {
	Message string `json:"message"`
}
