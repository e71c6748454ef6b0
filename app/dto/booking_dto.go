package dto

import "github.com/shopspring/decimal"

// CreateBookingRequest represents a booking submission. TotalPrice is the
// client-side computed total in Currency; it is validated against the stored
// rate before the booking is accepted.
type CreateBookingRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,max=50"`

	ServiceTypeID  uint   `json:"service_type_id" validate:"required,min=1"`
	VehicleTypeID  uint   `json:"vehicle_type_id" validate:"required,min=1"`
	FromLocationID uint   `json:"from_location_id" validate:"required,min=1"`
	ToLocationID   uint   `json:"to_location_id" validate:"required,min=1"`
	TripType       string `json:"trip_type" validate:"required,oneof=one-way round-trip"`
	Passengers     int    `json:"passengers" validate:"required,min=1,max=100"`
	PickupDate     string `json:"pickup_date" validate:"required,datetime=2006-01-02"`

	TotalPrice decimal.Decimal `json:"total_price" validate:"required"`
	Currency   string          `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// BookingDTO is the public representation of a stored booking
type BookingDTO struct {
	UUID           string          `json:"uuid"`
	Status         string          `json:"status"`
	ServiceTypeID  uint            `json:"service_type_id"`
	VehicleTypeID  uint            `json:"vehicle_type_id"`
	FromLocationID uint            `json:"from_location_id"`
	ToLocationID   uint            `json:"to_location_id"`
	TripType       string          `json:"trip_type"`
	Passengers     int             `json:"passengers"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Currency       string          `json:"currency"`
	PickupDate     string          `json:"pickup_date"`
	CreatedAt      string          `json:"created_at"`
}

// CreateBookingResponse confirms an accepted booking
type CreateBookingResponse struct {
	Message string     `json:"message"`
	Booking BookingDTO `json:"booking"`
}

// ValidatePriceRequest checks a client-side total without creating a booking
type ValidatePriceRequest struct {
	ServiceTypeID  uint   `json:"service_type_id" validate:"required,min=1"`
	VehicleTypeID  uint   `json:"vehicle_type_id" validate:"required,min=1"`
	FromLocationID uint   `json:"from_location_id" validate:"required,min=1"`
	ToLocationID   uint   `json:"to_location_id" validate:"required,min=1"`
	TripType       string `json:"trip_type" validate:"required,oneof=one-way round-trip"`
	Passengers     int    `json:"passengers" validate:"required,min=1,max=100"`
	PickupDate     string `json:"pickup_date" validate:"omitempty,datetime=2006-01-02"`

	TotalPrice decimal.Decimal `json:"total_price" validate:"required"`
	Currency   string          `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// ValidatePriceResponse reports the outcome of a price consistency check
type ValidatePriceResponse struct {
	Message       string          `json:"message"`
	Valid         bool            `json:"valid"`
	ExpectedPrice decimal.Decimal `json:"expected_price"`
	Currency      string          `json:"currency"`
}
