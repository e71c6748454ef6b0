// Package businessflow contains the core business logic and use cases for pricing and booking workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Reference data errors
	ErrServiceTypeNotFound = errors.New("service type not found")
	ErrServiceTypeInactive = errors.New("service type is inactive")
	ErrVehicleTypeNotFound = errors.New("vehicle type not found")
	ErrVehicleTypeInactive = errors.New("vehicle type is inactive")
	ErrLocationNotFound    = errors.New("location not found")
	ErrLocationInactive    = errors.New("location is inactive")
	ErrZoneNotFound        = errors.New("zone not found")

	// Rate errors
	ErrRateNotFound           = errors.New("rate not found")
	ErrRateLocationPairSplit  = errors.New("location override requires both endpoints")
	ErrLocationZoneMismatch   = errors.New("location does not belong to the referenced zone")
	ErrValidityWindowInverted = errors.New("valid_from is after valid_to")
	ErrRateAmountNegative     = errors.New("rate amounts must not be negative")

	// Booking errors
	ErrNoVehiclesAvailable = errors.New("no vehicles available for the requested number of passengers")
	ErrPriceMismatch       = errors.New("price does not match available rates")
	ErrPickupDateInPast    = errors.New("pickup date is in the past")
	ErrBookingNotFound     = errors.New("booking not found")

	// Currency errors
	ErrSameCurrencyPair        = errors.New("from and to currency must differ")
	ErrExchangeRateNotPositive = errors.New("exchange rate must be greater than zero")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsServiceTypeNotFound(err error) bool {
	return errors.Is(err, ErrServiceTypeNotFound)
}

func IsVehicleTypeNotFound(err error) bool {
	return errors.Is(err, ErrVehicleTypeNotFound)
}

func IsLocationNotFound(err error) bool {
	return errors.Is(err, ErrLocationNotFound)
}

func IsZoneNotFound(err error) bool {
	return errors.Is(err, ErrZoneNotFound)
}

func IsRateNotFound(err error) bool {
	return errors.Is(err, ErrRateNotFound)
}

func IsRateLocationPairSplit(err error) bool {
	return errors.Is(err, ErrRateLocationPairSplit)
}

func IsLocationZoneMismatch(err error) bool {
	return errors.Is(err, ErrLocationZoneMismatch)
}

func IsValidityWindowInverted(err error) bool {
	return errors.Is(err, ErrValidityWindowInverted)
}

func IsNoVehiclesAvailable(err error) bool {
	return errors.Is(err, ErrNoVehiclesAvailable)
}

func IsPriceMismatch(err error) bool {
	return errors.Is(err, ErrPriceMismatch)
}

func IsPickupDateInPast(err error) bool {
	return errors.Is(err, ErrPickupDateInPast)
}

func IsBookingNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound)
}

func IsSameCurrencyPair(err error) bool {
	return errors.Is(err, ErrSameCurrencyPair)
}

func IsExchangeRateNotPositive(err error) bool {
	return errors.Is(err, ErrExchangeRateNotPositive)
}
