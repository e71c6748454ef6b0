package dto

import "github.com/shopspring/decimal"

// ExchangeRateRequest looks up the conversion factor for a currency pair
type ExchangeRateRequest struct {
	FromCurrency string `json:"from_currency" validate:"required,len=3,uppercase"`
	ToCurrency   string `json:"to_currency" validate:"required,len=3,uppercase"`
}

// ExchangeRateResponse returns the effective conversion factor. Source tells
// whether the factor came from a stored pair, a derived reciprocal, or the
// identity fallback.
type ExchangeRateResponse struct {
	Message      string          `json:"message"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Source       string          `json:"source"`
}

// Exchange rate source values
const (
	ExchangeRateSourceDirect     = "direct"
	ExchangeRateSourceReciprocal = "reciprocal"
	ExchangeRateSourceFallback   = "fallback"
)

// UpsertExchangeRateRequest creates or replaces a stored conversion pair
type UpsertExchangeRateRequest struct {
	FromCurrency string          `json:"from_currency" validate:"required,len=3,uppercase"`
	ToCurrency   string          `json:"to_currency" validate:"required,len=3,uppercase"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"required"`
}

// UpsertExchangeRateResponse confirms a stored conversion pair
type UpsertExchangeRateResponse struct {
	Message      string          `json:"message"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}
