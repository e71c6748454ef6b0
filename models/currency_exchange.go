package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyExchange stores a directed conversion pair. Only one direction needs
// to exist; the opposite direction is derived as a reciprocal at read time.
// Currency codes are 3-letter ISO 4217 strings, uppercase (USD, MXN).
// Table: currency_exchanges
type CurrencyExchange struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FromCurrency string          `gorm:"size:3;not null;uniqueIndex:uk_currency_exchanges_pair" json:"from_currency"`
	ToCurrency   string          `gorm:"size:3;not null;uniqueIndex:uk_currency_exchanges_pair" json:"to_currency"`
	ExchangeRate decimal.Decimal `gorm:"type:numeric(18,8);not null" json:"exchange_rate"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CurrencyExchange) TableName() string { return "currency_exchanges" }

// CurrencyExchangeFilter represents filter criteria for currency pair queries
type CurrencyExchangeFilter struct {
	ID           *uint
	FromCurrency *string
	ToCurrency   *string
}
