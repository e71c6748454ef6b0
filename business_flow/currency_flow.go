package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
)

// CurrencyFlow resolves conversion factors between currency codes and manages
// the stored pairs.
type CurrencyFlow interface {
	GetExchangeRate(ctx context.Context, req *dto.ExchangeRateRequest) (*dto.ExchangeRateResponse, error)
	UpsertExchangeRate(ctx context.Context, req *dto.UpsertExchangeRateRequest, metadata *ClientMetadata) (*dto.UpsertExchangeRateResponse, error)

	// ResolveFactor returns the effective conversion factor and its source.
	// A pair stored in neither direction resolves to 1 with the fallback
	// source; callers that need stricter behavior check the source value.
	ResolveFactor(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, string)
}

type CurrencyFlowImpl struct {
	currencyRepo repository.CurrencyExchangeRepository
	auditRepo    repository.AuditLogRepository
}

func NewCurrencyFlow(
	currencyRepo repository.CurrencyExchangeRepository,
	auditRepo repository.AuditLogRepository,
) CurrencyFlow {
	return &CurrencyFlowImpl{
		currencyRepo: currencyRepo,
		auditRepo:    auditRepo,
	}
}

// ResolveFactor implements the lookup order: identity, exact stored pair,
// reciprocal of the opposite pair, then the legacy identity fallback. The
// fallback can silently mis-price, so it is logged as a warning.
func (f *CurrencyFlowImpl) ResolveFactor(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, string) {
	one := decimal.NewFromInt(1)

	fromCurrency = strings.ToUpper(strings.TrimSpace(fromCurrency))
	toCurrency = strings.ToUpper(strings.TrimSpace(toCurrency))
	if fromCurrency == "" || toCurrency == "" || fromCurrency == toCurrency {
		return one, dto.ExchangeRateSourceDirect
	}

	pair, err := f.currencyRepo.ByPair(ctx, fromCurrency, toCurrency)
	if err != nil {
		log.Printf("WARNING: exchange rate lookup failed for %s->%s, using 1.0: %v", fromCurrency, toCurrency, err)
		return one, dto.ExchangeRateSourceFallback
	}
	if pair != nil && pair.ExchangeRate.IsPositive() {
		return pair.ExchangeRate, dto.ExchangeRateSourceDirect
	}

	reverse, err := f.currencyRepo.ByPair(ctx, toCurrency, fromCurrency)
	if err != nil {
		log.Printf("WARNING: exchange rate lookup failed for %s->%s, using 1.0: %v", toCurrency, fromCurrency, err)
		return one, dto.ExchangeRateSourceFallback
	}
	if reverse != nil && reverse.ExchangeRate.IsPositive() {
		return one.DivRound(reverse.ExchangeRate, 12), dto.ExchangeRateSourceReciprocal
	}

	log.Printf("WARNING: no exchange rate stored for %s->%s in either direction, using 1.0", fromCurrency, toCurrency)
	return one, dto.ExchangeRateSourceFallback
}

// GetExchangeRate exposes the resolved factor, including which tier produced it
func (f *CurrencyFlowImpl) GetExchangeRate(ctx context.Context, req *dto.ExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	factor, source := f.ResolveFactor(ctx, req.FromCurrency, req.ToCurrency)

	return &dto.ExchangeRateResponse{
		Message:      "Exchange rate retrieved successfully",
		FromCurrency: strings.ToUpper(req.FromCurrency),
		ToCurrency:   strings.ToUpper(req.ToCurrency),
		ExchangeRate: factor,
		Source:       source,
	}, nil
}

// UpsertExchangeRate stores or replaces a directed conversion pair
func (f *CurrencyFlowImpl) UpsertExchangeRate(ctx context.Context, req *dto.UpsertExchangeRateRequest, metadata *ClientMetadata) (*dto.UpsertExchangeRateResponse, error) {
	fromCurrency := strings.ToUpper(strings.TrimSpace(req.FromCurrency))
	toCurrency := strings.ToUpper(strings.TrimSpace(req.ToCurrency))

	if fromCurrency == toCurrency {
		return nil, NewBusinessError("EXCHANGE_RATE_SAME_PAIR", "From and to currency must differ", ErrSameCurrencyPair)
	}
	if !req.ExchangeRate.IsPositive() {
		return nil, NewBusinessError("EXCHANGE_RATE_NOT_POSITIVE", "Exchange rate must be greater than zero", ErrExchangeRateNotPositive)
	}

	pair := &models.CurrencyExchange{
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		ExchangeRate: req.ExchangeRate,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := f.currencyRepo.Upsert(ctx, pair); err != nil {
		return nil, NewBusinessError("EXCHANGE_RATE_SAVE_FAILED", "Failed to save exchange rate", err)
	}

	audit := newAuditLog(models.AuditActionExchangeRateUpserted,
		"Exchange rate stored for "+fromCurrency+"->"+toCurrency, true, metadata, pair)
	if err := f.auditRepo.Save(ctx, audit); err != nil {
		log.Printf("Failed to save exchange rate audit log: %v", err)
	}

	return &dto.UpsertExchangeRateResponse{
		Message:      "Exchange rate saved successfully",
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		ExchangeRate: req.ExchangeRate,
	}, nil
}
