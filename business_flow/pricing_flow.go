package businessflow

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/app/middleware"
	"github.com/caribetransfers/backend/app/services"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
)

// PricingFlow resolves priced vehicle options for a requested route. Resolution
// is cache-first; on miss it queries the rate store with location-specific
// overrides taking priority over zone-level defaults, all-or-nothing, then
// filters by the validity window and availability.
type PricingFlow interface {
	RatesForRoute(ctx context.Context, req *dto.RouteRatesRequest) (*dto.RouteRatesResponse, error)
	RatesForZones(ctx context.Context, req *dto.ZoneRatesRequest) (*dto.RouteRatesResponse, error)
	RatesForServiceType(ctx context.Context, req *dto.ServiceTypeRatesRequest) (*dto.ServiceTypeRatesResponse, error)

	// ResolveRouteRates is the raw resolution used by booking validation.
	// Amounts stay in the base currency; the second return value is the
	// tier that produced the set (location_override, zone_default, or
	// empty when no rate matched).
	ResolveRouteRates(ctx context.Context, serviceTypeID, fromLocationID, toLocationID uint, date time.Time) ([]*models.Rate, string, error)
}

type PricingFlowImpl struct {
	rateRepo        repository.RateRepository
	locationRepo    repository.LocationRepository
	serviceTypeRepo repository.ServiceTypeRepository
	cache           services.RateCache
	currencyFlow    CurrencyFlow
	cacheCfg        config.CacheConfig
	pricingCfg      config.PricingConfig
}

func NewPricingFlow(
	rateRepo repository.RateRepository,
	locationRepo repository.LocationRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
	cache services.RateCache,
	currencyFlow CurrencyFlow,
	cacheCfg config.CacheConfig,
	pricingCfg config.PricingConfig,
) PricingFlow {
	return &PricingFlowImpl{
		rateRepo:        rateRepo,
		locationRepo:    locationRepo,
		serviceTypeRepo: serviceTypeRepo,
		cache:           cache,
		currencyFlow:    currencyFlow,
		cacheCfg:        cacheCfg,
		pricingCfg:      pricingCfg,
	}
}

// cachedResolution is the serialized form of one resolver result. Rates carry
// their preloaded vehicle and service types so the hit path returns the same
// shape as the miss path.
type cachedResolution struct {
	Source string         `json:"source"`
	Rates  []*models.Rate `json:"rates"`
}

func (f *PricingFlowImpl) cacheLookup(ctx context.Context, key string) (*cachedResolution, bool) {
	bs, ok := f.cache.Get(ctx, key)
	if !ok {
		middleware.ObserveRateResolution("miss")
		return nil, false
	}
	var cached cachedResolution
	if err := json.Unmarshal(bs, &cached); err != nil {
		log.Printf("Dropping undecodable cache entry %s: %v", key, err)
		middleware.ObserveRateResolution("miss")
		return nil, false
	}
	middleware.ObserveRateResolution("hit")
	return &cached, true
}

func (f *PricingFlowImpl) cacheStore(ctx context.Context, key string, source string, rates []*models.Rate, ttl time.Duration) {
	bs, err := json.Marshal(cachedResolution{Source: source, Rates: rates})
	if err != nil {
		log.Printf("Failed to encode cache entry %s: %v", key, err)
		return
	}
	f.cache.Set(ctx, key, bs, ttl)
}

// ResolveRouteRates resolves the priced set for a concrete location pair.
// Location-specific rows win over zone defaults as a whole set: one valid
// override suppresses every zone-level row. An empty result is a valid
// outcome, not an error, and is cached like any other.
func (f *PricingFlowImpl) ResolveRouteRates(ctx context.Context, serviceTypeID, fromLocationID, toLocationID uint, date time.Time) ([]*models.Rate, string, error) {
	key := services.RouteCacheKey(serviceTypeID, fromLocationID, toLocationID, utils.FormatDate(date))
	if cached, ok := f.cacheLookup(ctx, key); ok {
		return cached.Rates, cached.Source, nil
	}

	overrides, err := f.rateRepo.ByRoute(ctx, serviceTypeID, fromLocationID, toLocationID)
	if err != nil {
		return nil, "", NewBusinessError("PRICING_RATE_LOOKUP_FAILED", "Failed to look up rates", err)
	}
	valid := filterValidOn(overrides, date)
	source := dto.RateSourceLocationOverride

	if len(valid) == 0 {
		fromLocation, err := f.locationRepo.ByIDWithZone(ctx, fromLocationID)
		if err != nil {
			return nil, "", NewBusinessError("PRICING_LOCATION_LOOKUP_FAILED", "Failed to look up location", err)
		}
		toLocation, err := f.locationRepo.ByIDWithZone(ctx, toLocationID)
		if err != nil {
			return nil, "", NewBusinessError("PRICING_LOCATION_LOOKUP_FAILED", "Failed to look up location", err)
		}
		if fromLocation == nil || toLocation == nil {
			return nil, "", NewBusinessError("PRICING_LOCATION_NOT_FOUND", "Location not found", ErrLocationNotFound)
		}

		defaults, err := f.rateRepo.ByZones(ctx, serviceTypeID, fromLocation.ZoneID, toLocation.ZoneID)
		if err != nil {
			return nil, "", NewBusinessError("PRICING_RATE_LOOKUP_FAILED", "Failed to look up rates", err)
		}
		valid = filterValidOn(defaults, date)
		source = dto.RateSourceZoneDefault
	}

	if len(valid) == 0 {
		source = ""
	}

	f.cacheStore(ctx, key, source, valid, f.cacheCfg.RouteTTL)
	return valid, source, nil
}

// RatesForRoute returns the resolved set for a location pair, capacity-filtered
// and projected into the display currency.
func (f *PricingFlowImpl) RatesForRoute(ctx context.Context, req *dto.RouteRatesRequest) (*dto.RouteRatesResponse, error) {
	date, err := resolveTravelDate(req.Date)
	if err != nil {
		return nil, NewBusinessError("PRICING_INVALID_DATE", "Invalid travel date", err)
	}

	rates, source, err := f.ResolveRouteRates(ctx, req.ServiceTypeID, req.FromLocationID, req.ToLocationID, date)
	if err != nil {
		return nil, err
	}
	rates = filterByCapacity(rates, req.Passengers)

	currency, factor := f.displayCurrency(ctx, req.Currency)

	items := make([]dto.RateDTO, 0, len(rates))
	for _, r := range rates {
		items = append(items, ToRateDTO(r, currency, factor))
	}

	return &dto.RouteRatesResponse{
		Message:  "Rates retrieved successfully",
		Source:   source,
		Currency: currency,
		Rates:    items,
	}, nil
}

// RatesForZones returns the zone-level defaults for a zone pair. Location
// overrides never apply here; the caller asked at zone granularity.
func (f *PricingFlowImpl) RatesForZones(ctx context.Context, req *dto.ZoneRatesRequest) (*dto.RouteRatesResponse, error) {
	date, err := resolveTravelDate(req.Date)
	if err != nil {
		return nil, NewBusinessError("PRICING_INVALID_DATE", "Invalid travel date", err)
	}

	key := services.ZonesCacheKey(req.ServiceTypeID, req.FromZoneID, req.ToZoneID, utils.FormatDate(date))
	cached, ok := f.cacheLookup(ctx, key)
	var rates []*models.Rate
	var source string
	if ok {
		rates, source = cached.Rates, cached.Source
	} else {
		rows, err := f.rateRepo.ByZones(ctx, req.ServiceTypeID, req.FromZoneID, req.ToZoneID)
		if err != nil {
			return nil, NewBusinessError("PRICING_RATE_LOOKUP_FAILED", "Failed to look up rates", err)
		}
		rates = filterValidOn(rows, date)
		if len(rates) > 0 {
			source = dto.RateSourceZoneDefault
		}
		f.cacheStore(ctx, key, source, rates, f.cacheCfg.RouteTTL)
	}

	rates = filterByCapacity(rates, req.Passengers)

	currency, factor := f.displayCurrency(ctx, req.Currency)

	items := make([]dto.RateDTO, 0, len(rates))
	for _, r := range rates {
		items = append(items, ToRateDTO(r, currency, factor))
	}

	return &dto.RouteRatesResponse{
		Message:  "Rates retrieved successfully",
		Source:   source,
		Currency: currency,
		Rates:    items,
	}, nil
}

// RatesForServiceType returns every rate valid on the date under one service
// type, for building route matrices on the client.
func (f *PricingFlowImpl) RatesForServiceType(ctx context.Context, req *dto.ServiceTypeRatesRequest) (*dto.ServiceTypeRatesResponse, error) {
	date, err := resolveTravelDate(req.Date)
	if err != nil {
		return nil, NewBusinessError("PRICING_INVALID_DATE", "Invalid travel date", err)
	}

	serviceType, err := f.serviceTypeRepo.ByID(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, NewBusinessError("PRICING_SERVICE_TYPE_LOOKUP_FAILED", "Failed to look up service type", err)
	}
	if serviceType == nil {
		return nil, NewBusinessError("PRICING_SERVICE_TYPE_NOT_FOUND", "Service type not found", ErrServiceTypeNotFound)
	}

	key := services.ServiceTypeCacheKey(req.ServiceTypeID, utils.FormatDate(date))
	cached, ok := f.cacheLookup(ctx, key)
	var rates []*models.Rate
	if ok {
		rates = cached.Rates
	} else {
		rows, err := f.rateRepo.ByServiceType(ctx, req.ServiceTypeID)
		if err != nil {
			return nil, NewBusinessError("PRICING_RATE_LOOKUP_FAILED", "Failed to look up rates", err)
		}
		rates = filterValidOn(rows, date)
		f.cacheStore(ctx, key, "", rates, f.cacheCfg.ServiceTypeTTL)
	}

	currency, factor := f.displayCurrency(ctx, req.Currency)

	items := make([]dto.RateDTO, 0, len(rates))
	for _, r := range rates {
		items = append(items, ToRateDTO(r, currency, factor))
	}

	return &dto.ServiceTypeRatesResponse{
		Message:  "Rates retrieved successfully",
		Currency: currency,
		Rates:    items,
	}, nil
}

// displayCurrency resolves the requested display currency and its conversion
// factor from the base currency. Empty means base currency, factor 1.
func (f *PricingFlowImpl) displayCurrency(ctx context.Context, requested string) (string, decimal.Decimal) {
	base := f.pricingCfg.BaseCurrency
	if requested == "" || requested == base {
		return base, decimal.NewFromInt(1)
	}
	factor, _ := f.currencyFlow.ResolveFactor(ctx, base, requested)
	return requested, factor
}
