package utils

import (
	"time"
)

// Request context keys set by handlers and read by flows for audit logging
const (
	RequestIDKey  = "X-Request-ID"
	UserAgentKey  = "User-Agent"
	IPAddressKey  = "IP-Address"
	EndpointKey   = "Endpoint"
	TimeoutKey    = "Timeout"
	CancelFuncKey = "CancelFunc"
)

const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Pricing cache key namespaces. A rate write clears every pricing:* key, so
// all three namespaces must share the prefix.
const (
	PricingCachePrefix           = "pricing:"
	PricingRouteCacheNamespace   = "pricing:route:"
	PricingZonesCacheNamespace   = "pricing:zones:"
	PricingServiceCacheNamespace = "pricing:service:"
)

// Pricing cache TTL defaults
const (
	// RouteCacheTTL applies to per-route and per-zone-pair lookups (30 minutes)
	RouteCacheTTL = 30 * time.Minute

	// ServiceTypeCacheTTL applies to bulk per-service-type lookups (1 hour)
	ServiceTypeCacheTTL = 1 * time.Hour
)

// Pricing constants
const (
	// BaseCurrency is the currency rate amounts are stored in
	BaseCurrency = "USD"

	// PriceTolerance is the fixed absolute margin, in base currency units, by
	// which a client-submitted total may fall short of the resolved fare and
	// still be accepted. It is a literal threshold, not a percentage.
	PriceTolerance = 5
)
