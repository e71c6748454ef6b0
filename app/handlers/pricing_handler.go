package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PricingHandlerInterface defines the contract for pricing handlers
type PricingHandlerInterface interface {
	RouteRates(c fiber.Ctx) error
	ZoneRates(c fiber.Ctx) error
	ServiceTypeRates(c fiber.Ctx) error
	ExchangeRate(c fiber.Ctx) error
}

// PricingHandler handles rate lookup HTTP requests
type PricingHandler struct {
	pricingFlow  businessflow.PricingFlow
	currencyFlow businessflow.CurrencyFlow
	validator    *validator.Validate
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingFlow businessflow.PricingFlow, currencyFlow businessflow.CurrencyFlow) *PricingHandler {
	return &PricingHandler{
		pricingFlow:  pricingFlow,
		currencyFlow: currencyFlow,
		validator:    validator.New(),
	}
}

func (h *PricingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PricingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RouteRates returns the priced vehicle options for a concrete location pair
// @Summary Rates for a route
// @Tags Pricing
// @Produce json
// @Router /api/v1/pricing/routes/{serviceTypeId}/{fromLocationId}/{toLocationId} [get]
func (h *PricingHandler) RouteRates(c fiber.Ctx) error {
	serviceTypeID, err := parseIDParam(c, "serviceTypeId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid service type ID", "INVALID_PARAM", err.Error())
	}
	fromLocationID, err := parseIDParam(c, "fromLocationId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid from location ID", "INVALID_PARAM", err.Error())
	}
	toLocationID, err := parseIDParam(c, "toLocationId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid to location ID", "INVALID_PARAM", err.Error())
	}

	req := dto.RouteRatesRequest{
		ServiceTypeID:  serviceTypeID,
		FromLocationID: fromLocationID,
		ToLocationID:   toLocationID,
		Date:           c.Query("date"),
		Currency:       strings.ToUpper(c.Query("currency")),
		Passengers:     queryInt(c, "passengers"),
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	result, err := h.pricingFlow.RatesForRoute(h.createRequestContext(c, "/api/v1/pricing/routes"), &req)
	if err != nil {
		return h.pricingError(c, err, "Failed to retrieve rates")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ZoneRates returns the zone-level default rates for a zone pair
// @Summary Rates for a zone pair
// @Tags Pricing
// @Produce json
// @Router /api/v1/pricing/zones/{serviceTypeId}/{fromZoneId}/{toZoneId} [get]
func (h *PricingHandler) ZoneRates(c fiber.Ctx) error {
	serviceTypeID, err := parseIDParam(c, "serviceTypeId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid service type ID", "INVALID_PARAM", err.Error())
	}
	fromZoneID, err := parseIDParam(c, "fromZoneId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid from zone ID", "INVALID_PARAM", err.Error())
	}
	toZoneID, err := parseIDParam(c, "toZoneId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid to zone ID", "INVALID_PARAM", err.Error())
	}

	req := dto.ZoneRatesRequest{
		ServiceTypeID: serviceTypeID,
		FromZoneID:    fromZoneID,
		ToZoneID:      toZoneID,
		Date:          c.Query("date"),
		Currency:      strings.ToUpper(c.Query("currency")),
		Passengers:    queryInt(c, "passengers"),
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	result, err := h.pricingFlow.RatesForZones(h.createRequestContext(c, "/api/v1/pricing/zones"), &req)
	if err != nil {
		return h.pricingError(c, err, "Failed to retrieve rates")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ServiceTypeRates returns every valid rate under one service type
// @Summary Rates for a service type
// @Tags Pricing
// @Produce json
// @Router /api/v1/pricing/service-types/{serviceTypeId} [get]
func (h *PricingHandler) ServiceTypeRates(c fiber.Ctx) error {
	serviceTypeID, err := parseIDParam(c, "serviceTypeId")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid service type ID", "INVALID_PARAM", err.Error())
	}

	req := dto.ServiceTypeRatesRequest{
		ServiceTypeID: serviceTypeID,
		Date:          c.Query("date"),
		Currency:      strings.ToUpper(c.Query("currency")),
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	result, err := h.pricingFlow.RatesForServiceType(h.createRequestContext(c, "/api/v1/pricing/service-types"), &req)
	if err != nil {
		return h.pricingError(c, err, "Failed to retrieve rates")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ExchangeRate returns the effective conversion factor for a currency pair
// @Summary Exchange rate lookup
// @Tags Pricing
// @Produce json
// @Router /api/v1/pricing/exchange-rate [get]
func (h *PricingHandler) ExchangeRate(c fiber.Ctx) error {
	req := dto.ExchangeRateRequest{
		FromCurrency: strings.ToUpper(c.Query("from")),
		ToCurrency:   strings.ToUpper(c.Query("to")),
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	result, err := h.currencyFlow.GetExchangeRate(h.createRequestContext(c, "/api/v1/pricing/exchange-rate"), &req)
	if err != nil {
		log.Println("Exchange rate lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve exchange rate", "EXCHANGE_RATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

func (h *PricingHandler) validateStruct(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

func (h *PricingHandler) pricingError(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsLocationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
	}
	if businessflow.IsServiceTypeNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Service type not found", "SERVICE_TYPE_NOT_FOUND", nil)
	}

	log.Println(fallback, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallback, "PRICING_FAILED", nil)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *PricingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func queryInt(c fiber.Ctx, name string) int {
	v, err := strconv.Atoi(c.Query(name, "0"))
	if err != nil {
		return 0
	}
	return v
}
