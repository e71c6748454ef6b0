package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// RateAdminHandlerInterface defines the contract for administrative rate handlers
type RateAdminHandlerInterface interface {
	CreateRate(c fiber.Ctx) error
	UpdateRate(c fiber.Ctx) error
	DeleteRate(c fiber.Ctx) error
	ListRates(c fiber.Ctx) error
	UpsertExchangeRate(c fiber.Ctx) error
}

// RateAdminHandler handles administrative fare table edits
type RateAdminHandler struct {
	rateAdminFlow businessflow.RateAdminFlow
	currencyFlow  businessflow.CurrencyFlow
	validator     *validator.Validate
}

// NewRateAdminHandler creates a new rate admin handler
func NewRateAdminHandler(rateAdminFlow businessflow.RateAdminFlow, currencyFlow businessflow.CurrencyFlow) *RateAdminHandler {
	return &RateAdminHandler{
		rateAdminFlow: rateAdminFlow,
		currencyFlow:  currencyFlow,
		validator:     validator.New(),
	}
}

func (h *RateAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *RateAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateRate handles fare row creation
// @Summary Create rate
// @Tags Admin
// @Accept json
// @Produce json
// @Router /api/v1/admin/rates [post]
func (h *RateAdminHandler) CreateRate(c fiber.Ctx) error {
	var req dto.CreateRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.rateAdminFlow.CreateRate(h.createRequestContext(c, "/api/v1/admin/rates"), &req, metadata)
	if err != nil {
		return h.rateError(c, err, "Rate creation failed", "RATE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Rate)
}

// UpdateRate handles partial fare row edits
// @Summary Update rate
// @Tags Admin
// @Accept json
// @Produce json
// @Router /api/v1/admin/rates/{id} [put]
func (h *RateAdminHandler) UpdateRate(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate ID", "INVALID_PARAM", err.Error())
	}

	var req dto.UpdateRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.rateAdminFlow.UpdateRate(h.createRequestContext(c, "/api/v1/admin/rates"), id, &req, metadata)
	if err != nil {
		return h.rateError(c, err, "Rate update failed", "RATE_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result.Rate)
}

// DeleteRate handles fare row removal
// @Summary Delete rate
// @Tags Admin
// @Produce json
// @Router /api/v1/admin/rates/{id} [delete]
func (h *RateAdminHandler) DeleteRate(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate ID", "INVALID_PARAM", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.rateAdminFlow.DeleteRate(h.createRequestContext(c, "/api/v1/admin/rates"), id, metadata)
	if err != nil {
		return h.rateError(c, err, "Rate deletion failed", "RATE_DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, nil)
}

// ListRates handles the paginated admin listing
// @Summary List rates
// @Tags Admin
// @Produce json
// @Router /api/v1/admin/rates [get]
func (h *RateAdminHandler) ListRates(c fiber.Ctx) error {
	req := dto.ListRatesRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if v := c.Query("service_type_id"); v != "" {
		req.ServiceTypeID = queryUintPtr(v)
	}
	if v := c.Query("vehicle_type_id"); v != "" {
		req.VehicleTypeID = queryUintPtr(v)
	}
	if v := c.Query("from_zone_id"); v != "" {
		req.FromZoneID = queryUintPtr(v)
	}
	if v := c.Query("to_zone_id"); v != "" {
		req.ToZoneID = queryUintPtr(v)
	}
	if v := c.Query("available"); v != "" {
		avail := v == "true"
		req.Available = &avail
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	result, err := h.rateAdminFlow.ListRates(h.createRequestContext(c, "/api/v1/admin/rates"), &req)
	if err != nil {
		log.Println("Rate listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Rate listing failed", "RATE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// UpsertExchangeRate stores or replaces a conversion pair
// @Summary Upsert exchange rate
// @Tags Admin
// @Accept json
// @Produce json
// @Router /api/v1/admin/exchange-rates [put]
func (h *RateAdminHandler) UpsertExchangeRate(c fiber.Ctx) error {
	var req dto.UpsertExchangeRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.currencyFlow.UpsertExchangeRate(h.createRequestContext(c, "/api/v1/admin/exchange-rates"), &req, metadata)
	if err != nil {
		var businessErr *businessflow.BusinessError
		if errors.As(err, &businessErr) {
			switch businessErr.Code {
			case "EXCHANGE_RATE_SAME_PAIR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "From and to currency must differ", "EXCHANGE_RATE_SAME_PAIR", nil)
			case "EXCHANGE_RATE_NOT_POSITIVE":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Exchange rate must be greater than zero", "EXCHANGE_RATE_NOT_POSITIVE", nil)
			}
		}

		log.Println("Exchange rate upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Exchange rate upsert failed", "EXCHANGE_RATE_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

func (h *RateAdminHandler) validateStruct(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

func (h *RateAdminHandler) rateError(c fiber.Ctx, err error, fallback, fallbackCode string) error {
	if businessflow.IsRateNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Rate not found", "RATE_NOT_FOUND", nil)
	}
	if businessflow.IsServiceTypeNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Service type not found", "SERVICE_TYPE_NOT_FOUND", nil)
	}
	if businessflow.IsVehicleTypeNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle type not found", "VEHICLE_TYPE_NOT_FOUND", nil)
	}
	if businessflow.IsZoneNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Zone not found", "ZONE_NOT_FOUND", nil)
	}
	if businessflow.IsLocationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
	}
	if businessflow.IsRateLocationPairSplit(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Location override requires both endpoints", "RATE_LOCATION_PAIR_SPLIT", nil)
	}
	if businessflow.IsLocationZoneMismatch(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Location does not belong to the referenced zone", "RATE_LOCATION_ZONE_MISMATCH", nil)
	}
	if businessflow.IsValidityWindowInverted(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "valid_from is after valid_to", "RATE_VALIDITY_INVERTED", nil)
	}

	log.Println(fallback, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallback, fallbackCode, nil)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *RateAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func queryUintPtr(raw string) *uint {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil
	}
	u := uint(v)
	return &u
}
