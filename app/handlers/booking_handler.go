package handlers

import (
	"context"
	"log"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	businessflow "github.com/caribetransfers/backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// BookingHandlerInterface defines the contract for booking handlers
type BookingHandlerInterface interface {
	CreateBooking(c fiber.Ctx) error
	ValidatePrice(c fiber.Ctx) error
}

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingFlow businessflow.BookingFlow
	validator   *validator.Validate
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingFlow businessflow.BookingFlow) *BookingHandler {
	return &BookingHandler{
		bookingFlow: bookingFlow,
		validator:   validator.New(),
	}
}

func (h *BookingHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *BookingHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateBooking handles the booking submission process
// @Summary Create booking
// @Description Validate the submitted total against stored rates and create the booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.bookingFlow.CreateBooking(h.createRequestContext(c, "/api/v1/bookings"), &req, metadata)
	if err != nil {
		if businessflow.IsPriceMismatch(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Price does not match available rates", "PRICE_MISMATCH", nil)
		}
		if businessflow.IsNoVehiclesAvailable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "No vehicles available for the requested number of passengers", "NO_VEHICLES_AVAILABLE", nil)
		}
		if businessflow.IsServiceTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Service type not found", "SERVICE_TYPE_NOT_FOUND", nil)
		}
		if businessflow.IsVehicleTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle type not found", "VEHICLE_TYPE_NOT_FOUND", nil)
		}
		if businessflow.IsLocationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
		}
		if businessflow.IsPickupDateInPast(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Pickup date is in the past", "PICKUP_DATE_IN_PAST", nil)
		}

		log.Println("Booking creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Booking creation failed", "BOOKING_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result.Booking)
}

// ValidatePrice handles the standalone price consistency check
// @Summary Validate booking price
// @Description Check a client-side total against stored rates without creating a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Router /api/v1/bookings/validate-price [post]
func (h *BookingHandler) ValidatePrice(c fiber.Ctx) error {
	var req dto.ValidatePriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.bookingFlow.ValidatePrice(h.createRequestContext(c, "/api/v1/bookings/validate-price"), &req, metadata)
	if err != nil {
		if businessflow.IsNoVehiclesAvailable(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "No vehicles available for the requested number of passengers", "NO_VEHICLES_AVAILABLE", nil)
		}
		if businessflow.IsServiceTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Service type not found", "SERVICE_TYPE_NOT_FOUND", nil)
		}
		if businessflow.IsVehicleTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle type not found", "VEHICLE_TYPE_NOT_FOUND", nil)
		}
		if businessflow.IsLocationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Location not found", "LOCATION_NOT_FOUND", nil)
		}

		log.Println("Price validation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Price validation failed", "PRICE_VALIDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *BookingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
