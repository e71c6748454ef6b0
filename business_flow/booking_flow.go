package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/app/middleware"
	"github.com/caribetransfers/backend/app/services"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	"github.com/caribetransfers/backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingFlow creates bookings after re-deriving the applicable fare and
// checking the client-submitted total against it.
type BookingFlow interface {
	ValidatePrice(ctx context.Context, req *dto.ValidatePriceRequest, metadata *ClientMetadata) (*dto.ValidatePriceResponse, error)
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest, metadata *ClientMetadata) (*dto.CreateBookingResponse, error)
}

type BookingFlowImpl struct {
	db              *gorm.DB
	serviceTypeRepo repository.ServiceTypeRepository
	vehicleTypeRepo repository.VehicleTypeRepository
	customerRepo    repository.CustomerRepository
	bookingRepo     repository.BookingRepository
	auditRepo       repository.AuditLogRepository
	pricingFlow     PricingFlow
	currencyFlow    CurrencyFlow
	notifier        services.NotificationService
	pricingCfg      config.PricingConfig
}

func NewBookingFlow(
	db *gorm.DB,
	serviceTypeRepo repository.ServiceTypeRepository,
	vehicleTypeRepo repository.VehicleTypeRepository,
	customerRepo repository.CustomerRepository,
	bookingRepo repository.BookingRepository,
	auditRepo repository.AuditLogRepository,
	pricingFlow PricingFlow,
	currencyFlow CurrencyFlow,
	notifier services.NotificationService,
	pricingCfg config.PricingConfig,
) BookingFlow {
	return &BookingFlowImpl{
		db:              db,
		serviceTypeRepo: serviceTypeRepo,
		vehicleTypeRepo: vehicleTypeRepo,
		customerRepo:    customerRepo,
		bookingRepo:     bookingRepo,
		auditRepo:       auditRepo,
		pricingFlow:     pricingFlow,
		currencyFlow:    currencyFlow,
		notifier:        notifier,
		pricingCfg:      pricingCfg,
	}
}

// priceCheckInput collects the fields shared by validation and creation
type priceCheckInput struct {
	ServiceTypeID  uint
	VehicleTypeID  uint
	FromLocationID uint
	ToLocationID   uint
	TripType       string
	Passengers     int
	Date           time.Time
	TotalPrice     decimal.Decimal
	Currency       string
}

// checkPrice re-derives the fare set through the resolver and accepts the
// submitted total when any candidate satisfies total <= submitted + tolerance.
// The inequality is one-sided on purpose: a submitted price may fall short of
// the fare by at most the tolerance, while an overpayment always passes. The
// comparison happens in the base currency. Returns the cheapest candidate
// total (base currency) as the expected price.
func (f *BookingFlowImpl) checkPrice(ctx context.Context, in priceCheckInput) (decimal.Decimal, error) {
	zero := decimal.Zero

	serviceType, err := f.serviceTypeRepo.ByID(ctx, in.ServiceTypeID)
	if err != nil {
		return zero, NewBusinessError("BOOKING_SERVICE_TYPE_LOOKUP_FAILED", "Failed to look up service type", err)
	}
	if serviceType == nil {
		return zero, NewBusinessError("BOOKING_SERVICE_TYPE_NOT_FOUND", "Service type not found", ErrServiceTypeNotFound)
	}

	vehicleType, err := f.vehicleTypeRepo.ByID(ctx, in.VehicleTypeID)
	if err != nil {
		return zero, NewBusinessError("BOOKING_VEHICLE_TYPE_LOOKUP_FAILED", "Failed to look up vehicle type", err)
	}
	if vehicleType == nil {
		return zero, NewBusinessError("BOOKING_VEHICLE_TYPE_NOT_FOUND", "Vehicle type not found", ErrVehicleTypeNotFound)
	}
	if !vehicleType.CanCarry(in.Passengers) {
		return zero, NewBusinessError("BOOKING_NO_VEHICLES_AVAILABLE", "No vehicles available for the requested number of passengers", ErrNoVehiclesAvailable)
	}

	rates, _, err := f.pricingFlow.ResolveRouteRates(ctx, in.ServiceTypeID, in.FromLocationID, in.ToLocationID, in.Date)
	if err != nil {
		return zero, err
	}

	candidates := make([]*models.Rate, 0, len(rates))
	for _, r := range rates {
		if r.VehicleTypeID == in.VehicleTypeID {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return zero, NewBusinessError("BOOKING_PRICE_MISMATCH", "Price does not match available rates", ErrPriceMismatch)
	}

	submitted := f.toBaseCurrency(ctx, in.TotalPrice, in.Currency)
	limit := submitted.Add(decimal.NewFromFloat(f.pricingCfg.PriceTolerance))

	expected := candidates[0].TotalForTrip(in.TripType)
	accepted := false
	for _, c := range candidates {
		total := c.TotalForTrip(in.TripType)
		if total.LessThan(expected) {
			expected = total
		}
		if total.LessThanOrEqual(limit) {
			accepted = true
		}
	}
	if !accepted {
		return expected, NewBusinessError("BOOKING_PRICE_MISMATCH", "Price does not match available rates", ErrPriceMismatch)
	}
	return expected, nil
}

// toBaseCurrency converts a submitted amount into the base currency for the
// tolerance comparison. Same or empty currency passes through unchanged.
func (f *BookingFlowImpl) toBaseCurrency(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal {
	base := f.pricingCfg.BaseCurrency
	if currency == "" || currency == base {
		return amount
	}
	factor, _ := f.currencyFlow.ResolveFactor(ctx, currency, base)
	return amount.Mul(factor)
}

// ValidatePrice runs the consistency check without creating anything. A failed
// check is a negative result, not an error; only missing reference data errors.
func (f *BookingFlowImpl) ValidatePrice(ctx context.Context, req *dto.ValidatePriceRequest, metadata *ClientMetadata) (*dto.ValidatePriceResponse, error) {
	date, err := resolveTravelDate(req.PickupDate)
	if err != nil {
		return nil, NewBusinessError("BOOKING_INVALID_DATE", "Invalid pickup date", err)
	}

	expected, err := f.checkPrice(ctx, priceCheckInput{
		ServiceTypeID:  req.ServiceTypeID,
		VehicleTypeID:  req.VehicleTypeID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		TripType:       req.TripType,
		Passengers:     req.Passengers,
		Date:           date,
		TotalPrice:     req.TotalPrice,
		Currency:       req.Currency,
	})
	if err != nil {
		if IsPriceMismatch(err) {
			return &dto.ValidatePriceResponse{
				Message:       "Price does not match available rates",
				Valid:         false,
				ExpectedPrice: expected,
				Currency:      f.pricingCfg.BaseCurrency,
			}, nil
		}
		return nil, err
	}

	return &dto.ValidatePriceResponse{
		Message:       "Price is consistent with available rates",
		Valid:         true,
		ExpectedPrice: expected,
		Currency:      f.pricingCfg.BaseCurrency,
	}, nil
}

// CreateBooking validates the submitted total, then creates the customer (if
// new) and the booking in one transaction. The submitted total is stored
// as-is; it is not replaced by the resolved fare.
func (f *BookingFlowImpl) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest, metadata *ClientMetadata) (*dto.CreateBookingResponse, error) {
	date, err := utils.ParseDate(req.PickupDate)
	if err != nil {
		return nil, NewBusinessError("BOOKING_INVALID_DATE", "Invalid pickup date", err)
	}
	if date.Before(utils.UTCToday()) {
		return nil, NewBusinessError("BOOKING_PICKUP_DATE_IN_PAST", "Pickup date is in the past", ErrPickupDateInPast)
	}

	_, err = f.checkPrice(ctx, priceCheckInput{
		ServiceTypeID:  req.ServiceTypeID,
		VehicleTypeID:  req.VehicleTypeID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		TripType:       req.TripType,
		Passengers:     req.Passengers,
		Date:           date,
		TotalPrice:     req.TotalPrice,
		Currency:       req.Currency,
	})
	if err != nil {
		if IsPriceMismatch(err) {
			middleware.ObserveBookingRejected("price_mismatch")
			f.auditBookingFailure(ctx, models.AuditActionBookingPriceRejected, req, metadata, err)
		}
		if IsNoVehiclesAvailable(err) {
			middleware.ObserveBookingRejected("no_vehicles")
		}
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = f.pricingCfg.BaseCurrency
	}

	var booking *models.Booking
	var customer *models.Customer
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		customer, err = f.customerRepo.ByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to look up customer: %w", err)
		}
		if customer == nil {
			customer = &models.Customer{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Email:     req.Email,
				CreatedAt: utils.UTCNow(),
				UpdatedAt: utils.UTCNow(),
			}
			if req.Phone != "" {
				customer.Phone = utils.ToPtr(req.Phone)
			}
			if err := f.customerRepo.Save(txCtx, customer); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
		}

		booking = &models.Booking{
			UUID:           uuid.New(),
			CustomerID:     customer.ID,
			ServiceTypeID:  req.ServiceTypeID,
			VehicleTypeID:  req.VehicleTypeID,
			FromLocationID: req.FromLocationID,
			ToLocationID:   req.ToLocationID,
			TripType:       req.TripType,
			Passengers:     req.Passengers,
			TotalPrice:     req.TotalPrice,
			Currency:       currency,
			PickupDate:     date,
			Status:         models.BookingStatusPending,
			CreatedAt:      utils.UTCNow(),
			UpdatedAt:      utils.UTCNow(),
		}
		if err := f.bookingRepo.Save(txCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		audit := newAuditLog(models.AuditActionBookingCreated,
			"Booking created for "+req.Email, true, metadata, map[string]any{
				"booking_uuid": booking.UUID.String(),
				"total_price":  req.TotalPrice.String(),
				"currency":     currency,
			})
		audit.CustomerID = &customer.ID
		if err := f.auditRepo.Save(txCtx, audit); err != nil {
			return fmt.Errorf("failed to save audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		f.auditBookingFailure(ctx, models.AuditActionBookingCreationFailed, req, metadata, err)
		if _, ok := err.(*BusinessError); ok {
			return nil, err
		}
		return nil, NewBusinessError("BOOKING_CREATE_FAILED", "Failed to create booking", err)
	}

	middleware.ObserveBookingCreated()

	if err := f.notifier.SendBookingConfirmation(ctx, booking, customer); err != nil {
		log.Printf("Failed to send booking confirmation for %s: %v", booking.UUID, err)
	}

	return &dto.CreateBookingResponse{
		Message: "Booking created successfully",
		Booking: dto.BookingDTO{
			UUID:           booking.UUID.String(),
			Status:         booking.Status,
			ServiceTypeID:  booking.ServiceTypeID,
			VehicleTypeID:  booking.VehicleTypeID,
			FromLocationID: booking.FromLocationID,
			ToLocationID:   booking.ToLocationID,
			TripType:       booking.TripType,
			Passengers:     booking.Passengers,
			TotalPrice:     booking.TotalPrice,
			Currency:       booking.Currency,
			PickupDate:     utils.FormatDate(booking.PickupDate),
			CreatedAt:      booking.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

func (f *BookingFlowImpl) auditBookingFailure(ctx context.Context, action string, req *dto.CreateBookingRequest, metadata *ClientMetadata, cause error) {
	msg := cause.Error()
	audit := newAuditLog(action, "Booking rejected for "+req.Email, false, metadata, map[string]any{
		"service_type_id":  req.ServiceTypeID,
		"vehicle_type_id":  req.VehicleTypeID,
		"from_location_id": req.FromLocationID,
		"to_location_id":   req.ToLocationID,
		"total_price":      req.TotalPrice.String(),
	})
	audit.ErrorMessage = &msg
	if err := f.auditRepo.Save(ctx, audit); err != nil {
		log.Printf("Failed to save booking audit log: %v", err)
	}
}
