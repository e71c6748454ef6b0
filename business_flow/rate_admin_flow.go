package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/app/services"
	"github.com/caribetransfers/backend/config"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/repository"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
)

// RateAdminFlow manages the fare table. Every successful write clears the
// whole pricing cache so no stale resolution result outlives the edit.
type RateAdminFlow interface {
	CreateRate(ctx context.Context, req *dto.CreateRateRequest, metadata *ClientMetadata) (*dto.RateAdminResponse, error)
	UpdateRate(ctx context.Context, id uint, req *dto.UpdateRateRequest, metadata *ClientMetadata) (*dto.RateAdminResponse, error)
	DeleteRate(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteRateResponse, error)
	ListRates(ctx context.Context, req *dto.ListRatesRequest) (*dto.ListRatesResponse, error)
}

type RateAdminFlowImpl struct {
	rateRepo        repository.RateRepository
	zoneRepo        repository.ZoneRepository
	locationRepo    repository.LocationRepository
	serviceTypeRepo repository.ServiceTypeRepository
	vehicleTypeRepo repository.VehicleTypeRepository
	auditRepo       repository.AuditLogRepository
	cache           services.RateCache
	pricingCfg      config.PricingConfig
}

func NewRateAdminFlow(
	rateRepo repository.RateRepository,
	zoneRepo repository.ZoneRepository,
	locationRepo repository.LocationRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
	vehicleTypeRepo repository.VehicleTypeRepository,
	auditRepo repository.AuditLogRepository,
	cache services.RateCache,
	pricingCfg config.PricingConfig,
) RateAdminFlow {
	return &RateAdminFlowImpl{
		rateRepo:        rateRepo,
		zoneRepo:        zoneRepo,
		locationRepo:    locationRepo,
		serviceTypeRepo: serviceTypeRepo,
		vehicleTypeRepo: vehicleTypeRepo,
		auditRepo:       auditRepo,
		cache:           cache,
		pricingCfg:      pricingCfg,
	}
}

// validateRateRefs checks every foreign reference of a fare row. The location
// pair must be set as a whole or not at all, and each location must belong to
// the zone named on the same side of the row.
func (f *RateAdminFlowImpl) validateRateRefs(ctx context.Context, rate *models.Rate) error {
	serviceType, err := f.serviceTypeRepo.ByID(ctx, rate.ServiceTypeID)
	if err != nil {
		return NewBusinessError("RATE_SERVICE_TYPE_LOOKUP_FAILED", "Failed to look up service type", err)
	}
	if serviceType == nil {
		return NewBusinessError("RATE_SERVICE_TYPE_NOT_FOUND", "Service type not found", ErrServiceTypeNotFound)
	}

	vehicleType, err := f.vehicleTypeRepo.ByID(ctx, rate.VehicleTypeID)
	if err != nil {
		return NewBusinessError("RATE_VEHICLE_TYPE_LOOKUP_FAILED", "Failed to look up vehicle type", err)
	}
	if vehicleType == nil {
		return NewBusinessError("RATE_VEHICLE_TYPE_NOT_FOUND", "Vehicle type not found", ErrVehicleTypeNotFound)
	}

	for _, zoneID := range []uint{rate.FromZoneID, rate.ToZoneID} {
		zone, err := f.zoneRepo.ByID(ctx, zoneID)
		if err != nil {
			return NewBusinessError("RATE_ZONE_LOOKUP_FAILED", "Failed to look up zone", err)
		}
		if zone == nil {
			return NewBusinessError("RATE_ZONE_NOT_FOUND", "Zone not found", ErrZoneNotFound)
		}
	}

	if (rate.FromLocationID == nil) != (rate.ToLocationID == nil) {
		return NewBusinessError("RATE_LOCATION_PAIR_SPLIT", "Location override requires both endpoints", ErrRateLocationPairSplit)
	}
	if rate.FromLocationID == nil {
		return nil
	}

	sides := []struct {
		locationID uint
		zoneID     uint
	}{
		{*rate.FromLocationID, rate.FromZoneID},
		{*rate.ToLocationID, rate.ToZoneID},
	}
	for _, side := range sides {
		location, err := f.locationRepo.ByID(ctx, side.locationID)
		if err != nil {
			return NewBusinessError("RATE_LOCATION_LOOKUP_FAILED", "Failed to look up location", err)
		}
		if location == nil {
			return NewBusinessError("RATE_LOCATION_NOT_FOUND", "Location not found", ErrLocationNotFound)
		}
		if location.ZoneID != side.zoneID {
			return NewBusinessError("RATE_LOCATION_ZONE_MISMATCH", "Location does not belong to the referenced zone", ErrLocationZoneMismatch)
		}
	}
	return nil
}

func validateRateAmounts(rate *models.Rate) error {
	amounts := []decimal.Decimal{
		rate.CostVehicleOneWay, rate.TotalOneWay,
		rate.CostVehicleRoundTrip, rate.TotalRoundTrip,
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return NewBusinessError("RATE_AMOUNT_NEGATIVE", "Rate amounts must not be negative", ErrRateAmountNegative)
		}
	}
	if rate.ValidFrom != nil && rate.ValidTo != nil && rate.ValidFrom.After(*rate.ValidTo) {
		return NewBusinessError("RATE_VALIDITY_INVERTED", "valid_from is after valid_to", ErrValidityWindowInverted)
	}
	return nil
}

// CreateRate inserts a fare row and clears the pricing cache
func (f *RateAdminFlowImpl) CreateRate(ctx context.Context, req *dto.CreateRateRequest, metadata *ClientMetadata) (*dto.RateAdminResponse, error) {
	rate := &models.Rate{
		ServiceTypeID:        req.ServiceTypeID,
		VehicleTypeID:        req.VehicleTypeID,
		FromZoneID:           req.FromZoneID,
		ToZoneID:             req.ToZoneID,
		FromLocationID:       req.FromLocationID,
		ToLocationID:         req.ToLocationID,
		CostVehicleOneWay:    req.CostVehicleOneWay,
		TotalOneWay:          req.TotalOneWay,
		CostVehicleRoundTrip: req.CostVehicleRoundTrip,
		TotalRoundTrip:       req.TotalRoundTrip,
		NumVehicles:          req.NumVehicles,
		Available:            req.Available,
		CreatedAt:            utils.UTCNow(),
		UpdatedAt:            utils.UTCNow(),
	}
	if rate.NumVehicles == 0 {
		rate.NumVehicles = 1
	}
	if rate.Available == nil {
		rate.Available = utils.ToPtr(true)
	}
	if err := f.applyValidityWindow(rate, req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}

	if err := validateRateAmounts(rate); err != nil {
		return nil, err
	}
	if err := f.validateRateRefs(ctx, rate); err != nil {
		return nil, err
	}

	if err := f.rateRepo.Save(ctx, rate); err != nil {
		f.auditRateWriteFailure(ctx, metadata, "create", err)
		return nil, NewBusinessError("RATE_CREATE_FAILED", "Failed to create rate", err)
	}
	f.clearCacheAndAudit(ctx, models.AuditActionRateCreated, rate, metadata)

	return &dto.RateAdminResponse{
		Message: "Rate created successfully",
		Rate:    ToRateDTO(rate, f.pricingCfg.BaseCurrency, decimal.NewFromInt(1)),
	}, nil
}

// UpdateRate applies a partial edit to a fare row and clears the pricing cache
func (f *RateAdminFlowImpl) UpdateRate(ctx context.Context, id uint, req *dto.UpdateRateRequest, metadata *ClientMetadata) (*dto.RateAdminResponse, error) {
	rate, err := f.rateRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("RATE_LOOKUP_FAILED", "Failed to look up rate", err)
	}
	if rate == nil {
		return nil, NewBusinessError("RATE_NOT_FOUND", "Rate not found", ErrRateNotFound)
	}

	if req.FromZoneID != nil {
		rate.FromZoneID = *req.FromZoneID
	}
	if req.ToZoneID != nil {
		rate.ToZoneID = *req.ToZoneID
	}
	if req.ClearLocations {
		rate.FromLocationID = nil
		rate.ToLocationID = nil
	}
	if req.FromLocationID != nil {
		rate.FromLocationID = req.FromLocationID
	}
	if req.ToLocationID != nil {
		rate.ToLocationID = req.ToLocationID
	}
	if req.CostVehicleOneWay != nil {
		rate.CostVehicleOneWay = *req.CostVehicleOneWay
	}
	if req.TotalOneWay != nil {
		rate.TotalOneWay = *req.TotalOneWay
	}
	if req.CostVehicleRoundTrip != nil {
		rate.CostVehicleRoundTrip = *req.CostVehicleRoundTrip
	}
	if req.TotalRoundTrip != nil {
		rate.TotalRoundTrip = *req.TotalRoundTrip
	}
	if req.NumVehicles != nil {
		rate.NumVehicles = *req.NumVehicles
	}
	if req.Available != nil {
		rate.Available = req.Available
	}
	if req.ClearValidity {
		rate.ValidFrom = nil
		rate.ValidTo = nil
	}
	if err := f.applyValidityWindow(rate, req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	rate.UpdatedAt = utils.UTCNow()

	if err := validateRateAmounts(rate); err != nil {
		return nil, err
	}
	if err := f.validateRateRefs(ctx, rate); err != nil {
		return nil, err
	}

	if err := f.rateRepo.Update(ctx, *rate); err != nil {
		f.auditRateWriteFailure(ctx, metadata, "update", err)
		return nil, NewBusinessError("RATE_UPDATE_FAILED", "Failed to update rate", err)
	}
	f.clearCacheAndAudit(ctx, models.AuditActionRateUpdated, rate, metadata)

	return &dto.RateAdminResponse{
		Message: "Rate updated successfully",
		Rate:    ToRateDTO(rate, f.pricingCfg.BaseCurrency, decimal.NewFromInt(1)),
	}, nil
}

// DeleteRate removes a fare row immediately and clears the pricing cache
func (f *RateAdminFlowImpl) DeleteRate(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteRateResponse, error) {
	rate, err := f.rateRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("RATE_LOOKUP_FAILED", "Failed to look up rate", err)
	}
	if rate == nil {
		return nil, NewBusinessError("RATE_NOT_FOUND", "Rate not found", ErrRateNotFound)
	}

	if err := f.rateRepo.DeleteByID(ctx, id); err != nil {
		f.auditRateWriteFailure(ctx, metadata, "delete", err)
		return nil, NewBusinessError("RATE_DELETE_FAILED", "Failed to delete rate", err)
	}
	f.clearCacheAndAudit(ctx, models.AuditActionRateDeleted, rate, metadata)

	return &dto.DeleteRateResponse{Message: "Rate deleted successfully"}, nil
}

// ListRates returns the paginated admin listing
func (f *RateAdminFlowImpl) ListRates(ctx context.Context, req *dto.ListRatesRequest) (*dto.ListRatesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	filter := models.RateFilter{
		ServiceTypeID: req.ServiceTypeID,
		VehicleTypeID: req.VehicleTypeID,
		FromZoneID:    req.FromZoneID,
		ToZoneID:      req.ToZoneID,
		Available:     req.Available,
	}

	total, err := f.rateRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("RATE_LIST_FAILED", "Failed to list rates", err)
	}
	rows, err := f.rateRepo.ByFilter(ctx, filter, "id ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("RATE_LIST_FAILED", "Failed to list rates", err)
	}

	one := decimal.NewFromInt(1)
	items := make([]dto.RateDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToRateDTO(r, f.pricingCfg.BaseCurrency, one))
	}

	return &dto.ListRatesResponse{
		Message:  "Rates retrieved successfully",
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Rates:    items,
	}, nil
}

// applyValidityWindow parses the optional bound strings onto the row
func (f *RateAdminFlowImpl) applyValidityWindow(rate *models.Rate, validFrom, validTo *string) error {
	if validFrom != nil {
		t, err := utils.ParseDate(*validFrom)
		if err != nil {
			return NewBusinessError("RATE_INVALID_DATE", "Invalid valid_from date", err)
		}
		rate.ValidFrom = &t
	}
	if validTo != nil {
		t, err := utils.ParseDate(*validTo)
		if err != nil {
			return NewBusinessError("RATE_INVALID_DATE", "Invalid valid_to date", err)
		}
		rate.ValidTo = &t
	}
	return nil
}

// clearCacheAndAudit is the write epilogue: drop every cached resolution, then
// record the administrative action. A failed clear is logged loudly since it
// leaves stale prices servable until TTL expiry.
func (f *RateAdminFlowImpl) clearCacheAndAudit(ctx context.Context, action string, rate *models.Rate, metadata *ClientMetadata) {
	if err := f.cache.Clear(ctx); err != nil {
		log.Printf("WARNING: pricing cache clear failed after %s of rate %d: %v", action, rate.ID, err)
	}

	audit := newAuditLog(action, fmt.Sprintf("Rate %d %s", rate.ID, action), true, metadata, rate)
	if err := f.auditRepo.Save(ctx, audit); err != nil {
		log.Printf("Failed to save rate audit log: %v", err)
	}
}

func (f *RateAdminFlowImpl) auditRateWriteFailure(ctx context.Context, metadata *ClientMetadata, op string, cause error) {
	msg := cause.Error()
	audit := newAuditLog(models.AuditActionRateWriteFailed, "Rate "+op+" failed", false, metadata, nil)
	audit.ErrorMessage = &msg
	if err := f.auditRepo.Save(ctx, audit); err != nil {
		log.Printf("Failed to save rate audit log: %v", err)
	}
}
