package repository

import (
	"context"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"gorm.io/gorm"
)

// RateRepositoryImpl implements RateRepository
type RateRepositoryImpl struct {
	*BaseRepository[models.Rate, models.RateFilter]
}

// NewRateRepository creates a new repository for fare rows
func NewRateRepository(db *gorm.DB) RateRepository {
	return &RateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Rate, models.RateFilter](db),
	}
}

// ByRoute returns the location-specific rows for a service type and location
// pair. Rows are returned in no particular order; validity filtering is done
// by the caller so the predicate stays in one place.
func (r *RateRepositoryImpl) ByRoute(ctx context.Context, serviceTypeID, fromLocationID, toLocationID uint) ([]*models.Rate, error) {
	db := r.getDB(ctx)

	var rates []*models.Rate
	err := db.Preload("VehicleType").Preload("ServiceType").
		Where("service_type_id = ? AND from_location_id = ? AND to_location_id = ?",
			serviceTypeID, fromLocationID, toLocationID).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// ByZones returns the zone-level default rows for a service type and zone
// pair. Rows carrying a full location override pair belong to a specific
// route and are excluded from the zone defaults.
func (r *RateRepositoryImpl) ByZones(ctx context.Context, serviceTypeID, fromZoneID, toZoneID uint) ([]*models.Rate, error) {
	db := r.getDB(ctx)

	var rates []*models.Rate
	err := db.Preload("VehicleType").Preload("ServiceType").
		Where("service_type_id = ? AND from_zone_id = ? AND to_zone_id = ?",
			serviceTypeID, fromZoneID, toZoneID).
		Where("from_location_id IS NULL OR to_location_id IS NULL").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// ByServiceType returns every rate row for a service type
func (r *RateRepositoryImpl) ByServiceType(ctx context.Context, serviceTypeID uint) ([]*models.Rate, error) {
	db := r.getDB(ctx)

	var rates []*models.Rate
	err := db.Preload("VehicleType").Preload("ServiceType").
		Where("service_type_id = ?", serviceTypeID).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// Update saves the full rate row
func (r *RateRepositoryImpl) Update(ctx context.Context, rate models.Rate) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	rate.UpdatedAt = utils.UTCNow()

	err = db.Save(&rate).Error
	if err != nil {
		return err
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *RateRepositoryImpl) applyFilter(db *gorm.DB, filter models.RateFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ServiceTypeID != nil {
		db = db.Where("service_type_id = ?", *filter.ServiceTypeID)
	}
	if filter.VehicleTypeID != nil {
		db = db.Where("vehicle_type_id = ?", *filter.VehicleTypeID)
	}
	if filter.FromZoneID != nil {
		db = db.Where("from_zone_id = ?", *filter.FromZoneID)
	}
	if filter.ToZoneID != nil {
		db = db.Where("to_zone_id = ?", *filter.ToZoneID)
	}
	if filter.FromLocationID != nil {
		db = db.Where("from_location_id = ?", *filter.FromLocationID)
	}
	if filter.ToLocationID != nil {
		db = db.Where("to_location_id = ?", *filter.ToLocationID)
	}
	if filter.Available != nil {
		db = db.Where("available = ?", *filter.Available)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByFilter retrieves rates based on filter criteria
func (r *RateRepositoryImpl) ByFilter(ctx context.Context, filter models.RateFilter, orderBy string, limit, offset int) ([]*models.Rate, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rate{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Rate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of rates matching the filter
func (r *RateRepositoryImpl) Count(ctx context.Context, filter models.RateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rate{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any rate matching the filter exists
func (r *RateRepositoryImpl) Exists(ctx context.Context, filter models.RateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
