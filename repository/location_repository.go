package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"gorm.io/gorm"
)

// LocationRepositoryImpl implements LocationRepository
type LocationRepositoryImpl struct {
	*BaseRepository[models.Location, models.LocationFilter]
}

// NewLocationRepository creates a new repository for locations
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &LocationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Location, models.LocationFilter](db),
	}
}

// ByIDWithZone retrieves a location with its zone preloaded. Returns nil when
// the location does not exist; never errors for "just not found".
func (r *LocationRepositoryImpl) ByIDWithZone(ctx context.Context, id uint) (*models.Location, error) {
	db := r.getDB(ctx)

	var loc models.Location
	err := db.Preload("Zone").First(&loc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

// ListByZone returns all locations belonging to a zone
func (r *LocationRepositoryImpl) ListByZone(ctx context.Context, zoneID uint) ([]*models.Location, error) {
	db := r.getDB(ctx)

	var locations []*models.Location
	err := db.Where("zone_id = ?", zoneID).Order("name ASC").Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *LocationRepositoryImpl) applyFilter(db *gorm.DB, filter models.LocationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.ZoneID != nil {
		db = db.Where("zone_id = ?", *filter.ZoneID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves locations based on filter criteria
func (r *LocationRepositoryImpl) ByFilter(ctx context.Context, filter models.LocationFilter, orderBy string, limit, offset int) ([]*models.Location, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Location{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Location
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of locations matching the filter
func (r *LocationRepositoryImpl) Count(ctx context.Context, filter models.LocationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Location{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any location matching the filter exists
func (r *LocationRepositoryImpl) Exists(ctx context.Context, filter models.LocationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
