package repository

import (
	"context"

	"github.com/caribetransfers/backend/models"
	"gorm.io/gorm"
)

// ZoneRepositoryImpl implements ZoneRepository
type ZoneRepositoryImpl struct {
	*BaseRepository[models.Zone, models.ZoneFilter]
}

// NewZoneRepository creates a new repository for pricing zones
func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &ZoneRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Zone, models.ZoneFilter](db),
	}
}

// ListByCity returns all zones belonging to a city
func (r *ZoneRepositoryImpl) ListByCity(ctx context.Context, cityID uint) ([]*models.Zone, error) {
	db := r.getDB(ctx)

	var zones []*models.Zone
	err := db.Where("city_id = ?", cityID).Order("name ASC").Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ZoneRepositoryImpl) applyFilter(db *gorm.DB, filter models.ZoneFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CityID != nil {
		db = db.Where("city_id = ?", *filter.CityID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves zones based on filter criteria
func (r *ZoneRepositoryImpl) ByFilter(ctx context.Context, filter models.ZoneFilter, orderBy string, limit, offset int) ([]*models.Zone, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Zone{}), filter)

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

	var rows []*models.Zone
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of zones matching the filter
func (r *ZoneRepositoryImpl) Count(ctx context.Context, filter models.ZoneFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Zone{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any zone matching the filter exists
func (r *ZoneRepositoryImpl) Exists(ctx context.Context, filter models.ZoneFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
