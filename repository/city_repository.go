package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"gorm.io/gorm"
)

// CityRepositoryImpl implements CityRepository
type CityRepositoryImpl struct {
	*BaseRepository[models.City, models.CityFilter]
}

// NewCityRepository creates a new repository for cities
func NewCityRepository(db *gorm.DB) CityRepository {
	return &CityRepositoryImpl{
		BaseRepository: NewBaseRepository[models.City, models.CityFilter](db),
	}
}

// ByName retrieves a city by its unique name
func (r *CityRepositoryImpl) ByName(ctx context.Context, name string) (*models.City, error) {
	db := r.getDB(ctx)

	var city models.City
	err := db.Where("name = ?", name).First(&city).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CityRepositoryImpl) applyFilter(db *gorm.DB, filter models.CityFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves cities based on filter criteria
func (r *CityRepositoryImpl) ByFilter(ctx context.Context, filter models.CityFilter, orderBy string, limit, offset int) ([]*models.City, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.City{}), filter)

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

	var rows []*models.City
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of cities matching the filter
func (r *CityRepositoryImpl) Count(ctx context.Context, filter models.CityFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.City{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any city matching the filter exists
func (r *CityRepositoryImpl) Exists(ctx context.Context, filter models.CityFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
