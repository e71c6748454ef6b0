package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"gorm.io/gorm"
)

// VehicleTypeRepositoryImpl implements VehicleTypeRepository
type VehicleTypeRepositoryImpl struct {
	*BaseRepository[models.VehicleType, models.VehicleTypeFilter]
}

// NewVehicleTypeRepository creates a new repository for vehicle classes
func NewVehicleTypeRepository(db *gorm.DB) VehicleTypeRepository {
	return &VehicleTypeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.VehicleType, models.VehicleTypeFilter](db),
	}
}

// ByName retrieves a vehicle type by name, case-insensitively. Booking clients
// submit vehicle names as free-form strings, so matching is normalized here.
func (r *VehicleTypeRepositoryImpl) ByName(ctx context.Context, name string) (*models.VehicleType, error) {
	db := r.getDB(ctx)

	var vt models.VehicleType
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&vt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vt, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *VehicleTypeRepositoryImpl) applyFilter(db *gorm.DB, filter models.VehicleTypeFilter) *gorm.DB {
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

// ByFilter retrieves vehicle types based on filter criteria
func (r *VehicleTypeRepositoryImpl) ByFilter(ctx context.Context, filter models.VehicleTypeFilter, orderBy string, limit, offset int) ([]*models.VehicleType, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.VehicleType{}), filter)

	if orderBy == "" {
		orderBy = "max_pax ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.VehicleType
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of vehicle types matching the filter
func (r *VehicleTypeRepositoryImpl) Count(ctx context.Context, filter models.VehicleTypeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.VehicleType{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any vehicle type matching the filter exists
func (r *VehicleTypeRepositoryImpl) Exists(ctx context.Context, filter models.VehicleTypeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
