package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"gorm.io/gorm"
)

// ServiceTypeRepositoryImpl implements ServiceTypeRepository
type ServiceTypeRepositoryImpl struct {
	*BaseRepository[models.ServiceType, models.ServiceTypeFilter]
}

// NewServiceTypeRepository creates a new repository for service types
func NewServiceTypeRepository(db *gorm.DB) ServiceTypeRepository {
	return &ServiceTypeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServiceType, models.ServiceTypeFilter](db),
	}
}

// ByCode retrieves a service type by its stable code
func (r *ServiceTypeRepositoryImpl) ByCode(ctx context.Context, code string) (*models.ServiceType, error) {
	db := r.getDB(ctx)

	var st models.ServiceType
	err := db.Where("code = ?", code).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ServiceTypeRepositoryImpl) applyFilter(db *gorm.DB, filter models.ServiceTypeFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves service types based on filter criteria
func (r *ServiceTypeRepositoryImpl) ByFilter(ctx context.Context, filter models.ServiceTypeFilter, orderBy string, limit, offset int) ([]*models.ServiceType, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceType{}), filter)

	if orderBy == "" {
		orderBy = "code ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ServiceType
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of service types matching the filter
func (r *ServiceTypeRepositoryImpl) Count(ctx context.Context, filter models.ServiceTypeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceType{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any service type matching the filter exists
func (r *ServiceTypeRepositoryImpl) Exists(ctx context.Context, filter models.ServiceTypeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
