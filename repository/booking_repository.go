package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepositoryImpl implements BookingRepository
type BookingRepositoryImpl struct {
	*BaseRepository[models.Booking, models.BookingFilter]
}

// NewBookingRepository creates a new repository for bookings
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &BookingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Booking, models.BookingFilter](db),
	}
}

// ByUUID retrieves a booking by its public UUID
func (r *BookingRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	db := r.getDB(ctx)

	var booking models.Booking
	err := db.Preload("Customer").Where("uuid = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// ListByCustomer returns a customer's bookings, newest first
func (r *BookingRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Booking, error) {
	db := r.getDB(ctx)

	query := db.Where("customer_id = ?", customerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var bookings []*models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus updates only the status of a booking
func (r *BookingRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
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

	err = db.Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *BookingRepositoryImpl) applyFilter(db *gorm.DB, filter models.BookingFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ServiceTypeID != nil {
		db = db.Where("service_type_id = ?", *filter.ServiceTypeID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}

// ByFilter retrieves bookings based on filter criteria
func (r *BookingRepositoryImpl) ByFilter(ctx context.Context, filter models.BookingFilter, orderBy string, limit, offset int) ([]*models.Booking, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Booking{}), filter)

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

	var rows []*models.Booking
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of bookings matching the filter
func (r *BookingRepositoryImpl) Count(ctx context.Context, filter models.BookingFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Booking{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any booking matching the filter exists
func (r *BookingRepositoryImpl) Exists(ctx context.Context, filter models.BookingFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
