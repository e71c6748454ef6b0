package repository

import (
	"context"
	"errors"

	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CurrencyExchangeRepositoryImpl implements CurrencyExchangeRepository
type CurrencyExchangeRepositoryImpl struct {
	*BaseRepository[models.CurrencyExchange, models.CurrencyExchangeFilter]
}

// NewCurrencyExchangeRepository creates a new repository for currency pairs
func NewCurrencyExchangeRepository(db *gorm.DB) CurrencyExchangeRepository {
	return &CurrencyExchangeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CurrencyExchange, models.CurrencyExchangeFilter](db),
	}
}

// ByPair retrieves the stored row for an exact directed pair. Returns nil when
// the direction is not stored; callers derive the reciprocal themselves.
func (r *CurrencyExchangeRepositoryImpl) ByPair(ctx context.Context, fromCurrency, toCurrency string) (*models.CurrencyExchange, error) {
	db := r.getDB(ctx)

	var pair models.CurrencyExchange
	err := db.Where("from_currency = ? AND to_currency = ?", fromCurrency, toCurrency).
		First(&pair).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pair, nil
}

// Upsert inserts the directed pair or updates its rate when it already exists
func (r *CurrencyExchangeRepositoryImpl) Upsert(ctx context.Context, pair *models.CurrencyExchange) error {
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

	pair.UpdatedAt = utils.UTCNow()

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"exchange_rate", "updated_at"}),
	}).Create(pair).Error
	if err != nil {
		return err
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CurrencyExchangeRepositoryImpl) applyFilter(db *gorm.DB, filter models.CurrencyExchangeFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.FromCurrency != nil {
		db = db.Where("from_currency = ?", *filter.FromCurrency)
	}
	if filter.ToCurrency != nil {
		db = db.Where("to_currency = ?", *filter.ToCurrency)
	}
	return db
}

// ByFilter retrieves currency pairs based on filter criteria
func (r *CurrencyExchangeRepositoryImpl) ByFilter(ctx context.Context, filter models.CurrencyExchangeFilter, orderBy string, limit, offset int) ([]*models.CurrencyExchange, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CurrencyExchange{}), filter)

	if orderBy == "" {
		orderBy = "from_currency ASC, to_currency ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.CurrencyExchange
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of currency pairs matching the filter
func (r *CurrencyExchangeRepositoryImpl) Count(ctx context.Context, filter models.CurrencyExchangeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CurrencyExchange{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any currency pair matching the filter exists
func (r *CurrencyExchangeRepositoryImpl) Exists(ctx context.Context, filter models.CurrencyExchangeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
