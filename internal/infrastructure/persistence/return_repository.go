package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).First(&ret, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Return")
	}
	return &ret, nil
}

// FindAll lists returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Return, error) {
	var returns []trade.Return
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&trade.Return{}), filter), filter, ReturnSortFields)
	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Return{}), filter).Count(&count).Error
	return count, err
}

// Save inserts or updates a return
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(ret).Error, "Return")
}

// Delete removes a return. Stock is left as it is.
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Return{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Return")
	}
	return nil
}

func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(reason) LIKE ?", likePattern(filter.Search))
	}
	if saleID, ok := filter.Filters["sale_id"]; ok {
		query = query.Where("sale_id = ?", saleID)
	}
	return query
}

// Ensure GormReturnRepository implements ReturnRepository
var _ trade.ReturnRepository = (*GormReturnRepository)(nil)
