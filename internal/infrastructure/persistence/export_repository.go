package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExportRepository implements ExportRepository using GORM
type GormExportRepository struct {
	db *gorm.DB
}

// NewGormExportRepository creates a new GormExportRepository
func NewGormExportRepository(db *gorm.DB) *GormExportRepository {
	return &GormExportRepository{db: db}
}

// FindByID finds an export by ID
func (r *GormExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Export, error) {
	var export trade.Export
	if err := r.db.WithContext(ctx).First(&export, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Export")
	}
	return &export, nil
}

// FindAll lists exports matching the filter
func (r *GormExportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Export, error) {
	var exports []trade.Export
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&trade.Export{}), filter), filter, ExportSortFields)
	if err := query.Find(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// Count counts exports matching the filter
func (r *GormExportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Export{}), filter).Count(&count).Error
	return count, err
}

// Save inserts or updates an export
func (r *GormExportRepository) Save(ctx context.Context, export *trade.Export) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(export).Error, "Export")
}

// Delete removes an export
func (r *GormExportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Export{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Export")
	}
	return nil
}

func (r *GormExportRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(destination_country) LIKE ?", likePattern(filter.Search))
	}
	if saleID, ok := filter.Filters["sale_id"]; ok {
		query = query.Where("sale_id = ?", saleID)
	}
	return query
}

// Ensure GormExportRepository implements ExportRepository
var _ trade.ExportRepository = (*GormExportRepository)(nil)
