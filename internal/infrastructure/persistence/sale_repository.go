package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := preloadLines(r.db.WithContext(ctx)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Sale")
	}
	return &sale, nil
}

// FindByIDForUpdate finds a sale with its lines and locks the sale row with
// SELECT ... FOR UPDATE. Returns and sale revisions both take this lock, so
// writes to returned_quantity are serialized per sale. SQLite ignores the
// clause; its writers are serialized by the database lock instead.
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := preloadLines(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "Sale")
	}
	return &sale, nil
}

// ExistsForOrder reports whether a sale was already raised from the order
func (r *GormSaleRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Sale{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

// FindAll lists sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, error) {
	var sales []trade.Sale
	query := paginate(r.applyFilter(preloadLines(r.db.WithContext(ctx)).Model(&trade.Sale{}), filter), filter, SaleSortFields)
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Sale{}), filter).Count(&count).Error
	return count, err
}

// Create inserts the sale and its lines. A second sale for the same order
// fails with AlreadyExists.
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sale).Error; err != nil {
			return translateError(err, "Sale for this order")
		}
		return insertSaleLines(tx, sale)
	})
}

// Update writes the sale and replaces its whole line set
func (r *GormSaleRepository) Update(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&trade.Sale{}).
			Where("id = ?", sale.ID).
			UpdateColumns(map[string]any{
				"client":     sale.Client,
				"total":      sale.Total,
				"sold_at":    sale.SoldAt,
				"updated_at": sale.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("Sale")
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&trade.SaleLine{}).Error; err != nil {
			return err
		}
		return insertSaleLines(tx, sale)
	})
}

// SaveReturnedQuantities persists ReturnedQuantity for every line of the sale
func (r *GormSaleRepository) SaveReturnedQuantities(ctx context.Context, sale *trade.Sale) error {
	db := r.db.WithContext(ctx)
	for _, line := range sale.Lines {
		if err := db.Model(&trade.SaleLine{}).
			Where("id = ?", line.ID).
			UpdateColumn("returned_quantity", line.ReturnedQuantity).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the sale with its lines, exports and returns
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&trade.Sale{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return shared.NotFound("Sale")
		}
		return deleteSales(tx, []uuid.UUID{id})
	})
}

// Summarize totals the sales with sold_at in [start, end)
func (r *GormSaleRepository) Summarize(ctx context.Context, start, end time.Time) (trade.SalesSummary, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("sold_at >= ? AND sold_at < ?", start.UTC(), end.UTC()).
		Scan(&row).Error
	if err != nil {
		return trade.SalesSummary{}, err
	}
	return trade.SalesSummary{Total: row.Total, Count: row.Count}, nil
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(client) LIKE ?", likePattern(filter.Search))
	}
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	return query
}

func insertSaleLines(tx *gorm.DB, sale *trade.Sale) error {
	if len(sale.Lines) == 0 {
		return nil
	}
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
	}
	return tx.Omit(clause.Associations).Create(&sale.Lines).Error
}

// deleteSales removes sales and everything owned by them
func deleteSales(tx *gorm.DB, saleIDs []uuid.UUID) error {
	if len(saleIDs) == 0 {
		return nil
	}
	for _, dependent := range []any{&trade.SaleLine{}, &trade.Export{}, &trade.Return{}} {
		if err := tx.Where("sale_id IN ?", saleIDs).Delete(dependent).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", saleIDs).Delete(&trade.Sale{}).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
