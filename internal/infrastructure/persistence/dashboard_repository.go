package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/report"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements DashboardRepository using GORM.
// Every query is read-only and safe to run concurrently.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountProducts counts every product
func (r *GormDashboardRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&count).Error
	return count, err
}

// InventoryValue sums quantity x sale_price over every product
func (r *GormDashboardRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var row struct{ Value decimal.Decimal }
	err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("COALESCE(SUM(quantity * sale_price), 0) AS value").
		Scan(&row).Error
	return row.Value, err
}

// SalesTotals returns the amount and number of sales in the window
func (r *GormDashboardRepository) SalesTotals(ctx context.Context, w report.Window) (report.SalesTotals, error) {
	var row struct {
		Amount decimal.Decimal
		Count  int64
	}
	err := r.inWindow(ctx, &trade.Sale{}, "sold_at", w).
		Select("COALESCE(SUM(total), 0) AS amount, COUNT(*) AS count").
		Scan(&row).Error
	return report.SalesTotals{Amount: row.Amount, Count: row.Count}, err
}

// CountOrders counts the orders placed in the window
func (r *GormDashboardRepository) CountOrders(ctx context.Context, w report.Window) (int64, error) {
	var count int64
	err := r.inWindow(ctx, &trade.Order{}, "ordered_at", w).Count(&count).Error
	return count, err
}

// SaleFacts lists the window's sales with the line cost of their originating order
func (r *GormDashboardRepository) SaleFacts(ctx context.Context, w report.Window) ([]report.SaleFact, error) {
	var rows []struct {
		SoldAt    time.Time
		Total     decimal.Decimal
		OrderCost decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("sales AS s").
		Select(`s.sold_at AS sold_at, s.total AS total,
			COALESCE((SELECT SUM(ol.quantity * ol.unit_price) FROM order_lines ol WHERE ol.order_id = s.order_id), 0) AS order_cost`).
		Where("s.sold_at >= ? AND s.sold_at < ?", w.Start.UTC(), w.End.UTC()).
		Order("s.sold_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	facts := make([]report.SaleFact, len(rows))
	for i, row := range rows {
		facts[i] = report.SaleFact{SoldAt: row.SoldAt.UTC(), Total: row.Total, OrderCost: row.OrderCost}
	}
	return facts, nil
}

// TopProducts ranks products by quantity sold in the window
func (r *GormDashboardRepository) TopProducts(ctx context.Context, w report.Window, limit int) ([]report.TopProduct, error) {
	var rows []struct {
		ProductID uuid.UUID
		Name      string
		Quantity  int64
	}
	err := r.db.WithContext(ctx).
		Table("sale_lines AS sl").
		Select("sl.product_id AS product_id, p.name AS name, SUM(sl.quantity) AS quantity").
		Joins("JOIN sales s ON s.id = sl.sale_id").
		Joins("JOIN products p ON p.id = sl.product_id").
		Where("s.sold_at >= ? AND s.sold_at < ?", w.Start.UTC(), w.End.UTC()).
		Group("sl.product_id, p.name").
		Order("quantity DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	top := make([]report.TopProduct, len(rows))
	for i, row := range rows {
		top[i] = report.TopProduct{ProductID: row.ProductID, Name: row.Name, Quantity: row.Quantity}
	}
	return top, nil
}

// TopClients ranks clients by amount bought in the window
func (r *GormDashboardRepository) TopClients(ctx context.Context, w report.Window, limit int) ([]report.TopClient, error) {
	var rows []struct {
		Client string
		Amount decimal.Decimal
	}
	err := r.inWindow(ctx, &trade.Sale{}, "sold_at", w).
		Select("client, SUM(total) AS amount").
		Group("client").
		Order("amount DESC, client ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	top := make([]report.TopClient, len(rows))
	for i, row := range rows {
		top[i] = report.TopClient{Client: row.Client, Total: row.Amount}
	}
	return top, nil
}

func (r *GormDashboardRepository) inWindow(ctx context.Context, model any, column string, w report.Window) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(model).
		Where(column+" >= ? AND "+column+" < ?", w.Start.UTC(), w.End.UTC())
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
