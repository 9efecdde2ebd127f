package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardRepository runs the read-only aggregate queries behind the dashboard
type DashboardRepository interface {
	// CountProducts counts the whole catalog
	CountProducts(ctx context.Context) (int64, error)
	// InventoryValue sums quantity x sale price over the whole catalog
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	SalesTotals(ctx context.Context, w Window) (SalesTotals, error)
	CountOrders(ctx context.Context, w Window) (int64, error)
	// SaleFacts lists the window's sales with their originating order's cost
	SaleFacts(ctx context.Context, w Window) ([]SaleFact, error)
	TopProducts(ctx context.Context, w Window, limit int) ([]TopProduct, error)
	TopClients(ctx context.Context, w Window, limit int) ([]TopClient, error)
}
