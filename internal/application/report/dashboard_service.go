package report

import (
	"context"
	"time"

	"github.com/inventario/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardRequest selects the dashboard window. Explicit dates win over
// time_range when both are present.
type DashboardRequest struct {
	TimeRange string `form:"time_range"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// DashboardResponse is the dashboard payload
type DashboardResponse struct {
	StartDate      time.Time              `json:"start_date"`
	EndDate        time.Time              `json:"end_date"`
	TotalProducts  int64                  `json:"total_products"`
	TotalSales     decimal.Decimal        `json:"total_sales"`
	SalesCount     int64                  `json:"sales_count"`
	TotalOrders    int64                  `json:"total_orders"`
	InventoryValue decimal.Decimal        `json:"inventory_value"`
	MonthlySales   []report.MonthlyBucket `json:"monthly_sales"`
	TopProducts    []report.TopProduct    `json:"top_products"`
	TopClients     []report.TopClient     `json:"top_clients"`
	NetProfit      decimal.Decimal        `json:"net_profit"`
	SalesGrowth    decimal.Decimal        `json:"sales_growth"`
}

// DashboardService assembles the dashboard from independent aggregate queries
type DashboardService struct {
	repo   report.DashboardRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger, now: time.Now}
}

// Window resolves the request into a concrete window
func (s *DashboardService) Window(req DashboardRequest) (report.Window, error) {
	if req.StartDate != "" || req.EndDate != "" {
		return report.WindowFromDates(req.StartDate, req.EndDate)
	}
	return report.ResolveTimeRange(req.TimeRange, s.now())
}

// Dashboard runs every aggregate concurrently and fails if any of them fails
func (s *DashboardService) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardResponse, error) {
	window, err := s.Window(req)
	if err != nil {
		return nil, err
	}

	var d report.Dashboard
	var facts []report.SaleFact
	d.Window = window

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountProducts(ctx)
		d.TotalProducts = n
		return err
	})
	g.Go(func() error {
		v, err := s.repo.InventoryValue(ctx)
		d.InventoryValue = v
		return err
	})
	g.Go(func() error {
		totals, err := s.repo.SalesTotals(ctx, window)
		d.TotalSales = totals.Amount
		d.SalesCount = totals.Count
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountOrders(ctx, window)
		d.TotalOrders = n
		return err
	})
	g.Go(func() error {
		f, err := s.repo.SaleFacts(ctx, window)
		facts = f
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopProducts(ctx, window, report.TopLimit)
		d.TopProducts = top
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopClients(ctx, window, report.TopLimit)
		d.TopClients = top
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Dashboard aggregation failed", zap.Error(err))
		return nil, err
	}

	d.Monthly = report.BucketByMonth(window.Facts(facts))
	d.NetProfit = report.NetProfit(d.Monthly)
	d.SalesGrowth = report.SalesGrowth(d.Monthly)

	return toDashboardResponse(&d), nil
}

func toDashboardResponse(d *report.Dashboard) *DashboardResponse {
	resp := &DashboardResponse{
		StartDate:      d.Window.Start,
		EndDate:        d.Window.End,
		TotalProducts:  d.TotalProducts,
		TotalSales:     d.TotalSales,
		SalesCount:     d.SalesCount,
		TotalOrders:    d.TotalOrders,
		InventoryValue: d.InventoryValue,
		MonthlySales:   d.Monthly,
		TopProducts:    d.TopProducts,
		TopClients:     d.TopClients,
		NetProfit:      d.NetProfit,
		SalesGrowth:    d.SalesGrowth,
	}
	if resp.TopProducts == nil {
		resp.TopProducts = []report.TopProduct{}
	}
	if resp.TopClients == nil {
		resp.TopClients = []report.TopClient{}
	}
	return resp
}
