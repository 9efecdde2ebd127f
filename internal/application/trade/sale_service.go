package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/report"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/inventario/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService handles sale-related business operations
type SaleService struct {
	txScope     TransactionScope
	saleRepo    trade.SaleRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	metrics     *telemetry.BusinessMetrics
}

// NewSaleService creates a new SaleService
func NewSaleService(
	txScope TransactionScope,
	saleRepo trade.SaleRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		txScope:     txScope,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetBusinessMetrics enables sale counters
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create records a sale for a completed order and takes every line's
// quantity out of stock. The sale and all stock decrements commit together
// or not at all.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	lines := toLineInputs(req.Lines)
	if err := checkProducts(ctx, s.productRepo, lines); err != nil {
		return nil, err
	}

	var (
		saleID uuid.UUID
		total  decimal.Decimal
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if !order.IsCompleted() {
			return shared.InvalidState("Sales can only be created for completed orders")
		}

		exists, err := repos.Sales().ExistsForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "A sale already exists for this order")
		}

		sale, err := trade.NewSale(order, req.Client, timeOrZero(req.SoldAt), lines)
		if err != nil {
			return err
		}
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		if err := catalog.Apply(ctx, repos.Stock(), sale.StockDecrements()); err != nil {
			return err
		}

		saleID, total = sale.ID, sale.Total
		return nil
	})
	if err != nil {
		s.logger.Warn("Sale creation rolled back",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Sale created",
		zap.String("sale_id", saleID.String()),
		zap.String("order_id", req.OrderID.String()))
	if s.metrics != nil {
		s.metrics.RecordCreated(ctx, telemetry.RecordTypeSale, total)
	}

	return s.GetByID(ctx, saleID)
}

// GetByID retrieves a sale with its lines
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves a list of sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.OrderID != "" {
		domainFilter.Filters["order_id"] = filter.OrderID
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(sales), total, nil
}

// Update replaces the sale's client and lines and recomputes its total.
// Stock is not touched: only sale creation and returns move quantities.
// The sale is re-read under a row lock so a concurrent return cannot be
// overwritten by the rewritten lines.
func (s *SaleService) Update(ctx context.Context, saleID uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	lines := toLineInputs(req.Lines)
	if err := checkProducts(ctx, s.productRepo, lines); err != nil {
		return nil, err
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sale.Revise(req.Client, lines); err != nil {
			return err
		}
		if req.SoldAt != nil {
			sale.SoldAt = req.SoldAt.UTC()
		}
		return repos.Sales().Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, saleID)
}

// Delete removes a sale with its lines, exports and returns. Stock is not restored.
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID) error {
	return s.saleRepo.Delete(ctx, saleID)
}

// SalesReport totals the sales whose sale date falls between the two
// calendar dates, both inclusive
func (s *SaleService) SalesReport(ctx context.Context, req SalesReportRequest) (*SalesReportResponse, error) {
	window, err := report.WindowFromDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	summary, err := s.saleRepo.Summarize(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	return &SalesReportResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalAmount: summary.Total,
		SalesCount:  summary.Count,
	}, nil
}
