package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/inventario/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	metrics     *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetBusinessMetrics enables order counters
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create creates an order together with its lines
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	lines := toLineInputs(req.Lines)
	if err := checkProducts(ctx, s.productRepo, lines); err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(req.Client, timeOrZero(req.OrderedAt), lines, req.Total)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Lines)))
	if s.metrics != nil {
		s.metrics.RecordCreated(ctx, telemetry.RecordTypeOrder, order.Total)
	}

	return s.GetByID(ctx, order.ID)
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a list of orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// Update replaces the order's client, total and whole line set. Status and
// payment status move only along their allowed transitions.
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines := toLineInputs(req.Lines)
	if err := checkProducts(ctx, s.productRepo, lines); err != nil {
		return nil, err
	}

	if err := order.Revise(req.Client, lines, req.Total); err != nil {
		return nil, err
	}
	if req.OrderedAt != nil {
		order.OrderedAt = req.OrderedAt.UTC()
	}
	if req.Status != "" {
		status, err := trade.ParseOrderStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if err := order.TransitionTo(status); err != nil {
			return nil, err
		}
	}
	if req.PaymentStatus != "" {
		status, err := trade.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return nil, err
		}
		if err := order.SetPaymentStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, order.ID)
}

// Delete removes an order with its lines and any sale raised from it
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.orderRepo.Delete(ctx, orderID)
}

// Complete marks the order as completed. Completing a completed order is a no-op.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Complete(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveStatus(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order completed", zap.String("order_id", order.ID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdatePaymentStatus moves the order's payment status to status
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderResponse, error) {
	target, err := trade.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.SetPaymentStatus(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveStatus(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// checkProducts fails with NotFound unless every line references a stored product
func checkProducts(ctx context.Context, products catalog.ProductRepository, lines []trade.LineInput) error {
	ids := trade.ProductIDs(lines)
	if len(ids) == 0 {
		return nil
	}
	found, err := products.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return shared.NotFound("Product")
	}
	return nil
}
