package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/partner"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo   catalog.ProductRepository
	warehouseRepo partner.WarehouseRepository
	supplierRepo  partner.SupplierRepository
	logger        *zap.Logger
	metrics       *telemetry.BusinessMetrics
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		logger:        logger,
	}
}

// SetBusinessMetrics enables the low-stock gauge
func (s *ProductService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create creates a new product with its opening stock and supplier links
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	details, err := req.details()
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, details.WarehouseID, req.SupplierIDs); err != nil {
		return nil, err
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	product, err := catalog.NewProduct(details, quantity)
	if err != nil {
		return nil, err
	}
	product.SetSuppliers(req.SupplierIDs)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, product.ID)
}

// GetByID retrieves a product with its warehouse and suppliers
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.WarehouseID != "" {
		domainFilter.Filters["warehouse_id"] = filter.WarehouseID
	}
	if filter.ExportEligible != nil {
		domainFilter.Filters["export_eligible"] = *filter.ExportEligible
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update replaces a product's attributes and its supplier set.
// Quantity is left untouched.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	details, err := req.details()
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, details.WarehouseID, req.SupplierIDs); err != nil {
		return nil, err
	}

	if err := product.Update(details); err != nil {
		return nil, err
	}
	previous := product.SupplierIDs()
	product.SetSuppliers(req.SupplierIDs)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated",
		zap.String("product_id", product.ID.String()),
		zap.Int("suppliers_before", len(previous)),
		zap.Int("suppliers_after", len(product.Suppliers)))

	return s.GetByID(ctx, product.ID)
}

// Delete removes a product together with its supplier links and the order
// and sale lines that reference it
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, productID)
}

// AdjustStock adds delta to the product's quantity and returns the result.
// No floor is applied, so stock may go negative.
func (s *ProductService) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*ProductResponse, error) {
	if err := s.productRepo.AdjustStock(ctx, productID, delta); err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int("delta", delta))

	return s.GetByID(ctx, productID)
}

// LowStock lists products whose quantity is at or below threshold, ordered
// by id. Negative thresholds are allowed and select oversold products.
func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordLowStock(ctx, threshold, int64(len(products)))
	}
	return ToProductResponses(products), nil
}

// ListByWarehouse lists the products assigned to a warehouse
func (s *ProductService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]ProductResponse, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// checkReferences verifies the warehouse and every supplier exist
func (s *ProductService) checkReferences(ctx context.Context, warehouseID *uuid.UUID, supplierIDs []uuid.UUID) error {
	if warehouseID != nil {
		if _, err := s.warehouseRepo.FindByID(ctx, *warehouseID); err != nil {
			return err
		}
	}

	ids := distinct(supplierIDs)
	if len(ids) == 0 {
		return nil
	}
	found, err := s.supplierRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return shared.NotFound("Supplier")
	}
	return nil
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
