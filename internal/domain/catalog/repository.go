package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
)

// StockAdjuster is the single write path for product quantities.
type StockAdjuster interface {
	// AdjustStock adds delta (which may be negative) to the product's quantity
	// in one atomic statement. No floor is applied. Returns shared.ErrNotFound
	// when the product does not exist.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	StockAdjuster

	// FindByID loads a product with its warehouse and suppliers
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindLowStock returns products with quantity <= threshold ordered by id
	FindLowStock(ctx context.Context, threshold int) ([]Product, error)

	// FindByWarehouse returns the products assigned to a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Product, error)

	// ExistingIDs returns the subset of ids that belong to stored products
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// Create inserts the product and its supplier links
	Create(ctx context.Context, product *Product) error

	// Update writes every attribute except quantity and replaces the supplier
	// links with product.Suppliers
	Update(ctx context.Context, product *Product) error

	Delete(ctx context.Context, id uuid.UUID) error
}
