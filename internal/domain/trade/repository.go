package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID loads an order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save writes the order and replaces its whole line set
	Save(ctx context.Context, order *Order) error
	// SaveStatus writes only the status columns
	SaveStatus(ctx context.Context, order *Order) error
	// Delete removes the order, its lines and any sale raised from it
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalesSummary is the total amount and number of sales in a range
type SalesSummary struct {
	Total decimal.Decimal
	Count int64
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID loads a sale with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads a sale with its lines and holds a row lock on
	// the sale until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create inserts the sale and its lines
	Create(ctx context.Context, sale *Sale) error
	// Update writes the sale and replaces its whole line set
	Update(ctx context.Context, sale *Sale) error
	// SaveReturnedQuantities persists ReturnedQuantity for every line
	SaveReturnedQuantities(ctx context.Context, sale *Sale) error
	// Delete removes the sale with its lines, exports and returns
	Delete(ctx context.Context, id uuid.UUID) error
	// Summarize totals the sales with sold_at in [start, end)
	Summarize(ctx context.Context, start, end time.Time) (SalesSummary, error)
}

// ExportRepository defines the interface for export persistence
type ExportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Export, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Export, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, export *Export) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Return, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ret *Return) error
	Delete(ctx context.Context, id uuid.UUID) error
}
