package trade

import (
	"context"

	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. An error returned by fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories a sale or return needs,
// all bound to the same transaction.
type TransactionalRepositories interface {
	Stock() catalog.StockAdjuster
	Orders() trade.OrderRepository
	Sales() trade.SaleRepository
	Returns() trade.ReturnRepository
}
