package catalog

import (
	"context"

	"github.com/google/uuid"
)

// StockMovement is a signed change to one product's quantity
type StockMovement struct {
	ProductID uuid.UUID
	Delta     int
}

// Apply runs every movement through adjuster in order and stops at the first failure.
func Apply(ctx context.Context, adjuster StockAdjuster, movements []StockMovement) error {
	for _, m := range movements {
		if err := adjuster.AdjustStock(ctx, m.ProductID, m.Delta); err != nil {
			return err
		}
	}
	return nil
}
