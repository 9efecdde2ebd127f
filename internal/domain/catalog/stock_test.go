package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingAdjuster struct {
	calls  []StockMovement
	failOn uuid.UUID
}

func (r *recordingAdjuster) AdjustStock(_ context.Context, productID uuid.UUID, delta int) error {
	if productID == r.failOn {
		return errors.New("boom")
	}
	r.calls = append(r.calls, StockMovement{ProductID: productID, Delta: delta})
	return nil
}

func TestApply(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	t.Run("applies in order", func(t *testing.T) {
		adj := &recordingAdjuster{}
		moves := []StockMovement{{ProductID: a, Delta: -3}, {ProductID: b, Delta: 2}, {ProductID: a, Delta: -1}}

		assert.NoError(t, Apply(context.Background(), adj, moves))
		assert.Equal(t, moves, adj.calls)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		adj := &recordingAdjuster{failOn: b}
		err := Apply(context.Background(), adj, []StockMovement{{ProductID: a, Delta: 1}, {ProductID: b, Delta: 1}, {ProductID: a, Delta: 1}})

		assert.Error(t, err)
		assert.Len(t, adj.calls, 1)
	})
}
