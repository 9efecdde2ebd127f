package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// RecordType labels the trade record a counter increment belongs to
type RecordType string

const (
	RecordTypeOrder RecordType = "order"
	RecordTypeSale  RecordType = "sale"
)

// LowStockCounter counts products at or below a stock threshold
type LowStockCounter interface {
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// BusinessMetrics tracks trade volume and inventory health
type BusinessMetrics struct {
	logger *zap.Logger

	createdTotal *Counter
	amountTotal  *Counter
	lowStock     *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger, stopChan: make(chan struct{})}

	var err error
	if bm.createdTotal, err = NewCounter(meter,
		"inventario_trade_created_total",
		"Orders and sales created",
		"{records}",
	); err != nil {
		return nil, err
	}
	if bm.amountTotal, err = NewCounter(meter,
		"inventario_trade_amount_total",
		"Order and sale totals in cents",
		"{cents}",
	); err != nil {
		return nil, err
	}
	if bm.lowStock, err = NewGauge(meter,
		"inventario_low_stock_products",
		"Products at or below the low-stock threshold",
		"{products}",
	); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordCreated counts one order or sale and adds its total
func (bm *BusinessMetrics) RecordCreated(ctx context.Context, kind RecordType, total decimal.Decimal) {
	attr := AttrRecordType.String(string(kind))
	bm.createdTotal.Inc(ctx, attr)
	bm.amountTotal.Add(ctx, total.Shift(2).Round(0).IntPart(), attr)
}

// RecordLowStock sets the low-stock gauge for threshold
func (bm *BusinessMetrics) RecordLowStock(ctx context.Context, threshold int, count int64) {
	bm.lowStock.Record(ctx, count, AttrThreshold.Int(threshold))
}

// StartLowStockCollection refreshes the low-stock gauge every interval
// until ctx ends or Stop is called. Only the first call starts a collector.
func (bm *BusinessMetrics) StartLowStockCollection(ctx context.Context, source LowStockCounter, threshold int, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runLowStockCollection(ctx, source, threshold, interval)
	})
}

func (bm *BusinessMetrics) runLowStockCollection(ctx context.Context, source LowStockCounter, threshold int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectLowStock(ctx, source, threshold)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectLowStock(ctx, source, threshold)
		}
	}
}

func (bm *BusinessMetrics) collectLowStock(ctx context.Context, source LowStockCounter, threshold int) {
	count, err := source.CountLowStock(ctx, threshold)
	if err != nil {
		bm.logger.Warn("Failed to count low-stock products", zap.Error(err))
		return
	}
	bm.RecordLowStock(ctx, threshold, count)
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() { close(bm.stopChan) })
}
