package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCollectInterval = 5 * time.Minute

// StockLevelProvider counts products matching a filter. The product repository satisfies it.
type StockLevelProvider interface {
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BusinessMetrics tracks orders, payments, stock transfers and stock health.
// All methods are safe on a nil receiver.
type BusinessMetrics struct {
	logger   *zap.Logger
	provider StockLevelProvider

	ordersCreated        *prometheus.CounterVec
	orderAmount          *prometheus.CounterVec
	payments             *prometheus.CounterVec
	transfers            prometheus.Counter
	unitsTransferred     prometheus.Counter
	wholesaleResolutions *prometheus.CounterVec
	lowStock             prometheus.Gauge
	outOfStock           prometheus.Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics registers the business collectors on m's registry
func NewBusinessMetrics(m *Metrics, provider StockLevelProvider, logger *zap.Logger) (*BusinessMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{
		logger:   logger,
		provider: provider,
		stopChan: make(chan struct{}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_created_total",
			Help: "Orders created, by sale channel.",
		}, []string{"channel"}),
		orderAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_amount_total",
			Help: "Sum of order totals, by sale channel.",
		}, []string{"channel"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "payments_total",
			Help: "Payment attempts, by method and resulting status.",
		}, []string{"method", "status"}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_transfers_total",
			Help: "Completed stock transfers between stores.",
		}),
		unitsTransferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_units_transferred_total",
			Help: "Units moved between stores.",
		}),
		wholesaleResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "wholesale_link_resolutions_total",
			Help: "Wholesale link lookups, by result.",
		}, []string{"result"}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "products_low_stock",
			Help: "Products with low global stock.",
		}),
		outOfStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "products_out_of_stock",
			Help: "Products without stock.",
		}),
	}

	for _, c := range []prometheus.Collector{
		bm.ordersCreated, bm.orderAmount, bm.payments, bm.transfers,
		bm.unitsTransferred, bm.wholesaleResolutions, bm.lowStock, bm.outOfStock,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

// RecordOrderCreated counts an order and adds its total
func (bm *BusinessMetrics) RecordOrderCreated(channel string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.ordersCreated.WithLabelValues(channel).Inc()
	bm.orderAmount.WithLabelValues(channel).Add(total.InexactFloat64())
}

// RecordPayment counts a payment attempt and the order status it produced
func (bm *BusinessMetrics) RecordPayment(method, status string) {
	if bm == nil {
		return
	}
	bm.payments.WithLabelValues(method, status).Inc()
}

// RecordTransfer counts a completed transfer of quantity units
func (bm *BusinessMetrics) RecordTransfer(quantity int) {
	if bm == nil {
		return
	}
	bm.transfers.Inc()
	bm.unitsTransferred.Add(float64(quantity))
}

// RecordWholesaleResolution counts a wholesale link lookup ("ok", "expired", "not_found", ...)
func (bm *BusinessMetrics) RecordWholesaleResolution(result string) {
	if bm == nil {
		return
	}
	bm.wholesaleResolutions.WithLabelValues(result).Inc()
}

// StartPeriodicCollection refreshes the stock gauges every interval until Stop or ctx is done.
// It collects once immediately and only starts once.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm == nil || bm.provider == nil {
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = defaultCollectInterval
		}
		go bm.run(ctx, interval)
	})
}

func (bm *BusinessMetrics) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	low, err := bm.provider.Count(ctx, shared.Filter{Filters: map[string]any{"low_stock": true}})
	if err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
	} else {
		bm.lowStock.Set(float64(low))
	}

	out, err := bm.provider.Count(ctx, shared.Filter{Filters: map[string]any{"out_of_stock": true}})
	if err != nil {
		bm.logger.Warn("Failed to count out of stock products", zap.Error(err))
	} else {
		bm.outOfStock.Set(float64(out))
	}
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	if bm == nil {
		return
	}
	bm.stopOnce.Do(func() { close(bm.stopChan) })
}
