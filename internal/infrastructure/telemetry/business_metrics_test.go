package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStockLevels struct {
	mock.Mock
}

func (m *mockStockLevels) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func hasFilter(key string) any {
	return mock.MatchedBy(func(f shared.Filter) bool {
		_, ok := f.Filters[key]
		return ok
	})
}

func TestBusinessMetrics_Record(t *testing.T) {
	bm, err := NewBusinessMetrics(NewMetrics(), nil, zap.NewNop())
	require.NoError(t, err)

	bm.RecordOrderCreated("ONLINE_WEB", decimal.RequireFromString("1500.50"))
	bm.RecordOrderCreated("ONLINE_WEB", decimal.RequireFromString("500"))
	bm.RecordPayment("CASH", "PAID")
	bm.RecordTransfer(7)
	bm.RecordTransfer(3)
	bm.RecordWholesaleResolution("expired")

	assert.Equal(t, 2.0, testutil.ToFloat64(bm.ordersCreated.WithLabelValues("ONLINE_WEB")))
	assert.InDelta(t, 2000.5, testutil.ToFloat64(bm.orderAmount.WithLabelValues("ONLINE_WEB")), 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(bm.payments.WithLabelValues("CASH", "PAID")))
	assert.Equal(t, 2.0, testutil.ToFloat64(bm.transfers))
	assert.Equal(t, 10.0, testutil.ToFloat64(bm.unitsTransferred))
	assert.Equal(t, 1.0, testutil.ToFloat64(bm.wholesaleResolutions.WithLabelValues("expired")))
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var bm *BusinessMetrics
	assert.NotPanics(t, func() {
		bm.RecordOrderCreated("ONLINE_WEB", decimal.Zero)
		bm.RecordPayment("CASH", "PAID")
		bm.RecordTransfer(1)
		bm.RecordWholesaleResolution("ok")
		bm.StartPeriodicCollection(context.Background(), time.Second)
		bm.Stop()
	})
}

func TestBusinessMetrics_DuplicateRegistration(t *testing.T) {
	m := NewMetrics()
	_, err := NewBusinessMetrics(m, nil, nil)
	require.NoError(t, err)
	_, err = NewBusinessMetrics(m, nil, nil)
	assert.Error(t, err)
}

func TestBusinessMetrics_Collect(t *testing.T) {
	provider := new(mockStockLevels)
	provider.On("Count", mock.Anything, hasFilter("low_stock")).Return(int64(4), nil)
	provider.On("Count", mock.Anything, hasFilter("out_of_stock")).Return(int64(0), errors.New("db down"))

	bm, err := NewBusinessMetrics(NewMetrics(), provider, zap.NewNop())
	require.NoError(t, err)
	bm.outOfStock.Set(2)

	bm.collect(context.Background())

	assert.Equal(t, 4.0, testutil.ToFloat64(bm.lowStock))
	assert.Equal(t, 2.0, testutil.ToFloat64(bm.outOfStock), "failed counts keep the previous value")
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	provider := new(mockStockLevels)
	provider.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	bm, err := NewBusinessMetrics(NewMetrics(), provider, zap.NewNop())
	require.NoError(t, err)

	bm.StartPeriodicCollection(context.Background(), time.Hour)
	defer bm.Stop()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(bm.lowStock) == 1 && testutil.ToFloat64(bm.outOfStock) == 1
	}, time.Second, 10*time.Millisecond)
}
