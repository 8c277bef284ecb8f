package metrics_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/metrics"
	"fulfillment/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movement(t *testing.T, producer, product int64, q string) stock.Movement {
	t.Helper()
	p, _ := kernel.NewID(producer)
	pr, _ := kernel.NewID(product)
	k, err := stock.NewKey(p, pr)
	require.NoError(t, err)
	quantity, err := kernel.QuantityFromString(q)
	require.NoError(t, err)
	return stock.Movement{Key: k, Quantity: quantity}
}

func TestFulfillmentMetrics_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewFulfillmentMetricsWithRegisterer(reg)

	m.ObserveOperation("commit_order", nil, 10*time.Millisecond)
	m.ObserveOperation("commit_order", nil, 20*time.Millisecond)
	m.ObserveOperation("commit_order", errs.NewObjectNotFoundError("order", 1), time.Millisecond)
	m.ObserveOperation("delete_order", errors.New("connection reset"), time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "fulfillment_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	count, err = testutil.GatherAndCount(reg, "fulfillment_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFulfillmentMetrics_StockMovements(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewFulfillmentMetricsWithRegisterer(reg)

	m.StockDebited([]stock.Movement{movement(t, 1, 100, "2.5"), movement(t, 2, 100, "1")})
	m.StockCredited([]stock.Movement{movement(t, 1, 100, "0.5")})

	expected := `
# HELP fulfillment_stock_moved_units_total Units debited from or credited to producer stock
# TYPE fulfillment_stock_moved_units_total counter
fulfillment_stock_moved_units_total{direction="credit"} 0.5
fulfillment_stock_moved_units_total{direction="debit"} 3.5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fulfillment_stock_moved_units_total"))
}

func TestFulfillmentMetrics_SetStockLevels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewFulfillmentMetricsWithRegisterer(reg)

	entry := func(producer, product int64, q string) stock.Entry {
		mv := movement(t, producer, product, q)
		e, err := stock.NewEntry(mv.Key, mv.Quantity)
		require.NoError(t, err)
		return e
	}

	m.SetStockLevels([]stock.Entry{entry(1, 100, "7.5"), entry(2, 101, "3")})
	count, err := testutil.GatherAndCount(reg, "fulfillment_stock_available_units")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A refresh drops entries that disappeared.
	m.SetStockLevels([]stock.Entry{entry(1, 100, "4")})
	expected := `
# HELP fulfillment_stock_available_units Units available per producer and product at the last refresh
# TYPE fulfillment_stock_available_units gauge
fulfillment_stock_available_units{producer_id="1",product_id="100"} 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fulfillment_stock_available_units"))
}

func TestNewFulfillmentMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := metrics.NewFulfillmentMetricsWithRegisterer(reg)
	second := metrics.NewFulfillmentMetricsWithRegisterer(reg)

	first.ObserveOperation("receive_stock", nil, time.Millisecond)
	second.ObserveOperation("receive_stock", nil, time.Millisecond)

	expected := `
# HELP fulfillment_operations_total Total number of order and stock commands by outcome
# TYPE fulfillment_operations_total counter
fulfillment_operations_total{operation="receive_stock",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fulfillment_operations_total"))
}
