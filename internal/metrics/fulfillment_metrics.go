// Package metrics exposes Prometheus collectors for order and stock operations.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"

	directionDebit  = "debit"
	directionCredit = "credit"
)

// FulfillmentMetrics records command outcomes, their latency and stock movements.
type FulfillmentMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	moved      *prometheus.CounterVec
	available  *prometheus.GaugeVec
}

// NewFulfillmentMetrics registers the collectors on the default registerer.
func NewFulfillmentMetrics() *FulfillmentMetrics {
	return NewFulfillmentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewFulfillmentMetricsWithRegisterer registers the collectors on registerer,
// reusing collectors that are already registered there.
func NewFulfillmentMetricsWithRegisterer(registerer prometheus.Registerer) *FulfillmentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FulfillmentMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fulfillment_operations_total",
			Help: "Total number of order and stock commands by outcome",
		}, []string{"operation", "outcome"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_operation_duration_seconds",
			Help:    "Duration of order and stock commands in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
		moved: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "fulfillment_stock_moved_units_total",
			Help: "Units debited from or credited to producer stock",
		}, []string{"direction"}),
		available: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "fulfillment_stock_available_units",
			Help: "Units available per producer and product at the last refresh",
		}, []string{"producer_id", "product_id"}),
	}
}

// ObserveOperation counts one command execution and records its latency.
func (m *FulfillmentMetrics) ObserveOperation(operation string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// StockDebited adds the debited units.
func (m *FulfillmentMetrics) StockDebited(movements []stock.Movement) {
	m.addMoved(directionDebit, movements)
}

// StockCredited adds the credited units.
func (m *FulfillmentMetrics) StockCredited(movements []stock.Movement) {
	m.addMoved(directionCredit, movements)
}

// SetStockLevels replaces the availability gauge with entries.
func (m *FulfillmentMetrics) SetStockLevels(entries []stock.Entry) {
	m.available.Reset()
	for _, e := range entries {
		m.available.
			WithLabelValues(e.Key().ProducerID.String(), e.Key().ProductID.String()).
			Set(e.Available().Float64())
	}
}

func (m *FulfillmentMetrics) addMoved(direction string, movements []stock.Movement) {
	for _, mv := range movements {
		m.moved.WithLabelValues(direction).Add(mv.Quantity.Float64())
	}
}

// outcome separates business rejections from infrastructure failures.
func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}

	var validation *services.ValidationError
	var insufficient *stock.InsufficientStockError
	switch {
	case errors.As(err, &validation),
		errors.As(err, &insufficient),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return outcomeRejected
	default:
		return outcomeError
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}
