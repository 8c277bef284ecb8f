package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	opCommitOrder  = "commit_order"
	opUpdateOrder  = "update_order"
	opDeleteOrder  = "delete_order"
	opReceiveStock = "receive_stock"
)

// DefaultPublishTimeout bounds the wait for an order event to be accepted by the broker.
const DefaultPublishTimeout = 5 * time.Second

var tracer = otel.Tracer("fulfillment/commands")

// Recorder collects operation and stock movement metrics.
type Recorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
	StockDebited(movements []stock.Movement)
	StockCredited(movements []stock.Movement)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, error, time.Duration) {}
func (noopRecorder) StockDebited([]stock.Movement)                 {}
func (noopRecorder) StockCredited([]stock.Movement)                {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, order.ChangedEvent) error { return nil }

type instrumentation struct {
	publisher      ports.OrderEventPublisher
	publishTimeout time.Duration
	recorder       Recorder
	logger         *zap.Logger
}

// Option configures the side channels of a command handler.
type Option func(*instrumentation)

// WithPublisher announces committed changes through p.
func WithPublisher(p ports.OrderEventPublisher) Option {
	return func(in *instrumentation) {
		if p != nil {
			in.publisher = p
		}
	}
}

// WithPublishTimeout limits how long a committed operation waits for its event to be published.
func WithPublishTimeout(d time.Duration) Option {
	return func(in *instrumentation) {
		if d > 0 {
			in.publishTimeout = d
		}
	}
}

// WithRecorder reports metrics to r.
func WithRecorder(r Recorder) Option {
	return func(in *instrumentation) {
		if r != nil {
			in.recorder = r
		}
	}
}

// WithLogger logs through l.
func WithLogger(l *zap.Logger) Option {
	return func(in *instrumentation) {
		if l != nil {
			in.logger = l
		}
	}
}

func newInstrumentation(opts []Option) instrumentation {
	in := instrumentation{
		publisher:      noopPublisher{},
		publishTimeout: DefaultPublishTimeout,
		recorder:       noopRecorder{},
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&in)
	}
	in.logger = in.logger.With(zap.String("component", "commands"))
	return in
}

func (in instrumentation) start(
	ctx context.Context,
	operation string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span, time.Time) {
	ctx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	return ctx, span, time.Now()
}

func (in instrumentation) end(span trace.Span, operation string, started time.Time, err error) {
	in.recorder.ObserveOperation(operation, err, time.Since(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.logger.Debug("operation failed", zap.String("operation", operation), zap.Error(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// publish is best effort and runs after commit. It ignores request cancellation
// and gives up after publishTimeout.
func (in instrumentation) publish(ctx context.Context, event order.ChangedEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), in.publishTimeout)
	defer cancel()

	if err := in.publisher.Publish(ctx, event); err != nil {
		in.logger.Warn("publish order event",
			zap.String("event_id", event.ID.String()),
			zap.String("kind", string(event.Kind)),
			zap.Int64("order_id", event.OrderID.Int64()),
			zap.Error(err))
	}
}

func applyDebits(ctx context.Context, ledger ports.StockLedger, debits []stock.Movement) error {
	for _, d := range debits {
		if err := ledger.Debit(ctx, d.Key, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func applyCredits(ctx context.Context, ledger ports.StockLedger, credits []stock.Movement) error {
	for _, c := range credits {
		if err := ledger.Credit(ctx, c.Key, c.Quantity); err != nil {
			return err
		}
	}
	return nil
}
