// Package kafka publishes order change events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	headerEventKind = "event-kind"
	headerEventID   = "event-id"
)

// MessageWriter is the part of kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// OrderEventPublisher writes one message per order change, keyed by order id so that
// the changes of one order stay ordered within a partition.
type OrderEventPublisher struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewOrderEventPublisher creates a publisher writing to topic on the broker at host.
func NewOrderEventPublisher(host, topic string, logger *zap.Logger) (*OrderEventPublisher, error) {
	if host == "" {
		return nil, errors.New("kafka host is empty")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is empty")
	}
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(host),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return NewOrderEventPublisherWithWriter(writer, logger)
}

// NewOrderEventPublisherWithWriter creates a publisher over an existing writer.
func NewOrderEventPublisherWithWriter(writer MessageWriter, logger *zap.Logger) (*OrderEventPublisher, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEventPublisher{
		writer: writer,
		logger: logger.With(zap.String("component", "kafka-publisher")),
	}, nil
}

// Publish writes event. The trace context of ctx travels in the message headers.
func (p *OrderEventPublisher) Publish(ctx context.Context, event order.ChangedEvent) error {
	payload, err := json.Marshal(newEventMessage(event))
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []kafkago.Header{
		{Key: headerEventKind, Value: []byte(event.Kind)},
		{Key: headerEventID, Value: []byte(event.ID.String())},
	}
	for k, v := range carrier {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}

	msg := kafkago.Message{
		Key:     []byte(strconv.FormatInt(event.OrderID.Int64(), 10)),
		Value:   payload,
		Headers: headers,
		Time:    event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event %s: %w", event.ID, err)
	}

	p.logger.Debug("order event published",
		zap.String("event_id", event.ID.String()),
		zap.String("kind", string(event.Kind)),
		zap.Int64("order_id", event.OrderID.Int64()))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

type eventMessage struct {
	EventID    string            `json:"eventId"`
	Kind       string            `json:"kind"`
	OrderID    int64             `json:"orderId"`
	ClientID   int64             `json:"clientId"`
	OccurredAt time.Time         `json:"occurredAt"`
	Debited    []movementMessage `json:"debited"`
	Credited   []movementMessage `json:"credited"`
}

type movementMessage struct {
	ProducerID int64  `json:"producerId"`
	ProductID  int64  `json:"productId"`
	Quantity   string `json:"quantity"`
}

func newEventMessage(event order.ChangedEvent) eventMessage {
	return eventMessage{
		EventID:    event.ID.String(),
		Kind:       string(event.Kind),
		OrderID:    event.OrderID.Int64(),
		ClientID:   event.ClientID.Int64(),
		OccurredAt: event.OccurredAt,
		Debited:    movementMessages(event.Debited),
		Credited:   movementMessages(event.Credited),
	}
}

func movementMessages(movements []stock.Movement) []movementMessage {
	out := make([]movementMessage, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementMessage{
			ProducerID: m.Key.ProducerID.Int64(),
			ProductID:  m.Key.ProductID.Int64(),
			Quantity:   m.Quantity.String(),
		})
	}
	return out
}
