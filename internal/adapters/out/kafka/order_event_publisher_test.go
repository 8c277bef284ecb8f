package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func changedEvent(t *testing.T) order.ChangedEvent {
	t.Helper()
	orderID, _ := kernel.NewID(42)
	clientID, _ := kernel.NewID(5)
	producerID, _ := kernel.NewID(1)
	productID, _ := kernel.NewID(100)
	header, err := order.NewOrder(orderID, clientID, time.Now())
	require.NoError(t, err)
	q, _ := kernel.QuantityFromString("2.5")

	return order.NewChangedEvent(order.Created, header,
		[]stock.Movement{{Key: stock.Key{ProducerID: producerID, ProductID: productID}, Quantity: q}}, nil)
}

func TestOrderEventPublisher_Publish(t *testing.T) {
	event := changedEvent(t)
	writer := new(MockWriter)

	var written []kafkago.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafkago.Message) }).
		Return(nil).Once()

	publisher, err := kafka.NewOrderEventPublisherWithWriter(writer, nil)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(t.Context(), event))
	writer.AssertExpectations(t)

	require.Len(t, written, 1)
	msg := written[0]
	assert.Equal(t, "42", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "order.created", headers["event-kind"])
	assert.Equal(t, event.ID.String(), headers["event-id"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, float64(42), payload["orderId"])
	assert.Equal(t, float64(5), payload["clientId"])
	assert.Empty(t, payload["credited"])
	debited := payload["debited"].([]any)
	require.Len(t, debited, 1)
	assert.Equal(t, "2.5", debited[0].(map[string]any)["quantity"])
}

func TestOrderEventPublisher_PublishWriteError(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker unavailable")).Once()

	publisher, _ := kafka.NewOrderEventPublisherWithWriter(writer, nil)
	err := publisher.Publish(t.Context(), changedEvent(t))

	require.ErrorContains(t, err, "broker unavailable")
}

func TestNewOrderEventPublisher_Validation(t *testing.T) {
	_, err := kafka.NewOrderEventPublisher("", "orders", nil)
	require.Error(t, err)
	_, err = kafka.NewOrderEventPublisher("localhost:9092", "", nil)
	require.Error(t, err)
	_, err = kafka.NewOrderEventPublisherWithWriter(nil, nil)
	require.Error(t, err)
}
