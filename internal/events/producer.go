package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier publishes order events for the downstream notification consumer.
// Implementations must be safe for concurrent use.
type Notifier interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order, prev domain.OrderStatus)
}

// KafkaNotifier publishes order events best-effort: failures are logged and
// never surface to the checkout caller.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) *KafkaNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
	}
}

func (n *KafkaNotifier) OrderCreated(ctx context.Context, order *domain.Order) {
	n.publish(ctx, OrderEvent{
		EventID:     uuid.New().String(),
		Type:        TypeOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status.String(),
		TotalAmount: order.TotalAmount.String(),
		Lines:       eventLines(order.Lines),
		Timestamp:   time.Now().UTC(),
	})
}

func (n *KafkaNotifier) OrderStatusChanged(ctx context.Context, order *domain.Order, prev domain.OrderStatus) {
	n.publish(ctx, OrderEvent{
		EventID:     uuid.New().String(),
		Type:        TypeOrderStatusChanged,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status.String(),
		PrevStatus:  prev.String(),
		TotalAmount: order.TotalAmount.String(),
		Timestamp:   time.Now().UTC(),
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, event OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal order event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	})
	if err != nil {
		n.logger.Error("publish order event",
			zap.String("type", event.Type),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err),
		)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NopNotifier is used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(context.Context, *domain.Order) {}

func (NopNotifier) OrderStatusChanged(context.Context, *domain.Order, domain.OrderStatus) {}
