package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront-service/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmailMessage — формат, который читает сервис отправки писем
type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// KafkaEventBus публикует события жизненного цикла заказа как письма
// в почтовый топик. Ошибки публикации логируются и не прерывают запрос.
type KafkaEventBus struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaEventBus(brokers []string, topic string, log *zap.Logger) *KafkaEventBus {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaEventBus{writer: w, log: log}
}

func (b *KafkaEventBus) publish(ctx context.Context, key string, em EmailMessage) error {
	value, err := json.Marshal(em)
	if err != nil {
		b.log.Error("marshal email message", zap.Error(err))
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		b.log.Error("publish email message", zap.String("template", em.Template), zap.Error(err))
		return err
	}
	return nil
}

func (b *KafkaEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	items := make([]map[string]any, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, map[string]any{
			"title":    it.Title,
			"size":     it.Size,
			"quantity": it.Quantity,
			"total":    it.LineTotal,
		})
	}
	return b.publish(ctx, e.OrderID.String(), EmailMessage{
		To:       e.Email,
		Subject:  "Ваш заказ принят",
		Template: "order_created",
		Data: map[string]any{
			"order_id": e.OrderID.String(),
			"items":    items,
			"total":    e.TotalPaise,
		},
	})
}

func (b *KafkaEventBus) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	return b.publish(ctx, e.OrderID.String(), EmailMessage{
		To:       e.Email,
		Subject:  "Статус заказа обновлён",
		Template: "order_status_changed",
		Data: map[string]any{
			"order_id":   e.OrderID.String(),
			"old_status": e.OldStatus,
			"new_status": e.NewStatus,
			"tracking":   e.Tracking,
		},
	})
}

func (b *KafkaEventBus) PublishReturnDecision(ctx context.Context, e service.ReturnDecisionEvent) error {
	template := "return_rejected"
	subject := "Возврат отклонён"
	if e.Approved {
		template = "return_approved"
		subject = "Возврат одобрен"
	}
	return b.publish(ctx, e.OrderID.String(), EmailMessage{
		To:       e.Email,
		Subject:  subject,
		Template: template,
		Data: map[string]any{
			"order_id": e.OrderID.String(),
			"reason":   e.Reason,
		},
	})
}

func (b *KafkaEventBus) Close() error { return b.writer.Close() }
