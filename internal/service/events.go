package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderItemEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	Title      string    `json:"title"`
	Size       string    `json:"size,omitempty"`
	Quantity   uint32    `json:"quantity"`
	PricePaise int64     `json:"price_paise"`
	LineTotal  int64     `json:"line_total_paise"`
}

type OrderCreatedEvent struct {
	OrderID    uuid.UUID        `json:"order_id"`
	UserID     uuid.UUID        `json:"user_id"`
	Email      string           `json:"email"`
	Items      []OrderItemEvent `json:"items"`
	TotalPaise int64            `json:"total_paise"`
	CreatedAt  time.Time        `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Tracking  string    `json:"tracking,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type ReturnDecisionEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Approved  bool      `json:"approved"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// EventBus — граница диспетчера уведомлений. Публикация fire-and-forget:
// движок жизненного цикла не блокируется и не откатывается из-за неё.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error
	PublishReturnDecision(ctx context.Context, e ReturnDecisionEvent) error
}
