// Package notification 下单通知
//
// api进程在订单提交后发布order.placed事件（RabbitMQ，未启用时只写日志），
// notifier进程消费事件，渲染买家和运营两封确认邮件并交给Mailer发送。
package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// EventOrderPlaced 事件类型，同时作为默认routing key
const EventOrderPlaced = "order.placed"

// OrderPlacedEvent 下单事件，携带完整订单（含买家快照）
type OrderPlacedEvent struct {
	EventID    string       `json:"event_id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Order      *order.Order `json:"order"`
}

// NewOrderPlacedEvent 每次调用生成新的事件ID
func NewOrderPlacedEvent(o *order.Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventID:    uuid.NewString(),
		Type:       EventOrderPlaced,
		OccurredAt: time.Now().UTC(),
		Order:      o,
	}
}
