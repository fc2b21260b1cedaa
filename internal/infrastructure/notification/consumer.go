package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/pkg/mq"
)

// ErrMalformedEvent 消息无法解析，不重试
var ErrMalformedEvent = errors.New("notification: malformed order.placed event")

// OrderPlacedHandler 消费order.placed事件并发送确认邮件
type OrderPlacedHandler struct {
	renderer *Renderer
	mailer   Mailer
}

// NewOrderPlacedHandler 创建事件处理器
func NewOrderPlacedHandler(renderer *Renderer, mailer Mailer) *OrderPlacedHandler {
	return &OrderPlacedHandler{renderer: renderer, mailer: mailer}
}

// Handle 实现mq.Handler
// 任意一封邮件发送失败都返回error，由消费者决定是否重新入队
func (h *OrderPlacedHandler) Handle(ctx context.Context, d mq.Delivery) error {
	var evt OrderPlacedEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if evt.Type != EventOrderPlaced || evt.Order == nil {
		return ErrMalformedEvent
	}

	msgs, err := h.renderer.OrderPlaced(evt.Order)
	if err != nil {
		return err
	}

	var errs []error
	for _, msg := range msgs {
		if err := h.mailer.Send(ctx, msg); err != nil {
			zap.L().Error("确认邮件发送失败",
				zap.String("event_id", evt.EventID),
				zap.String("order_no", evt.Order.OrderNo),
				zap.String("to", msg.To),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	zap.L().Info("订单通知已发送",
		zap.String("event_id", evt.EventID),
		zap.String("order_no", evt.Order.OrderNo),
		zap.Int("messages", len(msgs)),
	)
	return nil
}
