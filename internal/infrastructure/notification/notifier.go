package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Publisher 消息发布接口，由mq.Publisher实现
type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message interface{}) error
}

// MQNotifier 把order.placed事件发布到RabbitMQ
// 发布经过熔断器，MQ持续不可用时快速失败，不拖慢下单后的goroutine
type MQNotifier struct {
	publisher  Publisher
	breaker    *circuitbreaker.CircuitBreaker
	routingKey string
}

// NewMQNotifier routingKey为空时使用order.placed
func NewMQNotifier(publisher Publisher, breaker *circuitbreaker.CircuitBreaker, routingKey string) *MQNotifier {
	if routingKey == "" {
		routingKey = EventOrderPlaced
	}
	return &MQNotifier{
		publisher:  publisher,
		breaker:    breaker,
		routingKey: routingKey,
	}
}

// NotifyOrderPlaced 发布下单事件
func (n *MQNotifier) NotifyOrderPlaced(ctx context.Context, o *order.Order) error {
	evt := NewOrderPlacedEvent(o)

	err := n.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		return n.publisher.Publish(ctx, n.routingKey, evt.EventID, evt)
	})
	metrics.NotificationsTotal.WithLabelValues("mq", metrics.Result(err)).Inc()
	metrics.CircuitBreakerRequests.WithLabelValues(n.breaker.Name(), breakerResult(err)).Inc()
	if err != nil {
		return apperrors.ErrUpstream.WithErr(err)
	}

	zap.L().Debug("下单事件已发布",
		zap.String("event_id", evt.EventID),
		zap.String("order_no", o.OrderNo),
	)
	return nil
}

// LogNotifier 未启用MQ时使用，只记录日志
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyOrderPlaced 记录订单摘要
func (n *LogNotifier) NotifyOrderPlaced(_ context.Context, o *order.Order) error {
	n.logger.Info("新订单",
		zap.String("order_no", o.OrderNo),
		zap.Uint("user_id", o.UserID),
		zap.String("customer_email", o.Customer.Email),
		zap.Int("items", o.ItemCount()),
		zap.Int64("total_amount", o.TotalAmount),
	)
	metrics.NotificationsTotal.WithLabelValues("log", "success").Inc()
	return nil
}

// NewBreaker 通知发布用的熔断器：连续5次失败后打开30秒
func NewBreaker(name string) *circuitbreaker.CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(circuitbreaker.StateClosed))
	return circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(5),
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			zap.L().Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func breakerResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, circuitbreaker.ErrOpenState):
		return "rejected"
	default:
		return "failure"
	}
}
