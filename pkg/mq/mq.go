// Package mq RabbitMQ消息发布与消费
//
// 生产者把JSON消息发到持久化的topic Exchange，消费者声明持久化队列并按routing key绑定，
// 手动ack：处理成功Ack，失败Nack。
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/pkg/metrics"
)

// ErrClosed 连接已关闭
var ErrClosed = errors.New("mq: connection closed")

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp.Channel不能被多个goroutine同时发布
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, channel, err := open(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	logger.Info("mq publisher ready", zap.String("exchange", exchange), zap.String("type", exchangeType))
	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 把message序列化为JSON并持久化投递
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, message interface{}) error {
	msg, err := NewPublishing(messageID, message)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return ErrClosed
	}

	// mandatory=false：没有队列绑定时消息直接丢弃
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.MessagesPublishedTotal.WithLabelValues(p.exchange, routingKey).Inc()
	p.logger.Debug("mq message published",
		zap.String("routing_key", routingKey),
		zap.String("message_id", messageID),
	)
	return nil
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return closeAll(p.channel, p.conn)
}

// NewPublishing 构造持久化的JSON消息
func NewPublishing(messageID string, message interface{}) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    messageID,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}, nil
}

// Delivery 消费到的消息
type Delivery struct {
	MessageID  string
	RoutingKey string
	Body       []byte
}

// Handler 消息处理函数，返回error时消息会被Nack
type Handler func(ctx context.Context, d Delivery) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	requeue bool
	logger  *zap.Logger
}

// ConsumerConfig 消费者配置
type ConsumerConfig struct {
	URL          string
	Exchange     string
	ExchangeType string
	Queue        string
	RoutingKeys  []string // topic通配符，如 order.*
	Prefetch     int
	// RequeueOnError 处理失败是否重新入队；false时交给死信或直接丢弃
	RequeueOnError bool
}

// NewConsumer 声明Exchange、队列并完成绑定
func NewConsumer(cfg ConsumerConfig, logger *zap.Logger) (*Consumer, error) {
	conn, channel, err := open(cfg.URL, cfg.Exchange, cfg.ExchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range cfg.RoutingKeys {
		if err := channel.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := channel.Qos(prefetch, 0, false); err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("设置Qos失败: %w", err)
	}

	logger.Info("mq consumer ready", zap.String("queue", q.Name), zap.Strings("routing_keys", cfg.RoutingKeys))
	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		requeue: cfg.RequeueOnError,
		logger:  logger,
	}, nil
}

// Consume 阻塞消费直到ctx取消或连接断开
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("mq consumer stopping", zap.String("queue", c.queue))
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return ErrClosed
			}
			c.dispatch(ctx, msg, handler)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery, handler Handler) {
	start := time.Now()
	err := handler(ctx, Delivery{
		MessageID:  msg.MessageId,
		RoutingKey: msg.RoutingKey,
		Body:       msg.Body,
	})
	metrics.MessageProcessingDuration.Observe(time.Since(start).Seconds())
	metrics.MessagesConsumedTotal.WithLabelValues(c.queue, metrics.Result(err)).Inc()

	if err != nil {
		c.logger.Warn("mq message handling failed",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("message_id", msg.MessageId),
			zap.Bool("requeue", c.requeue),
			zap.Error(err),
		)
		_ = msg.Nack(false, c.requeue)
		return
	}
	_ = msg.Ack(false)
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

func open(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = closeAll(channel, conn)
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, channel, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	var errs []error
	if channel != nil && !channel.IsClosed() {
		errs = append(errs, channel.Close())
	}
	if conn != nil && !conn.IsClosed() {
		errs = append(errs, conn.Close())
	}
	return errors.Join(errs...)
}
