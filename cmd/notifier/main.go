// notifier 消费order.placed事件，给买家和运营发送下单确认邮件
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/notification"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	_, syncLogger, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer syncLogger()

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		URL:          cfg.MQ.URL,
		Exchange:     cfg.MQ.Exchange,
		ExchangeType: "topic",
		Queue:        cfg.MQ.Queue,
		RoutingKeys:  []string{cfg.MQ.RoutingKey},
		Prefetch:     cfg.MQ.Prefetch,
		// 处理失败的消息不重新入队，避免坏消息反复投递
		RequeueOnError: false,
	}, zap.L())
	if err != nil {
		zap.L().Fatal("连接消息队列失败", zap.Error(err))
	}
	defer consumer.Close()

	handler := notification.NewOrderPlacedHandler(
		notification.NewRenderer(cfg.Notification.StoreName, cfg.Notification.FromAddress, cfg.Notification.OperatorEmail),
		notification.NewMailer(cfg.Notification, zap.L()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.Notification.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.L().Error("指标服务异常退出", zap.Error(err))
			}
		}()
	}

	zap.L().Info("notifier启动", zap.String("queue", cfg.MQ.Queue), zap.Bool("smtp", cfg.Notification.SMTP.Host != ""))
	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		zap.L().Error("消费中断", zap.Error(err))
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	zap.L().Info("notifier已停止")
}
