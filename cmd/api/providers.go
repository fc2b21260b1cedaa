package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apporder "github.com/xiebiao/storefront/internal/application/order"
	appuser "github.com/xiebiao/storefront/internal/application/user"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/notification"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/mq"
)

// App InitializeApp的产出
type App struct {
	Engine *gin.Engine
	// Orders 退出前等待异步通知发完
	Orders *apporder.CreateOrderUseCase
}

// 以下Provider从Config中取参数，Wire无法自动推导

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideUserService(repo user.Repository, cfg *config.Config) user.Service {
	return user.NewServiceWithCost(repo, cfg.Auth.BcryptCost)
}

func provideRegisterUseCase(svc user.Service, cfg *config.Config) *appuser.RegisterUseCase {
	return appuser.NewRegisterUseCase(svc, cfg.Auth)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(svc user.Service, jwtManager *jwt.Manager, sessions *redis.SessionStore, cfg *config.Config) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(svc, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

func provideCatalogLookup(svc catalog.Service) catalog.Lookup {
	return svc
}

// provideCartCache 关闭缓存时返回nil，购物车直接读库
func provideCartCache(client *goredis.Client, cfg *config.Config) cart.Cache {
	if !cfg.Cart.CacheEnabled {
		return nil
	}
	return redis.NewCartCache(client, cfg.Cart.CacheTTL)
}

func provideNumberGenerator(cfg *config.Config) *order.NumberGenerator {
	return order.NewNumberGenerator(cfg.Order.NumberPrefix)
}

func provideTransitionPolicy(cfg *config.Config) order.TransitionPolicy {
	if cfg.Order.StrictTransitions {
		return order.PolicyStrict
	}
	return order.PolicyPermissive
}

func provideCreateOptions(cfg *config.Config) apporder.CreateOptions {
	return apporder.CreateOptions{
		VerifyPrices:  cfg.Checkout.VerifyPrices,
		MaxAttempts:   cfg.Order.NumberMaxAttempts,
		NotifyTimeout: cfg.Order.NotifyTimeout,
	}
}

// provideNotifier 启用MQ时发布order.placed事件，否则只写日志
func provideNotifier(cfg *config.Config) (order.Notifier, func(), error) {
	if !cfg.MQ.Enabled {
		return notification.NewLogNotifier(zap.L()), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", zap.L())
	if err != nil {
		return nil, nil, err
	}
	notifier := notification.NewMQNotifier(publisher, notification.NewBreaker("order-events"), cfg.MQ.RoutingKey)
	return notifier, func() { _ = publisher.Close() }, nil
}
