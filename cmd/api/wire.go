//go:build wireinject
// +build wireinject

// Wire依赖注入配置，修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appcart "github.com/xiebiao/storefront/internal/application/cart"
	appcatalog "github.com/xiebiao/storefront/internal/application/catalog"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	appuser "github.com/xiebiao/storefront/internal/application/user"
	appwishlist "github.com/xiebiao/storefront/internal/application/wishlist"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、JWT、通知出口
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideJWTManager,
	provideNotifier,
	redis.NewSessionStore,
	provideCartCache,
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewCatalogRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewWishlistRepository,
	mysql.NewTxManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	catalog.NewService,
	provideCatalogLookup,
	provideNumberGenerator,
	provideTransitionPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	provideRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshUseCase,
	appcatalog.NewListItemsUseCase,
	appcatalog.NewGetItemUseCase,
	appcatalog.NewPublishItemUseCase,
	appcatalog.NewUpdateItemUseCase,
	appcart.NewService,
	appwishlist.NewService,
	provideCreateOptions,
	apporder.NewCreateOrderUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewUpdateStatusUseCase,
)

// interfaceSet 中间件、处理器、路由
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewCatalogHandler,
	handler.NewWishlistHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用，cleanup按创建的逆序释放连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
