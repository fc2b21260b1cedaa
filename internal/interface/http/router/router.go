// Package router 组装Gin引擎：全局中间件、/api/v1路由、健康检查、指标和文档
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User     *handler.UserHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Catalog  *handler.CatalogHandler
	Wishlist *handler.WishlistHandler
}

// New 创建Gin引擎并注册路由
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	items := v1.Group("/catalog/items")
	{
		items.GET("", auth.OptionalAuth(), h.Catalog.ListItems)
		items.GET("/:id", auth.OptionalAuth(), h.Catalog.GetItem)
		items.POST("", auth.RequireAuth(), auth.RequireAdmin(), h.Catalog.PublishItem)
		items.PATCH("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Catalog.UpdateItem)
	}

	cart := v1.Group("/cart", auth.RequireAuth())
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("", h.Cart.AddItem)
		cart.DELETE("", h.Cart.Clear)
		cart.PUT("/:itemRef", h.Cart.UpdateQuantity)
		cart.DELETE("/:itemRef", h.Cart.RemoveItem)
	}

	orders := v1.Group("/orders", auth.RequireAuth())
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListMyOrders)
		// 静态路径优先于/:id匹配
		orders.GET("/admin", auth.RequireAdmin(), h.Order.ListAllOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PATCH("/:id", auth.RequireAdmin(), h.Order.UpdateStatus)
	}

	wishlist := v1.Group("/wishlist", auth.RequireAuth())
	{
		wishlist.GET("", h.Wishlist.Get)
		wishlist.POST("", h.Wishlist.Add)
		wishlist.DELETE("/:itemRef", h.Wishlist.Remove)
	}

	return r
}
