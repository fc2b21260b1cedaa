package cart

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Service 购物车用例
// 读路径：Redis缓存 → singleflight合并 → 数据库 → 按版本号回填；写路径：Repository.Mutate提交后使缓存失效
type Service struct {
	repo    cart.Repository
	cache   cart.Cache // 可为nil，表示不使用缓存
	catalog catalog.Lookup
	group   singleflight.Group
}

// NewService 创建购物车用例
func NewService(repo cart.Repository, cache cart.Cache, lookup catalog.Lookup) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		catalog: lookup,
	}
}

// LineView 购物车行
type LineView struct {
	ItemRef   uint  `json:"item_ref"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	Subtotal  int64 `json:"subtotal"`
}

// CartView 返回给客户端的购物车
type CartView struct {
	ID             uint       `json:"id,omitempty"`
	UserID         uint       `json:"user_id"`
	Items          []LineView `json:"items"`
	TotalAmount    int64      `json:"total_amount"`
	TotalItemCount int        `json:"total_item_count"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func toView(c *cart.Cart) *CartView {
	v := &CartView{
		ID:             c.ID,
		UserID:         c.UserID,
		Items:          make([]LineView, len(c.Items)),
		TotalAmount:    c.CalculateTotal(),
		TotalItemCount: c.TotalItemCount(),
	}
	for i, l := range c.Items {
		v.Items[i] = LineView{
			ItemRef:   l.ItemRef,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		}
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}

// mutate 执行一次购物车变更并在提交后使缓存失效
func (s *Service) mutate(ctx context.Context, op string, userID uint, create bool, fn cart.MutateFunc) (*cart.Cart, error) {
	c, err := s.repo.Mutate(ctx, userID, create, fn)
	metrics.CartMutationsTotal.WithLabelValues(op, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	// 已经提交，请求取消也要让缓存失效
	s.invalidate(context.WithoutCancel(ctx), userID)
	return c, nil
}

// invalidate 失败只记日志，缓存靠TTL兜底
func (s *Service) invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		zap.L().Warn("删除购物车缓存失败", zap.Uint("user_id", userID), zap.Error(err))
	}
}
