package cart

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// GetCart 查询购物车，没有购物车时返回空形态而不是错误
func (s *Service) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	if s.cache != nil {
		c, err := s.cache.Get(ctx, userID)
		switch {
		case err == nil:
			metrics.CartCacheLookupsTotal.WithLabelValues("hit").Inc()
			return toView(c), nil
		case errors.Is(err, cart.ErrCacheMiss):
			metrics.CartCacheLookupsTotal.WithLabelValues("miss").Inc()
		default:
			metrics.CartCacheLookupsTotal.WithLabelValues("error").Inc()
			zap.L().Warn("读取购物车缓存失败，回源数据库", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	// 同一用户的并发回源合并成一次查询；共享的查询不跟随某一个请求取消
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(strconv.FormatUint(uint64(userID), 10), func() (interface{}, error) {
		return s.load(loadCtx, userID)
	})
	if err != nil {
		return nil, err
	}
	return toView(v.(*cart.Cart)), nil
}

// load 读库并按版本号回填缓存
// 版本号在读库之前获取，读库后有变更提交时回填会被跳过
func (s *Service) load(ctx context.Context, userID uint) (*cart.Cart, error) {
	version, cacheable := "", s.cache != nil
	if cacheable {
		var err error
		if version, err = s.cache.Version(ctx, userID); err != nil {
			cacheable = false
			zap.L().Warn("读取购物车缓存版本失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	c, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, cart.ErrCartNotFound) {
		c = cart.Empty(userID)
	} else if err != nil {
		return nil, err
	}

	if cacheable {
		stored, err := s.cache.SetIfVersion(ctx, c, version)
		switch {
		case err != nil:
			zap.L().Warn("写入购物车缓存失败", zap.Uint("user_id", userID), zap.Error(err))
		case !stored:
			metrics.CartCacheLookupsTotal.WithLabelValues("stale").Inc()
		}
	}
	return c, nil
}
