package cart

import (
	"context"
	"errors"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// RemoveItem 删除行，幂等
func (s *Service) RemoveItem(ctx context.Context, userID, itemRef uint) (*CartView, error) {
	c, err := s.mutate(ctx, "remove", userID, false, func(c *cart.Cart) error {
		c.RemoveItem(itemRef)
		return nil
	})
	if errors.Is(err, cart.ErrCartNotFound) {
		return toView(cart.Empty(userID)), nil
	}
	if err != nil {
		return nil, err
	}
	return toView(c), nil
}

// ClearCart 清空购物车，购物车本身保留
func (s *Service) ClearCart(ctx context.Context, userID uint) (*CartView, error) {
	c, err := s.mutate(ctx, "clear", userID, false, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if errors.Is(err, cart.ErrCartNotFound) {
		return toView(cart.Empty(userID)), nil
	}
	if err != nil {
		return nil, err
	}
	return toView(c), nil
}
