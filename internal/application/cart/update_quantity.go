package cart

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// UpdateQuantity 覆盖行数量
// quantity < 1时直接拒绝，购物车保持不变；没有购物车或没有该行返回NotFound
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemRef uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	c, err := s.mutate(ctx, "update", userID, false, func(c *cart.Cart) error {
		return c.UpdateQuantity(itemRef, quantity)
	})
	if err != nil {
		return nil, err
	}
	return toView(c), nil
}
