package cart

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
)

// AddItem 加入购物车
// 商品必须存在且上架；新行使用商品当前价格作为快照，已有行只累加数量
func (s *Service) AddItem(ctx context.Context, userID, itemRef uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	item, err := s.catalog.Resolve(ctx, itemRef)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, catalog.ErrItemNotFound
	}

	c, err := s.mutate(ctx, "add", userID, true, func(c *cart.Cart) error {
		return c.AddItem(item.ID, quantity, item.Price)
	})
	if err != nil {
		return nil, err
	}
	return toView(c), nil
}
