package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// GetOrderUseCase 订单详情用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 买家只能看自己的订单，别人的订单按不存在处理；管理员可以看全部
func (uc *GetOrderUseCase) Execute(ctx context.Context, requesterID uint, isAdmin bool, orderID uint) (*OrderView, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.IsOwnedBy(requesterID) {
		return nil, order.ErrOrderNotFound
	}
	return toOrderView(o), nil
}
