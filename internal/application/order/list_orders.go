package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// ListOrdersUseCase 订单查询用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单查询用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListForUser 当前用户的全部订单，最新的在前
func (uc *ListOrdersUseCase) ListForUser(ctx context.Context, userID uint) ([]*OrderView, error) {
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderViews(orders), nil
}

// ListAllRequest 管理端订单列表过滤条件
// PageSize为0时返回全部
type ListAllRequest struct {
	Status   string
	Page     int
	PageSize int
}

// ListAllResponse 管理端订单列表
type ListAllResponse struct {
	Orders   []*OrderView
	Total    int64
	Page     int
	PageSize int
}

// ListAll 全部订单（管理端），最新的在前
func (uc *ListOrdersUseCase) ListAll(ctx context.Context, req ListAllRequest) (*ListAllResponse, error) {
	filter := order.ListFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status, err := order.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if filter.PageSize > 0 && filter.Page < 1 {
		filter.Page = 1
	}

	orders, total, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListAllResponse{
		Orders:   toOrderViews(orders),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
