package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// UpdateStatusUseCase 订单状态变更用例（管理端）
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	policy    order.TransitionPolicy
}

// NewUpdateStatusUseCase 创建状态变更用例
func NewUpdateStatusUseCase(orderRepo order.Repository, policy order.TransitionPolicy) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orderRepo: orderRepo, policy: policy}
}

// Execute 变更订单状态
// 先读出当前状态做流转校验，再以该状态为条件写回；期间被其他请求改动则返回ErrConcurrentUpdate
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, orderID uint, status string) (*OrderView, error) {
	target, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.TransitionTo(target, uc.policy); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.UpdateStatus(ctx, o.ID, from, target, o.UpdatedAt); err != nil {
		return nil, err
	}

	metrics.OrderStatusTransitionsTotal.WithLabelValues(string(from), string(target)).Inc()
	zap.L().Info("订单状态变更",
		zap.String("order_no", o.OrderNo),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return toOrderView(o), nil
}
