package order

import (
	"context"
	"time"
)

// ListFilter 订单列表过滤条件
// PageSize为0时返回全部
type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
}

// Repository 订单仓储接口
type Repository interface {
	// Create 在同一事务内写入订单和明细
	// 订单号与已有订单重复时返回ErrOrderNoConflict
	Create(ctx context.Context, o *Order) error

	// FindByID 包含明细，不存在时返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// UpdateStatus 仅当当前状态仍为from时更新（比较并交换）
	// 订单不存在返回ErrOrderNotFound，状态已被改动返回ErrConcurrentUpdate
	UpdateStatus(ctx context.Context, id uint, from, to Status, at time.Time) error

	// ListByUserID 用户的全部订单，按创建时间倒序
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)

	// List 全部订单，按创建时间倒序
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
}

// Notifier 订单通知出口
// 在订单提交之后调用，失败不影响订单本身
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, o *Order) error
}
