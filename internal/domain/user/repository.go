package user

import (
	"context"
)

// Repository 用户仓储接口
// 邮箱在写入前统一转为小写，查询时调用方也需传入小写邮箱
type Repository interface {
	// Create 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 下单时据此生成买家快照，不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在时返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
