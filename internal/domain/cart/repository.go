package cart

import (
	"context"
)

// MutateFunc 在持有购物车行锁期间执行的修改
type MutateFunc func(c *Cart) error

// Repository 购物车仓储接口
type Repository interface {
	// FindByUserID 不存在时返回ErrCartNotFound
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// Mutate 在一个事务内锁定用户的购物车，执行fn后保存全部行和总金额
	// create为true时购物车不存在则先创建，否则返回ErrCartNotFound。
	// 同一用户的并发Mutate串行执行，fn返回error时整体回滚。
	Mutate(ctx context.Context, userID uint, create bool, fn MutateFunc) (*Cart, error)
}

// Cache 购物车读缓存
//
// 每次变更调用Invalidate删除缓存并换一个新版本号。读路径回填前先取Version，
// 读库后用SetIfVersion写回；期间若有变更提交，版本号已变，旧数据不会写回缓存。
type Cache interface {
	// Get 未命中返回ErrCacheMiss
	Get(ctx context.Context, userID uint) (*Cart, error)

	// Version 当前版本号，从未变更过时为空字符串
	Version(ctx context.Context, userID uint) (string, error)

	// SetIfVersion 版本号仍为version时写入，返回是否写入
	SetIfVersion(ctx context.Context, c *Cart, version string) (bool, error)

	Invalidate(ctx context.Context, userID uint) error
}
