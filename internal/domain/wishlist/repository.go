package wishlist

import "context"

// Repository 收藏夹仓储接口
type Repository interface {
	// FindByUserID 用户没有收藏夹时返回Empty(userID)
	FindByUserID(ctx context.Context, userID uint) (*Wishlist, error)

	// Add 重复收藏返回ErrDuplicateEntry（由唯一索引保证）
	Add(ctx context.Context, userID, itemRef uint) error

	// Remove 幂等删除
	Remove(ctx context.Context, userID, itemRef uint) error
}
