package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/wishlist"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建收藏夹仓储
func NewWishlistRepository(db *gorm.DB) wishlist.Repository {
	return &wishlistRepository{db: db}
}

// FindByUserID 查询收藏夹，按收藏先后排列
func (r *wishlistRepository) FindByUserID(ctx context.Context, userID uint) (*wishlist.Wishlist, error) {
	var model WishlistModel
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wishlist.Empty(userID), nil
		}
		return nil, apperrors.ErrDatabaseError.WithErr(err)
	}

	w := &wishlist.Wishlist{
		ID:        model.ID,
		UserID:    model.UserID,
		Entries:   make([]wishlist.Entry, len(model.Items)),
		UpdatedAt: model.UpdatedAt,
	}
	for i, item := range model.Items {
		w.Entries[i] = wishlist.Entry{ItemRef: item.ItemRef, AddedAt: item.CreatedAt}
	}
	return w, nil
}

// Add 收藏商品，重复由(wishlist_id, item_ref)唯一索引拦截
func (r *wishlistRepository) Add(ctx context.Context, userID, itemRef uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&WishlistModel{UserID: userID}).Error
		if err != nil {
			return apperrors.ErrDatabaseError.WithErr(err)
		}

		var model WishlistModel
		if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
			return apperrors.ErrDatabaseError.WithErr(err)
		}

		if err := tx.Create(&WishlistItemModel{WishlistID: model.ID, ItemRef: itemRef}).Error; err != nil {
			if isDuplicateError(err) {
				return wishlist.ErrDuplicateEntry
			}
			return apperrors.ErrDatabaseError.WithErr(err)
		}
		return tx.Model(&model).Update("updated_at", time.Now()).Error
	})
}

// Remove 取消收藏，不存在时不报错
func (r *wishlistRepository) Remove(ctx context.Context, userID, itemRef uint) error {
	db := conn(ctx, r.db)
	sub := db.Model(&WishlistModel{}).Select("id").Where("user_id = ?", userID)
	err := db.Where("wishlist_id IN (?) AND item_ref = ?", sub, itemRef).Delete(&WishlistItemModel{}).Error
	if err != nil {
		return apperrors.ErrDatabaseError.WithErr(err)
	}
	return nil
}
