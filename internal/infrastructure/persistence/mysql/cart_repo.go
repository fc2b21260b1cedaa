package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// cartRepository 购物车仓储实现
// 所有写操作走Mutate：锁定carts行 → 读出全部行 → 领域对象修改 → 整体写回
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByUserID 查询用户购物车（含行，按加入顺序）
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	var model CartModel
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithErr(err)
	}
	return toCartEntity(&model, model.Items), nil
}

// mutateAttempts 死锁或锁等待超时时整个事务的最多执行次数
const mutateAttempts = 3

// Mutate 在事务内串行修改同一用户的购物车
//
// SELECT ... FOR UPDATE锁住carts行，同一用户的并发请求在这里排队，
// 保证合并数量、覆盖数量、删除行这些读-改-写操作不会丢失更新。
// 需要建车时先插入再加锁，不对不存在的行加锁。
// 遇到死锁整个事务重做，fn会基于重新读出的购物车再执行一次。
func (r *cartRepository) Mutate(ctx context.Context, userID uint, create bool, fn cart.MutateFunc) (*cart.Cart, error) {
	var (
		result *cart.Cart
		err    error
	)
	for attempt := 1; attempt <= mutateAttempts; attempt++ {
		result, err = r.mutateOnce(ctx, userID, create, fn)
		if err == nil || !isLockConflict(err) || attempt == mutateAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, apperrors.ErrDatabaseError.WithErr(ctx.Err())
		case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) mutateOnce(ctx context.Context, userID uint, create bool, fn cart.MutateFunc) (*cart.Cart, error) {
	var result *cart.Cart

	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if create {
			// user_id唯一索引保证并发首次加购只建一个购物车
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).Create(&CartModel{UserID: userID}).Error
			if err != nil {
				return apperrors.ErrDatabaseError.WithErr(err)
			}
		}
		model, err := r.lockCart(tx, userID)
		if err != nil {
			return err
		}

		var rows []CartItemModel
		if err := tx.Where("cart_id = ?", model.ID).Order("position ASC").Find(&rows).Error; err != nil {
			return apperrors.ErrDatabaseError.WithErr(err)
		}

		c := toCartEntity(model, rows)
		if err := fn(c); err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", model.ID).Delete(&CartItemModel{}).Error; err != nil {
			return apperrors.ErrDatabaseError.WithErr(err)
		}
		if len(c.Items) > 0 {
			if err := tx.Create(toCartItemModels(model.ID, c.Items)).Error; err != nil {
				return apperrors.ErrDatabaseError.WithErr(err)
			}
		}

		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = time.Now()
		}
		err = tx.Model(&CartModel{}).Where("id = ?", model.ID).Updates(map[string]interface{}{
			"total_amount": c.TotalAmount,
			"updated_at":   c.UpdatedAt,
		}).Error
		if err != nil {
			return apperrors.ErrDatabaseError.WithErr(err)
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) lockCart(tx *gorm.DB, userID uint) (*CartModel, error) {
	var model CartModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithErr(err)
	}
	return &model, nil
}

func toCartItemModels(cartID uint, lines []cart.Line) []CartItemModel {
	rows := make([]CartItemModel, len(lines))
	for i, l := range lines {
		rows[i] = CartItemModel{
			CartID:    cartID,
			ItemRef:   l.ItemRef,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Position:  i,
		}
	}
	return rows
}

func toCartEntity(model *CartModel, rows []CartItemModel) *cart.Cart {
	lines := make([]cart.Line, len(rows))
	for i, row := range rows {
		lines[i] = cart.Line{
			ItemRef:   row.ItemRef,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		}
	}
	return &cart.Cart{
		ID:          model.ID,
		UserID:      model.UserID,
		Items:       lines,
		TotalAmount: model.TotalAmount,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
