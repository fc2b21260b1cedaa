package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/catalog"
)

// ItemView 商品信息
type ItemView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 价格(分)
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toItemView(i *catalog.Item) *ItemView {
	return &ItemView{
		ID:        i.ID,
		Name:      i.Name,
		Price:     i.Price,
		IsActive:  i.IsActive,
		CreatedAt: i.CreatedAt.Format(time.DateTime),
		UpdatedAt: i.UpdatedAt.Format(time.DateTime),
	}
}

// PublishItemUseCase 商品上架用例（管理员）
type PublishItemUseCase struct {
	catalogService catalog.Service
}

// NewPublishItemUseCase 创建上架用例
func NewPublishItemUseCase(catalogService catalog.Service) *PublishItemUseCase {
	return &PublishItemUseCase{catalogService: catalogService}
}

// PublishItemRequest 上架请求
type PublishItemRequest struct {
	Name  string
	Price int64
}

// Execute 名称和价格校验由领域层负责
func (uc *PublishItemUseCase) Execute(ctx context.Context, req PublishItemRequest) (*ItemView, error) {
	item, err := uc.catalogService.Publish(ctx, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	zap.L().Info("商品上架", zap.Uint("item_id", item.ID), zap.Int64("price", item.Price))
	return toItemView(item), nil
}

// UpdateItemUseCase 修改商品（改名、调价、上下架）
type UpdateItemUseCase struct {
	catalogService catalog.Service
}

// NewUpdateItemUseCase 创建修改用例
func NewUpdateItemUseCase(catalogService catalog.Service) *UpdateItemUseCase {
	return &UpdateItemUseCase{catalogService: catalogService}
}

// UpdateItemRequest nil字段表示不修改
type UpdateItemRequest struct {
	Name     *string
	Price    *int64
	IsActive *bool
}

// Execute 执行修改
func (uc *UpdateItemUseCase) Execute(ctx context.Context, id uint, req UpdateItemRequest) (*ItemView, error) {
	item, err := uc.catalogService.Update(ctx, id, catalog.Changes{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("商品已修改", zap.Uint("item_id", item.ID), zap.Bool("is_active", item.IsActive))
	return toItemView(item), nil
}

// GetItemUseCase 商品详情
type GetItemUseCase struct {
	catalogService catalog.Service
}

// NewGetItemUseCase 创建详情用例
func NewGetItemUseCase(catalogService catalog.Service) *GetItemUseCase {
	return &GetItemUseCase{catalogService: catalogService}
}

// Execute 非管理员看不到已下架商品
func (uc *GetItemUseCase) Execute(ctx context.Context, id uint, includeInactive bool) (*ItemView, error) {
	item, err := uc.catalogService.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsActive && !includeInactive {
		return nil, catalog.ErrItemNotFound
	}
	return toItemView(item), nil
}
