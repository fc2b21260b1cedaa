package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/catalog"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// catalogRepository 商品仓储实现
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建商品仓储
func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// Create 创建商品
func (r *catalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := &CatalogItemModel{
		Name:     item.Name,
		Price:    item.Price,
		IsActive: item.IsActive,
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}

	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *catalogRepository) FindByID(ctx context.Context, id uint) (*catalog.Item, error) {
	var model CatalogItemModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toCatalogEntity(&model), nil
}

// Update 更新商品
// is_active可能为false，使用map避免零值被忽略
func (r *catalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	result := conn(ctx, r.db).Model(&CatalogItemModel{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"name":       item.Name,
		"price":      item.Price,
		"is_active":  item.IsActive,
		"updated_at": item.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新商品失败")
	}
	if result.RowsAffected == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// List 分页查询商品列表，按创建时间倒序
func (r *catalogRepository) List(ctx context.Context, params catalog.ListParams) ([]*catalog.Item, int64, error) {
	var models []CatalogItemModel
	var total int64

	query := conn(ctx, r.db).Model(&CatalogItemModel{})
	if params.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+params.Keyword+"%")
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	err := query.Scopes(newestFirst, paginate(params.Page, params.PageSize)).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	items := make([]*catalog.Item, len(models))
	for i := range models {
		items[i] = toCatalogEntity(&models[i])
	}
	return items, total, nil
}

func toCatalogEntity(model *CatalogItemModel) *catalog.Item {
	return &catalog.Item{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
