package catalog

import (
	"context"
)

// ListParams 商品列表查询参数
type ListParams struct {
	Page       int
	PageSize   int
	Keyword    string // 按名称模糊匹配
	ActiveOnly bool
}

// Normalize page默认1，pageSize默认20、最大100
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Repository 商品仓储接口
type Repository interface {
	Create(ctx context.Context, item *Item) error

	// FindByID 不存在时返回ErrItemNotFound
	FindByID(ctx context.Context, id uint) (*Item, error)

	Update(ctx context.Context, item *Item) error

	List(ctx context.Context, params ListParams) ([]*Item, int64, error)
}

// Lookup 按商品引用解析当前名称、价格和上下架状态
// 购物车和下单只依赖这个窄接口
type Lookup interface {
	Resolve(ctx context.Context, itemRef uint) (*Item, error)
}
