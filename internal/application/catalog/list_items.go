package catalog

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/catalog"
)

// ListItemsUseCase 商品列表查询
type ListItemsUseCase struct {
	catalogService catalog.Service
}

// NewListItemsUseCase 创建列表查询用例
func NewListItemsUseCase(catalogService catalog.Service) *ListItemsUseCase {
	return &ListItemsUseCase{catalogService: catalogService}
}

// ListItemsRequest 列表查询请求
type ListItemsRequest struct {
	Page            int
	PageSize        int
	Keyword         string
	IncludeInactive bool // 仅管理员可用
}

// ListItemsResponse 列表查询响应
type ListItemsResponse struct {
	List       []*ItemView `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Execute 执行列表查询，page默认1，pageSize默认20、最大100
func (uc *ListItemsUseCase) Execute(ctx context.Context, req ListItemsRequest) (*ListItemsResponse, error) {
	params := catalog.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		ActiveOnly: !req.IncludeInactive,
	}
	params.Normalize()

	items, total, err := uc.catalogService.List(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*ItemView, len(items))
	for i, item := range items {
		list[i] = toItemView(item)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	return &ListItemsResponse{
		List:       list,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
