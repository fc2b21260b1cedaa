package dto

// CreateItemRequest 商品上架
type CreateItemRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Price *int64 `json:"price" binding:"required"` // 价格(分)
}

// UpdateItemRequest 修改商品，未传的字段保持不变
type UpdateItemRequest struct {
	Name     *string `json:"name"`
	Price    *int64  `json:"price"`
	IsActive *bool   `json:"is_active"`
}

// ListItemsQuery 商品列表查询参数
type ListItemsQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Keyword  string `form:"keyword"`
}
