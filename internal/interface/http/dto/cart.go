package dto

// AddCartItemRequest 加入购物车，quantity缺省为1
type AddCartItemRequest struct {
	ItemRef  uint `json:"item_ref" binding:"required"`
	Quantity *int `json:"quantity"`
}

// UpdateCartItemRequest 修改数量
// 用指针区分"未传"和"传了0"，0交给领域层返回数量不合法
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
