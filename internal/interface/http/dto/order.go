package dto

// AddressRequest 收货地址
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// OrderLineRequest 下单明细
// 开启价格校验时item_name和unit_price会被忽略
type OrderLineRequest struct {
	ItemRef   uint   `json:"item_ref"`
	ItemName  string `json:"item_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest 下单请求
// 客户端传的合计金额不参与计算，总金额始终由服务端算出
type CreateOrderRequest struct {
	Lines   []OrderLineRequest `json:"lines"`
	Address AddressRequest     `json:"address"`
	Phone   string             `json:"phone"`
}

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrdersQuery 管理端订单查询参数
type ListOrdersQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
