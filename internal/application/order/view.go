package order

import (
	"time"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// OrderLineView 订单明细
type OrderLineView struct {
	ItemRef   uint   `json:"item_ref"`
	ItemName  string `json:"item_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderView 订单详情
type OrderView struct {
	ID          uint            `json:"id"`
	OrderNo     string          `json:"order_no"`
	UserID      uint            `json:"user_id"`
	Customer    order.Customer  `json:"customer"`
	Lines       []OrderLineView `json:"lines"`
	TotalAmount int64           `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toOrderView(o *order.Order) *OrderView {
	v := &OrderView{
		ID:          o.ID,
		OrderNo:     o.OrderNo,
		UserID:      o.UserID,
		Customer:    o.Customer,
		Lines:       make([]OrderLineView, len(o.Lines)),
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for i, l := range o.Lines {
		v.Lines[i] = OrderLineView{
			ItemRef:   l.ItemRef,
			ItemName:  l.ItemName,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		}
	}
	return v
}

func toOrderViews(orders []*order.Order) []*OrderView {
	views := make([]*OrderView, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o)
	}
	return views
}
