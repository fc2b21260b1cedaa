package order

import (
	"strings"
	"time"

	"github.com/xiebiao/storefront/pkg/money"
)

// MaxLineQuantity 单行购买数量上限
const MaxLineQuantity = 9999

// Status 订单状态
type Status string

const (
	StatusPending   Status = "pending"   // 待确认
	StatusConfirmed Status = "confirmed" // 已确认
	StatusDelivered Status = "delivered" // 已送达
	StatusCancelled Status = "cancelled" // 已取消
)

// transitions 合法的状态流转，delivered和cancelled是终态
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus 解析状态字符串，未知值返回ErrUnknownStatus
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo 按状态图判断能否流转到target
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionPolicy 状态流转策略
type TransitionPolicy int

const (
	// PolicyStrict 只允许状态图中的边
	PolicyStrict TransitionPolicy = iota
	// PolicyPermissive 允许任意已知状态之间切换
	PolicyPermissive
)

// Address 收货地址
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Validate 四个字段都必须非空
func (a Address) Validate() error {
	for _, f := range []string{a.Street, a.City, a.State, a.PostalCode} {
		if strings.TrimSpace(f) == "" {
			return ErrIncompleteAddress
		}
	}
	return nil
}

// Customer 下单时的买家快照
// Name/Email取自下单时的账户信息，Phone/Address取自下单请求，之后不随账户变化
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Line 订单明细
// ItemName和UnitPrice是下单时的快照，Subtotal = UnitPrice × Quantity
type Line struct {
	ID        uint   `json:"id"`
	OrderID   uint   `json:"-"`
	ItemRef   uint   `json:"item_ref"`
	ItemName  string `json:"item_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// LineInput 创建订单时的明细输入
type LineInput struct {
	ItemRef   uint
	ItemName  string
	UnitPrice int64
	Quantity  int
}

// Order 订单（聚合根）
// 除Status外创建后不可变；TotalAmount在创建时计算一次并存储
type Order struct {
	ID          uint      `json:"id"`
	OrderNo     string    `json:"order_no"`
	UserID      uint      `json:"user_id"`
	Customer    Customer  `json:"customer"`
	Lines       []Line    `json:"lines"`
	TotalAmount int64     `json:"total_amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewOrder 创建订单（工厂方法）
// 校验明细和买家信息，计算小计与总金额；订单号由调用方分配
func NewOrder(userID uint, customer Customer, inputs []LineInput) (*Order, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyLines
	}
	if err := customer.Address.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, ErrMissingPhone
	}

	lines := make([]Line, len(inputs))
	var total int64
	for i, in := range inputs {
		if in.Quantity < 1 || in.Quantity > MaxLineQuantity {
			return nil, ErrInvalidQuantity
		}
		if in.UnitPrice < 0 {
			return nil, ErrInvalidUnitPrice
		}
		if strings.TrimSpace(in.ItemName) == "" {
			return nil, ErrInvalidItemName
		}
		subtotal, ok := money.Mul(in.UnitPrice, in.Quantity)
		if !ok {
			return nil, ErrAmountOverflow
		}
		if total, ok = money.Add(total, subtotal); !ok {
			return nil, ErrAmountOverflow
		}
		lines[i] = Line{
			ItemRef:   in.ItemRef,
			ItemName:  in.ItemName,
			UnitPrice: in.UnitPrice,
			Quantity:  in.Quantity,
			Subtotal:  subtotal,
		}
	}

	now := time.Now()
	return &Order{
		UserID:      userID,
		Customer:    customer,
		Lines:       lines,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TransitionTo 状态流转
func (o *Order) TransitionTo(target Status, policy TransitionPolicy) error {
	if _, ok := transitions[target]; !ok {
		return ErrUnknownStatus
	}
	if policy == PolicyStrict && !o.Status.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// CalculateTotal 按明细重新计算总金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}

// ItemCount 商品件数合计
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// IsOwnedBy 订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
