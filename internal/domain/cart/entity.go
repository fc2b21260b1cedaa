package cart

import (
	"time"

	"github.com/xiebiao/storefront/pkg/money"
)

// MaxLineQuantity 单行数量上限，合并后也不能超过
const MaxLineQuantity = 9999

// Line 购物车行
// UnitPrice是加入购物车时的商品价格快照，后续调价不会刷新
type Line struct {
	ItemRef   uint  `json:"item_ref"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// Subtotal 行小计（分）
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart 购物车（聚合根）
// 每个用户最多一个购物车；Items按加入顺序排列，同一ItemRef只出现一次。
type Cart struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Items       []Line    `json:"items"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCart 创建空购物车
func NewCart(userID uint) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Items:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Empty 用户还没有购物车时返回给客户端的空形态，不落库
func Empty(userID uint) *Cart {
	return &Cart{UserID: userID, Items: []Line{}}
}

// AddItem 加入商品
// 已有该商品时只累加数量，保留第一次加入时的价格快照；否则追加新行
func (c *Cart) AddItem(itemRef uint, quantity int, unitPrice int64) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return ErrInvalidUnitPrice
	}

	i := c.indexOf(itemRef)
	next := Line{ItemRef: itemRef, Quantity: quantity, UnitPrice: unitPrice}
	if i >= 0 {
		next = c.Items[i]
		next.Quantity += quantity
		if next.Quantity > MaxLineQuantity {
			return ErrInvalidQuantity
		}
	}
	if err := c.checkAmount(i, next); err != nil {
		return err
	}

	if i >= 0 {
		c.Items[i] = next
	} else {
		c.Items = append(c.Items, next)
	}
	c.touch()
	return nil
}

// UpdateQuantity 覆盖数量，价格快照不变
func (c *Cart) UpdateQuantity(itemRef uint, quantity int) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}

	i := c.indexOf(itemRef)
	if i < 0 {
		return ErrLineNotFound
	}
	next := c.Items[i]
	next.Quantity = quantity
	if err := c.checkAmount(i, next); err != nil {
		return err
	}
	c.Items[i] = next
	c.touch()
	return nil
}

// RemoveItem 移除商品，不存在时什么都不做
// 返回是否真的删除了一行
func (c *Cart) RemoveItem(itemRef uint) bool {
	i := c.indexOf(itemRef)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
	return true
}

// Clear 清空所有行，购物车本身保留
func (c *Cart) Clear() {
	c.Items = []Line{}
	c.touch()
}

// Line 查找商品对应的行
func (c *Cart) Line(itemRef uint) (Line, bool) {
	if i := c.indexOf(itemRef); i >= 0 {
		return c.Items[i], true
	}
	return Line{}, false
}

// CalculateTotal 按行实时计算总金额
func (c *Cart) CalculateTotal() int64 {
	var total int64
	for _, l := range c.Items {
		total += l.Subtotal()
	}
	return total
}

// TotalItemCount 商品件数合计
func (c *Cart) TotalItemCount() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// IsEmpty 是否没有任何行
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// checkAmount 第i行换成next（i<0表示追加）之后的小计和总金额不能溢出
func (c *Cart) checkAmount(i int, next Line) error {
	total, ok := money.Mul(next.UnitPrice, next.Quantity)
	if !ok {
		return ErrAmountOverflow
	}
	for j, l := range c.Items {
		if j == i {
			continue
		}
		sub, ok := money.Mul(l.UnitPrice, l.Quantity)
		if !ok {
			return ErrAmountOverflow
		}
		if total, ok = money.Add(total, sub); !ok {
			return ErrAmountOverflow
		}
	}
	return nil
}

func (c *Cart) indexOf(itemRef uint) int {
	for i, l := range c.Items {
		if l.ItemRef == itemRef {
			return i
		}
	}
	return -1
}

// touch 每次变更后重算总金额，TotalAmount不接受外部传入
func (c *Cart) touch() {
	c.TotalAmount = c.CalculateTotal()
	c.UpdatedAt = time.Now()
}
