package catalog

import (
	"strings"
	"time"
)

// 价格上下限（分）
const (
	MinPrice int64 = 0
	MaxPrice int64 = 99_999_999
)

// Item 商品（目录项）
// 价格以"分"为单位存储，避免浮点精度问题。库存只有上下架这一个布尔维度。
type Item struct {
	ID        uint
	Name      string
	Price     int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem 创建商品，新商品默认上架
func NewItem(name string, price int64) (*Item, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Item{
		Name:      name,
		Price:     price,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename 修改名称
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	i.Name = name
	i.UpdatedAt = time.Now()
	return nil
}

// ChangePrice 调价
// 已加入购物车的价格快照和历史订单都不受影响
func (i *Item) ChangePrice(price int64) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	i.Price = price
	i.UpdatedAt = time.Now()
	return nil
}

// SetActive 上架/下架
func (i *Item) SetActive(active bool) {
	i.IsActive = active
	i.UpdatedAt = time.Now()
}

func validateName(name string) error {
	if name == "" || len([]rune(name)) > 200 {
		return ErrInvalidName
	}
	return nil
}

func validatePrice(price int64) error {
	if price < MinPrice || price > MaxPrice {
		return ErrInvalidPrice
	}
	return nil
}
