// Package money 金额运算，单位为分
// 购物车和订单的金额都不允许为负，越界时ok返回false而不是回绕
package money

import "math"

// Mul 单价×数量
func Mul(unitPrice int64, quantity int) (int64, bool) {
	q := int64(quantity)
	if unitPrice < 0 || q < 0 {
		return 0, false
	}
	if q != 0 && unitPrice > math.MaxInt64/q {
		return 0, false
	}
	return unitPrice * q, true
}

// Add 两个非负金额相加
func Add(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
