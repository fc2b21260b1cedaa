package order

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 订单领域错误
var (
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrUnknownStatus           = apperrors.New(apperrors.ErrCodeInvalidStatus, "未知的订单状态")
	ErrConcurrentUpdate        = apperrors.New(apperrors.ErrCodeConcurrentUpdate, "订单已被其他操作修改，请刷新后重试")

	ErrOrderNoConflict = apperrors.New(apperrors.ErrCodeOrderNoConflict, "订单号生成冲突，请重试")

	ErrEmptyLines        = apperrors.New(apperrors.ErrCodeEmptyOrderLines, "订单明细不能为空")
	ErrInvalidQuantity   = apperrors.New(apperrors.ErrCodeInvalidQuantity, "购买数量应为1-9999")
	ErrInvalidUnitPrice  = apperrors.New(apperrors.ErrCodeInvalidParams, "商品单价不合法")
	ErrInvalidItemName   = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")
	ErrIncompleteAddress = apperrors.New(apperrors.ErrCodeInvalidAddress, "收货地址不完整（街道、城市、省份、邮编均为必填）")
	ErrMissingPhone      = apperrors.New(apperrors.ErrCodeInvalidPhone, "联系电话不能为空")
	ErrItemNotInCart     = apperrors.New(apperrors.ErrCodeItemNotInCart, "结算的商品不在购物车中")
	ErrItemUnavailable   = apperrors.New(apperrors.ErrCodeItemUnavailable, "商品已下架，无法下单")
	ErrAmountOverflow    = apperrors.New(apperrors.ErrCodeAmountOverflow, "订单金额超出范围")
)
