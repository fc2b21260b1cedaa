package cart

import (
	"errors"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 购物车领域错误
var (
	ErrCartNotFound     = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")
	ErrLineNotFound     = apperrors.New(apperrors.ErrCodeCartLineNotFound, "购物车中没有该商品")
	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidQuantity, "商品数量应为1-9999")
	ErrInvalidUnitPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "商品单价不合法")
	ErrAmountOverflow   = apperrors.New(apperrors.ErrCodeAmountOverflow, "购物车金额超出范围")
)

// ErrCacheMiss 缓存中没有该用户的购物车
var ErrCacheMiss = errors.New("cart: cache miss")
