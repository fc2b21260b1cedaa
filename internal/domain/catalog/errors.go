package catalog

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 商品领域错误
var (
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "商品不存在")
	ErrInvalidName  = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称长度应为1-200个字符")
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "商品价格不合法")
)
