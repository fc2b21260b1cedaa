package wishlist

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var ErrDuplicateEntry = apperrors.New(apperrors.ErrCodeWishlistDuplicate, "商品已在收藏夹中")
