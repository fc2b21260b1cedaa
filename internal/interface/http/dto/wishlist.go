package dto

// AddWishlistRequest 加入收藏
type AddWishlistRequest struct {
	ItemRef uint `json:"item_ref" binding:"required"`
}
