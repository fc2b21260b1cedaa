package handler

import (
	"github.com/gin-gonic/gin"

	appwishlist "github.com/xiebiao/storefront/internal/application/wishlist"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// WishlistHandler 收藏夹HTTP处理器
type WishlistHandler struct {
	wishlistService *appwishlist.Service
}

// NewWishlistHandler 创建收藏夹处理器
func NewWishlistHandler(wishlistService *appwishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Get 查看收藏夹
// @Summary      查看收藏夹
// @Tags         收藏夹
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appwishlist.View}
// @Router       /wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	view, err := h.wishlistService.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Add 加入收藏
// @Summary      加入收藏
// @Tags         收藏夹
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddWishlistRequest true "商品ID"
// @Success      200 {object} response.Response{data=appwishlist.View}
// @Failure      404 {object} response.Response "商品不存在"
// @Failure      409 {object} response.Response "已在收藏夹中"
// @Router       /wishlist [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	var req dto.AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.wishlistService.Add(c.Request.Context(), middleware.MustGetUserID(c), req.ItemRef)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Remove 取消收藏
// @Summary      取消收藏
// @Tags         收藏夹
// @Produce      json
// @Security     BearerAuth
// @Param        itemRef path int true "商品ID"
// @Success      200 {object} response.Response{data=appwishlist.View}
// @Router       /wishlist/{itemRef} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	itemRef, err := uintParam(c, "itemRef")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.wishlistService.Remove(c.Request.Context(), middleware.MustGetUserID(c), itemRef)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}
