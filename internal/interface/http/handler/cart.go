package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// CartHandler 购物车HTTP处理器，所有接口都作用于当前登录用户的购物车
type CartHandler struct {
	cartService *appcart.Service
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartService *appcart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Description  没有购物车时返回空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Failure      401 {object} response.Response "未登录"
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  同一商品合并数量，单价保留第一次加入时的价格
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "商品和数量"
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Failure      400 {object} response.Response "数量不合法"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.cartService.AddItem(c.Request.Context(), middleware.MustGetUserID(c), req.ItemRef, quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateQuantity 修改数量
// @Summary      修改购物车商品数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemRef path int true "商品ID"
// @Param        request body dto.UpdateCartItemRequest true "新数量"
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Failure      400 {object} response.Response "数量小于1"
// @Failure      404 {object} response.Response "购物车中没有该商品"
// @Router       /cart/{itemRef} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	itemRef, err := uintParam(c, "itemRef")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.MustGetUserID(c), itemRef, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveItem 移除商品
// @Summary      移除购物车商品
// @Description  商品不在购物车中时不报错
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        itemRef path int true "商品ID"
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Router       /cart/{itemRef} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemRef, err := uintParam(c, "itemRef")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), middleware.MustGetUserID(c), itemRef)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Clear 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.cartService.ClearCart(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}
