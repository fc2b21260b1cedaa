package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/storefront/internal/application/catalog"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// CatalogHandler 商品目录HTTP处理器
type CatalogHandler struct {
	listItemsUseCase   *appcatalog.ListItemsUseCase
	getItemUseCase     *appcatalog.GetItemUseCase
	publishItemUseCase *appcatalog.PublishItemUseCase
	updateItemUseCase  *appcatalog.UpdateItemUseCase
}

// NewCatalogHandler 创建商品处理器
func NewCatalogHandler(
	listItemsUseCase *appcatalog.ListItemsUseCase,
	getItemUseCase *appcatalog.GetItemUseCase,
	publishItemUseCase *appcatalog.PublishItemUseCase,
	updateItemUseCase *appcatalog.UpdateItemUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		listItemsUseCase:   listItemsUseCase,
		getItemUseCase:     getItemUseCase,
		publishItemUseCase: publishItemUseCase,
		updateItemUseCase:  updateItemUseCase,
	}
}

// ListItems 商品列表
// @Summary      商品列表
// @Description  匿名用户只能看到上架商品，管理员可以看到全部
// @Tags         商品
// @Produce      json
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Param        keyword   query string false "名称关键词"
// @Success      200 {object} response.Response{data=appcatalog.ListItemsResponse}
// @Router       /catalog/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var q dto.ListItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.listItemsUseCase.Execute(c.Request.Context(), appcatalog.ListItemsRequest{
		Page:            q.Page,
		PageSize:        q.PageSize,
		Keyword:         q.Keyword,
		IncludeInactive: middleware.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=appcatalog.ItemView}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /catalog/items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.getItemUseCase.Execute(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// PublishItem 商品上架（管理员）
// @Summary      商品上架
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateItemRequest true "商品信息"
// @Success      201 {object} response.Response{data=appcatalog.ItemView}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Router       /catalog/items [post]
func (h *CatalogHandler) PublishItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.publishItemUseCase.Execute(c.Request.Context(), appcatalog.PublishItemRequest{
		Name:  req.Name,
		Price: *req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateItem 修改商品（管理员）
// @Summary      修改商品
// @Description  改名、调价、上下架；已加入购物车的价格和历史订单不受影响
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateItemRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appcatalog.ItemView}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /catalog/items/{id} [patch]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	view, err := h.updateItemUseCase.Execute(c.Request.Context(), id, appcatalog.UpdateItemRequest{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}
