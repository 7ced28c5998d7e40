package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/readingroom/internal/application/cart"
	"github.com/xiebiao/readingroom/internal/interface/http/dto"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	getCart    *appcart.GetCartUseCase
	updateItem *appcart.UpdateItemUseCase
	removeItem *appcart.RemoveItemUseCase
	clearCart  *appcart.ClearCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	getCart *appcart.GetCartUseCase,
	updateItem *appcart.UpdateItemUseCase,
	removeItem *appcart.RemoveItemUseCase,
	clearCart *appcart.ClearCartUseCase,
) *CartHandler {
	return &CartHandler{
		getCart:    getCart,
		updateItem: updateItem,
		removeItem: removeItem,
		clearCart:  clearCart,
	}
}

// GetCart 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appcart.CartView}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.getCart.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem 加入购物车或修改数量
// @Summary      加入购物车/修改数量
// @Description  数量为覆盖而非累加;超过当前库存时拒绝
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Param        request body dto.UpdateCartItemRequest true "数量"
// @Success      200 {object} response.Response
// @Failure      409 {object} response.Response "库存不足"
// @Router       /api/v1/cart/items/{book_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	bookID, ok := uintParam(c, "book_id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.updateItem.Execute(c.Request.Context(), middleware.MustGetUserID(c), bookID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveItem 移除条目
// @Summary      从购物车移除
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "购物车中没有该图书"
// @Router       /api/v1/cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, ok := uintParam(c, "book_id")
	if !ok {
		return
	}
	if err := h.removeItem.Execute(c.Request.Context(), middleware.MustGetUserID(c), bookID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearCart 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.clearCart.Execute(c.Request.Context(), middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
