package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/readingroom/internal/application/order"
	"github.com/xiebiao/readingroom/internal/interface/http/dto"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/pkg/response"
)

// OrderHandler 订单HTTP处理器
// 订单只能通过结算生成,这里只有查询与管理员删除
type OrderHandler struct {
	listMyOrders  *apporder.ListMyOrdersUseCase
	getOrder      *apporder.GetOrderUseCase
	listAllOrders *apporder.ListAllOrdersUseCase
	deleteOrder   *apporder.DeleteOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	listMyOrders *apporder.ListMyOrdersUseCase,
	getOrder *apporder.GetOrderUseCase,
	listAllOrders *apporder.ListAllOrdersUseCase,
	deleteOrder *apporder.DeleteOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		listMyOrders:  listMyOrders,
		getOrder:      getOrder,
		listAllOrders: listAllOrders,
		deleteOrder:   deleteOrder,
	}
}

// ListMyOrders 我的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=apporder.ListOrdersResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listMyOrders.Execute(c.Request.Context(), middleware.MustGetUserID(c),
		apporder.PageRequest{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 订单详情
// @Summary      按订单号查询
// @Description  只能查询自己的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        order_no path string true "订单号"
// @Success      200 {object} response.Response{data=apporder.OrderView}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{order_no} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.getOrder.Execute(c.Request.Context(), middleware.MustGetUserID(c),
		middleware.IsAdmin(c), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListAllOrders 全部订单
// @Summary      全部订单(管理员)
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=apporder.ListOrdersResponse}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/admin/orders [get]
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listAllOrders.Execute(c.Request.Context(), apporder.PageRequest{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteOrder 删除订单
// @Summary      删除订单(管理员)
// @Description  只删除订单记录,不回补库存
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/admin/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.deleteOrder.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
