package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	bookapp "github.com/xiebiao/readingroom/internal/application/book"
	"github.com/xiebiao/readingroom/internal/application/checkout"
	apporder "github.com/xiebiao/readingroom/internal/application/order"
	"github.com/xiebiao/readingroom/internal/domain/payment"
	"github.com/xiebiao/readingroom/internal/interface/http/dto"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/pkg/response"
)

// CheckoutHandler 结算HTTP处理器
type CheckoutHandler struct {
	service *checkout.Service
}

// NewCheckoutHandler 创建结算处理器
func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Checkout 结算当前购物车
// @Summary      结算
// @Description  校验支付信息,全有或全无地预留库存并生成订单;中止时data中给出原因
// @Tags         结算
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "支付信息"
// @Success      200 {object} response.Response{data=dto.CheckoutResponse}
// @Failure      400 {object} response.Response "购物车为空"
// @Failure      402 {object} response.Response{data=dto.CheckoutAbortData} "支付被拒绝"
// @Failure      409 {object} response.Response{data=dto.CheckoutAbortData} "库存不足"
// @Failure      503 {object} response.Response{data=dto.CheckoutAbortData} "保存失败,可重试"
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), checkout.Command{
		UserID: middleware.MustGetUserID(c),
		Payment: payment.Attempt{
			CardNumber:     req.CardNumber,
			CardHolderName: req.CardHolderName,
			ExpiryDate:     req.ExpiryDate,
			CVV:            req.CVV,
		},
	})
	if err != nil {
		var abort *checkout.AbortError
		if errors.As(err, &abort) {
			response.ErrorWithData(c, err, &dto.CheckoutAbortData{
				Reason:    string(abort.Reason),
				BookID:    abort.BookID,
				State:     checkout.StateAborted.String(),
				Retryable: abort.Retryable(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CheckoutResponse{
		OrderNo:      result.Order.OrderNo,
		Total:        result.Order.Total,
		TotalYuan:    bookapp.FormatPrice(result.Order.Total),
		State:        result.State.String(),
		PaymentToken: result.PaymentToken,
		Order:        apporder.ToView(result.Order),
	})
}
