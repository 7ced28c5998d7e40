package dto

import (
	apporder "github.com/xiebiao/readingroom/internal/application/order"
)

// CheckoutRequest 结算请求
// 卡信息只用于本次校验,不记录日志也不落库
type CheckoutRequest struct {
	CardNumber     string `json:"card_number" example:"4111111111111111"`
	CardHolderName string `json:"card_holder_name" example:"Zhang San"`
	ExpiryDate     string `json:"expiry_date" example:"12/28"`
	CVV            string `json:"cvv" example:"123"`
}

// CheckoutResponse 结算成功响应
type CheckoutResponse struct {
	OrderNo      string              `json:"order_no" example:"ORD1699248000123456"`
	Total        int64               `json:"total" example:"1998"`
	TotalYuan    string              `json:"total_yuan" example:"19.98"`
	State        string              `json:"state" example:"completed"`
	PaymentToken string              `json:"payment_token" example:"PAY20261019103000000001"`
	Order        *apporder.OrderView `json:"order"`
}

// CheckoutAbortData 结算中止时随错误返回的补充信息
type CheckoutAbortData struct {
	Reason    string `json:"reason" example:"insufficient_stock"`
	BookID    uint   `json:"book_id,omitempty" example:"3"`
	State     string `json:"state" example:"aborted"`
	Retryable bool   `json:"retryable" example:"false"`
}
