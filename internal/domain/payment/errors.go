package payment

import (
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// 字段校验错误,Message即具体原因
var (
	ErrCardNumberEmpty  = apperrors.New(apperrors.ErrCodeInvalidParams, "卡号不能为空")
	ErrCardNumberFormat = apperrors.New(apperrors.ErrCodeInvalidParams, "卡号必须为16位数字")
	ErrExpiryEmpty      = apperrors.New(apperrors.ErrCodeInvalidParams, "有效期不能为空")
	ErrExpiryFormat     = apperrors.New(apperrors.ErrCodeInvalidParams, "有效期格式必须为MM/YY")
	ErrExpired          = apperrors.New(apperrors.ErrCodeInvalidParams, "卡片已过期")
	ErrCVVEmpty         = apperrors.New(apperrors.ErrCodeInvalidParams, "CVV不能为空")
	ErrCVVFormat        = apperrors.New(apperrors.ErrCodeInvalidParams, "CVV必须为3位数字")
)

// ErrPaymentRejected 授权被拒绝
var ErrPaymentRejected = apperrors.ErrPaymentRejected

// rejected 将具体原因包装为PaymentRejected
func rejected(reason error, message string) error {
	return apperrors.WithCode(apperrors.ErrCodePaymentRejected, reason, message)
}

// reason 取出校验错误的可展示原因
func reason(err error) string {
	return apperrors.GetAppError(err).Message
}
