package order

import (
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidPrice 单价不合法
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")

	// ErrDuplicateOrderNo 订单号冲突
	ErrDuplicateOrderNo = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号重复")
)
