package cart

import (
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

var (
	// ErrInvalidQuantity 数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInsufficientStock 加入购物车时库存不足(建议性检查,以结算时的预留为准)
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeInvalidParams, "购物车为空")

	// ErrItemNotFound 购物车中没有该图书
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车中没有该图书")
)
