package inventory

import (
	"fmt"

	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// ErrInsufficientStock 库存不足(RejectedError可被errors.Is识别为该错误)
var ErrInsufficientStock = apperrors.ErrInsufficientStock

// RejectedError 预留被拒绝
// BookID是第一本库存不足的图书,Available是拒绝时观察到的可用库存
type RejectedError struct {
	BookID    uint
	Requested int
	Available int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("图书[%d]库存不足: 需要%d, 可用%d", e.BookID, e.Requested, e.Available)
}

func (e *RejectedError) Unwrap() error {
	return ErrInsufficientStock
}
