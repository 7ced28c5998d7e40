package checkout

import (
	"fmt"

	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// Reason 结算中止原因
type Reason string

const (
	ReasonPaymentRejected    Reason = "payment_rejected"
	ReasonInsufficientStock  Reason = "insufficient_stock"
	ReasonBookNotFound       Reason = "book_not_found"
	ReasonPersistenceFailure Reason = "persistence_failure"
)

// AbortError 结算中止
// Err是带错误码的AppError,response层据此选择HTTP状态码;
// BookID仅在库存不足和图书不存在时有值
type AbortError struct {
	Reason Reason
	BookID uint
	From   State // 中止时所处的阶段
	Err    error
}

func (e *AbortError) Error() string {
	if e.BookID != 0 {
		return fmt.Sprintf("结算中止(%s, 图书%d): %v", e.Reason, e.BookID, e.Err)
	}
	return fmt.Sprintf("结算中止(%s): %v", e.Reason, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Retryable 只有持久化失败可以原样重试
func (e *AbortError) Retryable() bool {
	return apperrors.IsRetryable(e.Err)
}
