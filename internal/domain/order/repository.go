package order

import (
	"context"
)

// Repository 订单仓储接口
// Create在同一事务中写入订单与明细(事务通过context传递)
type Repository interface {
	// Create 创建订单(包含明细),成功后回填ID
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单(包含明细)
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// ListByUserID 用户订单列表,按下单时间倒序
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// ListAll 全部订单(管理员),按下单时间倒序
	ListAll(ctx context.Context, page, pageSize int) ([]*Order, int64, error)

	// Delete 删除订单及明细(管理员)
	Delete(ctx context.Context, id uint) error
}
