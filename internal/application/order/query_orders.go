package order

import (
	"context"

	"github.com/xiebiao/readingroom/internal/domain/order"
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// PageRequest 分页参数
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// ListMyOrdersUseCase 我的订单
type ListMyOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListMyOrdersUseCase 创建我的订单用例
func NewListMyOrdersUseCase(orderRepo order.Repository) *ListMyOrdersUseCase {
	return &ListMyOrdersUseCase{orderRepo: orderRepo}
}

func (uc *ListMyOrdersUseCase) Execute(ctx context.Context, userID uint, req PageRequest) (*ListOrdersResponse, error) {
	req = req.normalize()
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return toListResponse(orders, total, req.Page, req.PageSize), nil
}

// GetOrderUseCase 按订单号查询订单
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 只能查询自己的订单,管理员不受限
// 他人的订单按不存在处理,不暴露订单号是否有效
func (uc *GetOrderUseCase) Execute(ctx context.Context, userID uint, isAdmin bool, orderNo string) (*OrderView, error) {
	if orderNo == "" {
		return nil, apperrors.ErrInvalidParams
	}
	o, err := uc.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}
	return ToView(o), nil
}

// ListAllOrdersUseCase 全部订单(管理员)
type ListAllOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListAllOrdersUseCase 创建全部订单用例
func NewListAllOrdersUseCase(orderRepo order.Repository) *ListAllOrdersUseCase {
	return &ListAllOrdersUseCase{orderRepo: orderRepo}
}

func (uc *ListAllOrdersUseCase) Execute(ctx context.Context, req PageRequest) (*ListOrdersResponse, error) {
	req = req.normalize()
	orders, total, err := uc.orderRepo.ListAll(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return toListResponse(orders, total, req.Page, req.PageSize), nil
}

// DeleteOrderUseCase 删除订单(管理员)
// 删除只移除订单记录,不回补库存也不回退售出数
type DeleteOrderUseCase struct {
	orderRepo order.Repository
}

// NewDeleteOrderUseCase 创建删除用例
func NewDeleteOrderUseCase(orderRepo order.Repository) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{orderRepo: orderRepo}
}

func (uc *DeleteOrderUseCase) Execute(ctx context.Context, id uint) error {
	return uc.orderRepo.Delete(ctx, id)
}
