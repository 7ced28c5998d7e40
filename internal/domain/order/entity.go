package order

import (
	"time"
)

// Order 订单(聚合根)
// 订单是结算完成时的不可变快照: 落库后只允许管理员删除,不存在状态流转
type Order struct {
	ID        uint
	OrderNo   string    // 订单号(业务主键,全局唯一)
	UserID    uint      // 买家用户ID
	OrderDate time.Time // 下单时间
	Total     int64     // 订单总金额(分) = Σ 数量×单价
	Items     []OrderItem
}

// OrderItem 订单明细
// Title和Price都是下单时的快照,图书后续改名改价不影响历史订单
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Title    string // 下单时的书名
	Quantity int    // 购买数量
	Price    int64  // 下单时的单价(分)
}

// Subtotal 明细小计
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// NewOrder 创建订单快照,总金额由明细计算得出
func NewOrder(orderNo string, userID uint, items []OrderItem, orderDate time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.Price < 0 {
			return nil, ErrInvalidPrice
		}
	}

	o := &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		OrderDate: orderDate,
		Items:     items,
	}
	o.Total = o.CalculateTotal()
	return o, nil
}

// CalculateTotal 根据明细计算总金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// TotalQuantity 总册数
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
