package order

import (
	bookapp "github.com/xiebiao/readingroom/internal/application/book"
	"github.com/xiebiao/readingroom/internal/domain/order"
)

// OrderView 订单展示DTO,字段覆盖订单导出所需的全部信息
type OrderView struct {
	ID        uint            `json:"id"`
	OrderNo   string          `json:"order_no"`
	UserID    uint            `json:"user_id"`
	OrderDate string          `json:"order_date"`
	Total     int64           `json:"total"`
	TotalYuan string          `json:"total_yuan"`
	Items     []OrderItemView `json:"items"`
}

// OrderItemView 订单明细DTO
type OrderItemView struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Subtotal int64  `json:"subtotal"`
}

// ListOrdersResponse 订单分页结果
type ListOrdersResponse struct {
	List     []*OrderView `json:"list"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ToView 订单实体转DTO
func ToView(o *order.Order) *OrderView {
	items := make([]OrderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemView{
			BookID:   item.BookID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		}
	}
	return &OrderView{
		ID:        o.ID,
		OrderNo:   o.OrderNo,
		UserID:    o.UserID,
		OrderDate: o.OrderDate.Format("2006-01-02 15:04:05"),
		Total:     o.Total,
		TotalYuan: formatPrice(o.Total),
		Items:     items,
	}
}

func toListResponse(orders []*order.Order, total int64, page, pageSize int) *ListOrdersResponse {
	list := make([]*OrderView, len(orders))
	for i, o := range orders {
		list[i] = ToView(o)
	}
	return &ListOrdersResponse{List: list, Total: total, Page: page, PageSize: pageSize}
}

// formatPrice 格式化价格(分→元)
func formatPrice(fen int64) string {
	return bookapp.FormatPrice(fen)
}
