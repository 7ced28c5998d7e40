// Package messaging 订单事件的发布与消费
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/readingroom/internal/domain/order"
	"github.com/xiebiao/readingroom/pkg/metrics"
)

// RoutingKeyOrderCompleted 结算完成事件的路由键
const RoutingKeyOrderCompleted = "order.completed"

// OrderCompletedEvent 结算完成事件
// 字段覆盖订单导出所需的全部信息: 订单号、用户、下单时间、总价、明细
type OrderCompletedEvent struct {
	EventID    string           `json:"event_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	OrderNo    string           `json:"order_no"`
	UserID     uint             `json:"user_id"`
	OrderDate  time.Time        `json:"order_date"`
	Total      int64            `json:"total"`
	Items      []OrderEventItem `json:"items"`
}

// OrderEventItem 事件中的订单明细
type OrderEventItem struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// NewOrderCompletedEvent 由订单快照构造事件
func NewOrderCompletedEvent(o *order.Order) OrderCompletedEvent {
	items := make([]OrderEventItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderEventItem{
			BookID:   item.BookID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return OrderCompletedEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		OrderDate:  o.OrderDate,
		Total:      o.Total,
		Items:      items,
	}
}

// Publisher 底层消息发布能力,*mq.Publisher满足该接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 订单事件发布者
type OrderEventPublisher struct {
	pub Publisher
	log logrus.FieldLogger
}

// NewOrderEventPublisher 创建订单事件发布者
func NewOrderEventPublisher(pub Publisher, log logrus.FieldLogger) *OrderEventPublisher {
	metrics.InitMetrics()
	return &OrderEventPublisher{pub: pub, log: log}
}

// PublishOrderCompleted 发布结算完成事件
func (p *OrderEventPublisher) PublishOrderCompleted(ctx context.Context, o *order.Order) error {
	event := NewOrderCompletedEvent(o)
	if err := p.pub.Publish(ctx, RoutingKeyOrderCompleted, event); err != nil {
		metrics.MessagesPublishedTotal.WithLabelValues(RoutingKeyOrderCompleted, "failure").Inc()
		return fmt.Errorf("发布订单事件失败: %w", err)
	}

	metrics.MessagesPublishedTotal.WithLabelValues(RoutingKeyOrderCompleted, "success").Inc()
	p.log.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"order_no": o.OrderNo,
	}).Debug("订单事件已发布")
	return nil
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCompleted(context.Context, *order.Order) error {
	return nil
}
