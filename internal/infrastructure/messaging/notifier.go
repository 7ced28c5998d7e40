package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/readingroom/pkg/metrics"
)

// Notifier 消费结算完成事件,向买家发送订单确认
// 通知渠道由Sender决定,默认只写日志
type Notifier struct {
	queue  string
	sender Sender
	log    logrus.FieldLogger
}

// Sender 通知发送渠道
type Sender interface {
	Send(event OrderCompletedEvent) error
}

// LogSender 把通知写入日志
type LogSender struct {
	Log logrus.FieldLogger
}

func (s LogSender) Send(event OrderCompletedEvent) error {
	s.Log.WithFields(logrus.Fields{
		"order_no": event.OrderNo,
		"user_id":  event.UserID,
		"total":    event.Total,
		"items":    len(event.Items),
	}).Info("订单确认通知已发送")
	return nil
}

// NewNotifier 创建通知消费者
func NewNotifier(queue string, sender Sender, log logrus.FieldLogger) *Notifier {
	metrics.InitMetrics()
	return &Notifier{queue: queue, sender: sender, log: log}
}

// Handle 处理一条消息,返回错误时消息重新入队
// 格式错误的消息直接丢弃(返回nil),重新入队也无法处理
func (n *Notifier) Handle(body []byte) error {
	start := time.Now()
	defer func() {
		metrics.MessageProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	var event OrderCompletedEvent
	if err := json.Unmarshal(body, &event); err != nil || event.OrderNo == "" {
		metrics.MessagesConsumedTotal.WithLabelValues(n.queue, "failure").Inc()
		n.log.WithError(err).Warn("丢弃无法解析的订单事件")
		return nil
	}

	if err := n.sender.Send(event); err != nil {
		metrics.MessagesConsumedTotal.WithLabelValues(n.queue, "failure").Inc()
		return fmt.Errorf("发送订单通知失败[%s]: %w", event.OrderNo, err)
	}

	metrics.MessagesConsumedTotal.WithLabelValues(n.queue, "success").Inc()
	return nil
}
