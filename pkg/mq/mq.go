// Package mq 基于RabbitMQ的消息发布与消费
//
// Publisher 负责声明Exchange并发布JSON消息
// Consumer  负责声明Queue、绑定RoutingKey并手动确认消费
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// publishChannel Publisher用到的Channel能力
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
	log      logrus.FieldLogger
}

// NewPublisher 连接RabbitMQ并声明持久化Exchange
func NewPublisher(url, exchange, exchangeType string, log logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	log.WithFields(logrus.Fields{"exchange": exchange, "type": exchangeType}).Info("消息发布者已创建")

	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish 发布JSON消息,消息持久化投递
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.log.WithField("routing_key", routingKey).Debug("消息已发布")
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     logrus.FieldLogger
}

// NewConsumer 声明Exchange与持久化Queue,并按routingKeys绑定
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, log logrus.FieldLogger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	fail := func(format string, err error) (*Consumer, error) {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf(format, err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		return fail("声明Exchange失败: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fail("绑定Queue失败: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"queue": q.Name, "routing_keys": routingKeys}).Info("消息消费者已创建")

	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log}, nil
}

// Consume 阻塞消费直到ctx取消
// handler返回错误时消息重新入队,成功则Ack
func (c *Consumer) Consume(ctx context.Context, handler func([]byte) error) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.log.WithField("queue", c.queue).Info("开始消费消息")

	for {
		select {
		case <-ctx.Done():
			c.log.WithField("queue", c.queue).Info("消费者退出")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			c.handleDelivery(msg, handler)
		}
	}
}

func (c *Consumer) handleDelivery(msg amqp.Delivery, handler func([]byte) error) {
	entry := c.log.WithField("routing_key", msg.RoutingKey)
	if err := handler(msg.Body); err != nil {
		entry.WithError(err).Warn("消息处理失败,重新入队")
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
	entry.Debug("消息处理成功")
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
