// notifier 消费order.completed事件,向买家发送订单确认
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xiebiao/readingroom/internal/infrastructure/config"
	"github.com/xiebiao/readingroom/internal/infrastructure/messaging"
	"github.com/xiebiao/readingroom/pkg/logger"
	"github.com/xiebiao/readingroom/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("mq.enabled为false,notifier无事可做")
	}

	lg, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", cfg.MQ.Queue,
		[]string{messaging.RoutingKeyOrderCompleted}, lg)
	if err != nil {
		lg.WithError(err).Fatal("连接MQ失败")
	}
	defer consumer.Close()

	notifier := messaging.NewNotifier(cfg.MQ.Queue, messaging.LogSender{Log: lg}, lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.WithField("queue", cfg.MQ.Queue).Info("notifier启动")
	if err := consumer.Consume(ctx, notifier.Handle); err != nil && ctx.Err() == nil {
		lg.WithError(err).Fatal("消费中断")
	}
	lg.Info("notifier已退出")
}
