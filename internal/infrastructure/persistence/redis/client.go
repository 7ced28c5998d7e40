package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/readingroom/internal/infrastructure/config"
	"github.com/xiebiao/readingroom/pkg/metrics"
)

// NewClient 创建购物车使用的Redis客户端
// 连接时Ping一次,所有命令耗时记录到redis_command_duration_seconds
func NewClient(cfg *config.Config, log logrus.FieldLogger) (*redis.Client, error) {
	metrics.InitMetrics()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	client.AddHook(&metricsHook{log: log})

	ctx := context.Background()
	if cfg.Redis.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Redis.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	log.WithFields(logrus.Fields{
		"addr": cfg.Redis.Addr(),
		"db":   cfg.Redis.DB,
	}).Info("Redis连接成功")
	return client, nil
}

// metricsHook 记录命令耗时,慢命令打warn日志
type metricsHook struct {
	log logrus.FieldLogger
}

const slowCommandThreshold = 100 * time.Millisecond

var _ redis.Hook = (*metricsHook)(nil)

func (h *metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.log.WithError(err).WithField("addr", addr).Warn("Redis建立连接失败")
		}
		return conn, err
	}
}

func (h *metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(cmd.Name(), time.Since(start), err)
		return err
	}
}

// ProcessPipelineHook 整个管道(含MULTI/EXEC)按一次pipeline记录
func (h *metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.observe("pipeline", time.Since(start), err)
		return err
	}
}

func (h *metricsHook) observe(command string, elapsed time.Duration, err error) {
	result := "success"
	// key不存在不算失败
	if err != nil && !errors.Is(err, redis.Nil) {
		result = "failure"
	}
	metrics.RedisCommandDuration.WithLabelValues(command, result).Observe(elapsed.Seconds())

	if elapsed > slowCommandThreshold {
		h.log.WithFields(logrus.Fields{
			"command": command,
			"elapsed": elapsed.String(),
		}).Warn("Redis慢命令")
	}
}
