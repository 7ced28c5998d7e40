package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/readingroom/internal/application/checkout"
	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/domain/inventory"
	"github.com/xiebiao/readingroom/internal/domain/payment"
	"github.com/xiebiao/readingroom/internal/infrastructure/config"
	"github.com/xiebiao/readingroom/internal/infrastructure/messaging"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/internal/interface/http/router"
	"github.com/xiebiao/readingroom/pkg/jwt"
	"github.com/xiebiao/readingroom/pkg/logger"
	"github.com/xiebiao/readingroom/pkg/mq"
)

// App 组装完成的服务
type App struct {
	Engine *gin.Engine
	Config *config.Config
	Log    *logrus.Logger
}

func newApp(engine *gin.Engine, cfg *config.Config, log *logrus.Logger) *App {
	return &App{Engine: engine, Config: cfg, Log: log}
}

// provideLogger 从配置创建logger
func provideLogger(cfg *config.Config) (*logrus.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}

// provideCartStore 购物车存储,TTL来自cart.ttl
func provideCartStore(client *goredis.Client, cfg *config.Config) *redis.CartStore {
	return redis.NewCartStore(client, cfg.Cart.TTL)
}

// provideEngine 预留引擎,Finalize在数据库事务内执行
func provideEngine(ledger book.Ledger, tx *mysql.TxManager, log logrus.FieldLogger) *inventory.Engine {
	return inventory.NewEngine(ledger, log, inventory.WithTransactor(tx))
}

// provideAuthorizer 模拟授权器外包一层熔断器,换成真实网关时只需替换内层
func provideAuthorizer(cfg *config.Config, log logrus.FieldLogger) payment.Authorizer {
	return payment.NewGuardedAuthorizer(payment.NewSimulatedAuthorizer(), payment.BreakerSettings{
		Name:             "payment",
		MaxRequests:      cfg.Payment.MaxRequests,
		Interval:         cfg.Payment.Interval,
		Timeout:          cfg.Payment.Timeout,
		FailureThreshold: cfg.Payment.FailureThreshold,
	}, log)
}

// provideEventPublisher 未启用MQ时事件直接丢弃
func provideEventPublisher(cfg *config.Config, log logrus.FieldLogger) (checkout.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NoopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.WithError(err).Warn("关闭MQ连接失败")
		}
	}
	return messaging.NewOrderEventPublisher(pub, log), cleanup, nil
}

func provideCheckoutConfig(cfg *config.Config) checkout.Config {
	return checkout.Config{Timeout: cfg.Checkout.Timeout}
}

// provideRouter 创建Gin引擎并注册路由
func provideRouter(cfg *config.Config, h router.Handlers, auth *middleware.AuthMiddleware, log logrus.FieldLogger) *gin.Engine {
	opts := router.Options{
		Mode:           cfg.Server.Mode,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		SwaggerEnabled: cfg.Server.Mode != gin.ReleaseMode,
	}
	if cfg.Tracing.Enabled {
		opts.TracerName = cfg.Tracing.ServiceName
	}
	return router.New(opts, h, auth, log)
}
