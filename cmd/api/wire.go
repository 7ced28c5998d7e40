//go:build wireinject
// +build wireinject

// Wire依赖注入配置,运行 `wire gen ./cmd/api` 生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	appbook "github.com/xiebiao/readingroom/internal/application/book"
	appcart "github.com/xiebiao/readingroom/internal/application/cart"
	"github.com/xiebiao/readingroom/internal/application/checkout"
	apporder "github.com/xiebiao/readingroom/internal/application/order"
	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/domain/cart"
	"github.com/xiebiao/readingroom/internal/infrastructure/config"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readingroom/internal/interface/http/handler"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/internal/interface/http/router"
)

// infrastructureSet 日志、数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	mysql.NewDB,
	redis.NewClient,
	provideEventPublisher,
)

// repositorySet 仓储与账本
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewLedger,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	provideCartStore,
	wire.Bind(new(cart.Store), new(*redis.CartStore)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
	provideEngine,
	provideAuthorizer,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewPublishBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewRestockUseCase,
	appbook.NewAdjustStockUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListBooksUseCase,
	appcart.NewGetCartUseCase,
	appcart.NewUpdateItemUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewClearCartUseCase,
	apporder.NewListMyOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListAllOrdersUseCase,
	apporder.NewDeleteOrderUseCase,
	provideCheckoutConfig,
	checkout.NewService,
)

// interfaceSet 中间件、处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewCheckoutHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouter,
)

// InitializeApp 组装整个应用,cleanup在进程退出前调用
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
