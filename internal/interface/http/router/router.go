// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/readingroom/internal/interface/http/handler"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/pkg/response"
)

// Options 路由选项
type Options struct {
	Mode           string // debug | release | test
	MetricsEnabled bool
	MetricsPath    string
	SwaggerEnabled bool
	TracerName     string
}

// Handlers 所有HTTP处理器
type Handlers struct {
	Book     *handler.BookHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

// New 创建Gin引擎并注册全部路由
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, log logrus.FieldLogger) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if opts.TracerName != "" {
		r.Use(middleware.Tracing(opts.TracerName))
	}
	r.Use(middleware.Logger(log))
	if opts.MetricsEnabled {
		r.Use(middleware.Metrics())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if opts.SwaggerEnabled {
		// 访问 /swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		// 图书目录(查询公开,维护需管理员)
		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)

			admin := books.Group("", auth.RequireAuth(), auth.RequireAdmin())
			admin.POST("", h.Book.PublishBook)
			admin.PUT("/:id", h.Book.UpdateBook)
			admin.POST("/:id/restock", h.Book.Restock)
			admin.PUT("/:id/stock", h.Book.AdjustStock)
			admin.DELETE("/:id", h.Book.DeleteBook)
		}

		authorized := v1.Group("", auth.RequireAuth())
		{
			cart := authorized.Group("/cart")
			{
				cart.GET("", h.Cart.GetCart)
				cart.DELETE("", h.Cart.ClearCart)
				cart.PUT("/items/:book_id", h.Cart.UpdateItem)
				cart.DELETE("/items/:book_id", h.Cart.RemoveItem)
			}

			authorized.POST("/checkout", h.Checkout.Checkout)

			orders := authorized.Group("/orders")
			{
				orders.GET("", h.Order.ListMyOrders)
				orders.GET("/:order_no", h.Order.GetOrder)
			}
		}

		admin := v1.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.GET("/orders", h.Order.ListAllOrders)
			admin.DELETE("/orders/:id", h.Order.DeleteOrder)
		}
	}

	return r
}
