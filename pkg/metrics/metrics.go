// Package metrics Prometheus指标定义
//
// 所有指标在InitMetrics中通过promauto注册到默认Registry,
// HTTP服务在/metrics暴露,Counter以_total结尾,Histogram以单位结尾
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP

	// HTTPRequestsTotal 标签: method, path, status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration 标签: method, path
	HTTPRequestDuration *prometheus.HistogramVec

	HTTPRequestsInProgress prometheus.Gauge

	// 库存预留

	// ReservationsTotal 标签: result(reserved/rejected/error)
	ReservationsTotal *prometheus.CounterVec

	// ReservationRevertsTotal 标签: source(reserve_rollback/compensate)
	ReservationRevertsTotal *prometheus.CounterVec

	// FinalizeFailuresTotal 订单已落库但售出计数写入失败的次数
	FinalizeFailuresTotal prometheus.Counter

	// 结算

	// CheckoutsTotal 标签: result(completed/payment_rejected/insufficient_stock/book_not_found/persistence_failure)
	CheckoutsTotal *prometheus.CounterVec

	CheckoutDuration prometheus.Histogram

	CheckoutsInProgress prometheus.Gauge

	// 熔断器

	// CircuitBreakerState 0=CLOSED, 1=HALF_OPEN, 2=OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 标签: name, result(success/declined/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// Saga

	SagaCompensationsTotal prometheus.Counter

	// Redis

	// RedisCommandDuration 标签: command, result(success/failure)
	RedisCommandDuration *prometheus.HistogramVec

	// 消息队列

	// MessagesPublishedTotal 标签: routing_key, result(success/failure)
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 标签: queue, result(success/failure)
	MessagesConsumedTotal *prometheus.CounterVec

	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册所有指标,重复调用无副作用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP请求总数"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{Name: "http_requests_in_progress", Help: "正在处理的HTTP请求数"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "inventory_reservations_total", Help: "库存预留次数"},
		[]string{"result"},
	)
	ReservationRevertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "inventory_reservation_reverts_total", Help: "库存预留回滚次数"},
		[]string{"source"},
	)
	FinalizeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{Name: "inventory_finalize_failures_total", Help: "售出计数写入失败次数"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "checkouts_total", Help: "结算次数"},
		[]string{"result"},
	)
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "结算耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
	CheckoutsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{Name: "checkouts_in_progress", Help: "正在处理的结算数"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{Name: "circuit_breaker_state", Help: "熔断器状态（0=CLOSED, 1=HALF_OPEN, 2=OPEN）"},
		[]string{"name"},
	)
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "circuit_breaker_requests_total", Help: "熔断器请求总数"},
		[]string{"name", "result"},
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Name: "saga_compensations_total", Help: "Saga补偿执行总数"},
	)

	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Redis命令耗时（秒）",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"command", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "messages_published_total", Help: "消息发布总数"},
		[]string{"routing_key", "result"},
	)
	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "messages_consumed_total", Help: "消息消费总数"},
		[]string{"queue", "result"},
	)
	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// SetGaugeVec 设置带标签的Gauge
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
