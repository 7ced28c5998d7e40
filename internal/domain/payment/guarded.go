package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	apperrors "github.com/xiebiao/readingroom/pkg/errors"
	"github.com/xiebiao/readingroom/pkg/metrics"
)

// BreakerSettings 熔断参数
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32        // 半开状态允许通过的请求数
	Interval         time.Duration // 关闭状态下计数清零周期
	Timeout          time.Duration // 打开状态持续时间
	FailureThreshold uint32        // 连续失败多少次后打开
}

// GuardedAuthorizer 用熔断器保护下游授权(真实网关场景)
// 校验类拒绝属于正常业务结果,不计入熔断失败
type GuardedAuthorizer struct {
	next    Authorizer
	breaker *gobreaker.CircuitBreaker
	name    string
}

// NewGuardedAuthorizer 包装next
func NewGuardedAuthorizer(next Authorizer, s BreakerSettings, log logrus.FieldLogger) *GuardedAuthorizer {
	metrics.InitMetrics()
	if s.Name == "" {
		s.Name = "payment"
	}
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	g := &GuardedAuthorizer{next: next, name: s.Name}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.HasCode(err, apperrors.ErrCodePaymentRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("熔断器状态变化")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(float64(gobreaker.StateClosed))
	return g
}

func (g *GuardedAuthorizer) Authorize(ctx context.Context, attempt Attempt) (*Confirmation, error) {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Authorize(ctx, attempt)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
		return out.(*Confirmation), nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		return nil, rejected(err, "支付服务暂不可用,请稍后重试")
	case apperrors.HasCode(err, apperrors.ErrCodePaymentRejected):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "declined").Inc()
		return nil, err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		return nil, rejected(err, "支付授权失败")
	}
}

// State 当前熔断状态
func (g *GuardedAuthorizer) State() gobreaker.State {
	return g.breaker.State()
}
