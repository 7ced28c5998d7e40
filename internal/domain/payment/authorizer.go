// Package payment 支付信息校验与授权
//
// 卡号、有效期、CVV只在内存中校验,不写日志也不落库
package payment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Attempt 一次支付尝试
type Attempt struct {
	CardNumber     string
	CardHolderName string
	ExpiryDate     string // MM/YY
	CVV            string
}

// Confirmation 授权成功凭证
type Confirmation struct {
	Token        string
	AuthorizedAt time.Time
}

// Authorizer 支付授权
// 拒绝时返回的错误带有PaymentRejected错误码
type Authorizer interface {
	Authorize(ctx context.Context, attempt Attempt) (*Confirmation, error)
}

// SimulatedAuthorizer 不连接真实网关的授权实现: 三项校验全部通过即授权成功
type SimulatedAuthorizer struct {
	counter atomic.Uint64
	now     func() time.Time
}

// NewSimulatedAuthorizer 创建模拟授权器
func NewSimulatedAuthorizer() *SimulatedAuthorizer {
	return &SimulatedAuthorizer{now: time.Now}
}

func (a *SimulatedAuthorizer) Authorize(ctx context.Context, attempt Attempt) (*Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := a.now()
	if err := Validate(attempt, now); err != nil {
		return nil, rejected(err, fmt.Sprintf("支付被拒绝: %s", reason(err)))
	}

	return &Confirmation{
		Token:        a.nextToken(now),
		AuthorizedAt: now,
	}, nil
}

// nextToken 格式: PAY + yyyyMMddHHmmss + 6位递增序号
func (a *SimulatedAuthorizer) nextToken(now time.Time) string {
	seq := a.counter.Add(1) % 1000000
	return fmt.Sprintf("PAY%s%06d", now.Format("20060102150405"), seq)
}
