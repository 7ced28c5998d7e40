// Package saga 顺序执行一组步骤,任一步失败时按逆序执行已完成步骤的补偿
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Step Saga中的一个步骤
// Action和Compensate都可以为nil
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次Saga执行
// 非并发安全,每次调用方自行创建
type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
	log      logrus.FieldLogger
}

// Option Saga可选项
type Option func(*Saga)

// WithLogger 指定补偿失败时使用的日志
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Saga) {
		s.log = log
	}
}

// NewSaga 创建Saga,timeout<=0表示不限时
func NewSaga(timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{
		steps:   make([]Step, 0, 4),
		timeout: timeout,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤,按添加顺序执行,按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
}

// Execute 依次执行所有步骤
// 失败或超时时先完成补偿再返回,返回的错误包装了失败步骤的原始错误
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate()
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("saga超时: %w", err)
			}
			return fmt.Errorf("saga已取消: %w", err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate()
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// Executed 已成功执行的步骤数
func (s *Saga) Executed() int {
	return len(s.executed)
}

// compensate 逆序补偿
// 使用新的Context,避免原Context已超时导致补偿也无法执行
// 单个补偿失败只记录日志,继续补偿其余步骤
func (s *Saga) compensate() {
	ctx := context.Background()
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.log.WithError(err).WithField("step", step.Name).Error("补偿失败,需人工介入")
		}
	}
	s.executed = nil
}
