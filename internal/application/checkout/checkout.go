// Package checkout 结算用例: 支付校验 → 库存预留 → 订单落库 → 确认预留
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/domain/cart"
	"github.com/xiebiao/readingroom/internal/domain/inventory"
	"github.com/xiebiao/readingroom/internal/domain/order"
	"github.com/xiebiao/readingroom/internal/domain/payment"
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
	"github.com/xiebiao/readingroom/pkg/metrics"
	"github.com/xiebiao/readingroom/pkg/saga"
	"github.com/xiebiao/readingroom/pkg/tracing"
)

const tracerName = "readingroom/checkout"

// EventPublisher 结算完成事件发布
type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, o *order.Order) error
}

// Config 结算配置
type Config struct {
	Timeout time.Duration // 预留+落单的整体超时,<=0表示不限时
}

// Command 结算请求
type Command struct {
	UserID  uint
	Payment payment.Attempt
}

// Result 结算成功的结果
type Result struct {
	Order        *order.Order
	State        State
	PaymentToken string
}

// Service 结算编排
// 自身不重试;失败时保证库存已归还、购物车保持原样
type Service struct {
	carts    cart.Store
	ledger   book.Ledger
	books    book.Repository
	engine   *inventory.Engine
	orders   order.Repository
	payments payment.Authorizer
	events   EventPublisher
	cfg      Config
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService 创建结算服务
func NewService(
	carts cart.Store,
	ledger book.Ledger,
	books book.Repository,
	engine *inventory.Engine,
	orders order.Repository,
	payments payment.Authorizer,
	events EventPublisher,
	cfg Config,
	log logrus.FieldLogger,
) *Service {
	metrics.InitMetrics()
	return &Service{
		carts:    carts,
		ledger:   ledger,
		books:    books,
		engine:   engine,
		orders:   orders,
		payments: payments,
		events:   events,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Checkout 对用户当前购物车执行一次结算
// 购物车为空时返回cart.ErrEmptyCart;中止时返回*AbortError
func (s *Service) Checkout(ctx context.Context, cmd Command) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Checkout")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", int(cmd.UserID)))

	start := time.Now()
	metrics.CheckoutsInProgress.Inc()
	defer func() {
		metrics.CheckoutsInProgress.Dec()
		metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	log := s.log.WithField("user_id", cmd.UserID)
	m := &machine{state: StateIdle}

	c, err := cart.Load(ctx, cmd.UserID, s.carts, s.ledger)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	result, err := s.run(ctx, m, c, cmd.Payment, log)
	span.SetAttributes(attribute.String("checkout.state", m.state.String()))
	if err != nil {
		tracing.RecordError(span, err)
		var abort *AbortError
		if errors.As(err, &abort) {
			metrics.CheckoutsTotal.WithLabelValues(string(abort.Reason)).Inc()
			log.WithFields(logrus.Fields{
				"reason":  abort.Reason,
				"from":    abort.From.String(),
				"book_id": abort.BookID,
			}).WithError(abort.Err).Warn("结算中止")
		}
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("completed").Inc()
	log.WithFields(logrus.Fields{
		"order_no": result.Order.OrderNo,
		"total":    result.Order.Total,
	}).Info("结算完成")
	return result, nil
}

func (s *Service) run(ctx context.Context, m *machine, c *cart.Cart, attempt payment.Attempt, log logrus.FieldLogger) (*Result, error) {
	// 1. 支付校验,失败时尚未触碰任何库存
	if err := m.to(StateValidatingPayment); err != nil {
		return nil, err
	}
	confirmation, err := s.payments.Authorize(ctx, attempt)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodePaymentRejected) {
			err = apperrors.WithCode(apperrors.ErrCodePaymentRejected, err, "支付授权失败")
		}
		return nil, s.abort(m, ReasonPaymentRejected, 0, err)
	}

	// 2+3. 预留与落单作为Saga执行,落单失败或超时时补偿归还库存
	if err := m.to(StateReserving); err != nil {
		return nil, err
	}

	var (
		reservation *inventory.Reservation
		placed      *order.Order
		reserveErr  error
	)

	sg := saga.NewSaga(s.cfg.Timeout, saga.WithLogger(log))
	sg.AddStep("reserve",
		func(ctx context.Context) error {
			items, err := s.snapshot(ctx, c)
			if err != nil {
				reserveErr = err
				return err
			}
			o, err := order.NewOrder(order.GenerateOrderNo(), c.UserID(), items, s.now())
			if err != nil {
				reserveErr = err
				return err
			}
			r, err := s.engine.Reserve(ctx, inventory.Request(c.DemandMap()))
			if err != nil {
				reserveErr = err
				return err
			}
			reservation, placed = r, o
			return nil
		},
		func(ctx context.Context) error {
			return s.engine.Revert(ctx, reservation)
		},
	)
	sg.AddStep("persist",
		func(ctx context.Context) error {
			if err := m.to(StatePersisting); err != nil {
				return err
			}
			return s.orders.Create(ctx, placed)
		},
		nil,
	)

	// 进入预留后不再响应请求取消,只受checkout.timeout约束
	if err := sg.Execute(context.WithoutCancel(ctx)); err != nil {
		return nil, s.classify(m, reserveErr, err)
	}

	// 4. 订单已落库,之后的失败只记录不回滚
	if err := m.to(StateFinalizing); err != nil {
		return nil, err
	}
	s.finalize(ctx, c, reservation, placed, log)
	if err := m.to(StateCompleted); err != nil {
		return nil, err
	}

	return &Result{
		Order:        placed,
		State:        m.state,
		PaymentToken: confirmation.Token,
	}, nil
}

// snapshot 按bookID升序读取书名与当前单价,作为订单明细快照
func (s *Service) snapshot(ctx context.Context, c *cart.Cart) ([]order.OrderItem, error) {
	cartItems := c.Items()
	items := make([]order.OrderItem, 0, len(cartItems))
	for _, ci := range cartItems {
		b, err := s.books.FindByID(ctx, ci.BookID)
		if err != nil {
			if errors.Is(err, book.ErrBookNotFound) {
				return nil, &missingBookError{bookID: ci.BookID, err: err}
			}
			return nil, err
		}
		items = append(items, order.OrderItem{
			BookID:   b.ID,
			Title:    b.Title,
			Quantity: ci.Quantity,
			Price:    b.Price,
		})
	}
	return items, nil
}

// classify 把Saga的失败映射为中止原因
// reserveErr非nil说明失败发生在预留阶段(引擎已自行归还),否则是超时或落单失败(Saga已补偿)
func (s *Service) classify(m *machine, reserveErr, sagaErr error) error {
	var (
		rejected *inventory.RejectedError
		missing  *missingBookError
	)
	switch {
	case errors.As(reserveErr, &rejected):
		err := apperrors.WithCode(apperrors.ErrCodeInsufficientStock, rejected,
			fmt.Sprintf("图书[%d]库存不足,当前可用%d", rejected.BookID, rejected.Available))
		return s.abort(m, ReasonInsufficientStock, rejected.BookID, err)
	case errors.As(reserveErr, &missing):
		return s.abort(m, ReasonBookNotFound, missing.bookID, missing.err)
	case errors.Is(sagaErr, context.DeadlineExceeded):
		err := apperrors.WithCode(apperrors.ErrCodePersistenceFailure, sagaErr, "结算超时,库存已归还,请重试")
		return s.abort(m, ReasonPersistenceFailure, 0, err)
	default:
		err := apperrors.WithCode(apperrors.ErrCodePersistenceFailure, sagaErr, "订单保存失败,库存已归还,请重试")
		return s.abort(m, ReasonPersistenceFailure, 0, err)
	}
}

func (s *Service) abort(m *machine, reason Reason, bookID uint, err error) error {
	from := m.state
	if terr := m.to(StateAborted); terr != nil {
		return errors.Join(err, terr)
	}
	return &AbortError{Reason: reason, BookID: bookID, From: from, Err: err}
}

// finalize 确认预留、清空购物车、发布事件
// 请求被取消时仍需完成,使用脱离取消信号的Context
func (s *Service) finalize(ctx context.Context, c *cart.Cart, r *inventory.Reservation, o *order.Order, log logrus.FieldLogger) {
	ctx = context.WithoutCancel(ctx)
	log = log.WithField("order_no", o.OrderNo)

	if err := s.engine.Finalize(ctx, r); err != nil {
		metrics.FinalizeFailuresTotal.Inc()
		log.WithError(err).Error("售出数量记录失败,需人工对账")
	}

	if err := c.Clear(ctx); err != nil {
		log.WithError(err).Warn("清空购物车失败")
	}

	if s.events != nil {
		if err := s.events.PublishOrderCompleted(ctx, o); err != nil {
			log.WithError(err).Warn("订单事件发布失败")
		}
	}
}

// missingBookError 购物车中的图书已不在目录中
type missingBookError struct {
	bookID uint
	err    error
}

func (e *missingBookError) Error() string {
	return fmt.Sprintf("图书[%d]不存在: %v", e.bookID, e.err)
}

func (e *missingBookError) Unwrap() error {
	return e.err
}
