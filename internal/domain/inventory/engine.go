// Package inventory 多本图书的全有或全无库存预留
//
// 预留按bookID升序逐本条件扣减,任一本不足时逆序归还已扣减部分;
// 成功的预留在订单落库后Finalize(只累加售出数),落库失败则Revert(归还库存)
package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/pkg/metrics"
)

// Request 预留请求: bookID -> 数量
type Request map[uint]int

// Entry 预留成功的一行
type Entry struct {
	BookID uint
	Qty    int
}

// Reservation 已生效的预留,Entries按bookID升序
// 调用方必须对其恰好调用一次Finalize或Revert
type Reservation struct {
	Entries []Entry
}

// IsEmpty 是否为空预留
func (r *Reservation) IsEmpty() bool {
	return r == nil || len(r.Entries) == 0
}

// Quantity 查询某本书的预留数量
func (r *Reservation) Quantity(bookID uint) int {
	for _, e := range r.Entries {
		if e.BookID == bookID {
			return e.Qty
		}
	}
	return 0
}

// Transactor 事务执行器
// Finalize在事务内逐本累加售出数,保证售出计数要么全部生效要么全部不生效
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Option Engine可选项
type Option func(*Engine)

// WithTransactor 为Finalize指定事务执行器
func WithTransactor(tx Transactor) Option {
	return func(e *Engine) {
		e.tx = tx
	}
}

// Engine 库存预留引擎
// 自身无状态,并发安全性完全由Ledger的原子条件扣减保证
type Engine struct {
	ledger book.Ledger
	tx     Transactor
	log    logrus.FieldLogger
}

// NewEngine 创建预留引擎
func NewEngine(ledger book.Ledger, log logrus.FieldLogger, opts ...Option) *Engine {
	metrics.InitMetrics()
	e := &Engine{ledger: ledger, log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reserve 全有或全无地预留请求中的所有图书
// 成功返回Reservation;库存不足返回*RejectedError,且所有已扣减数量已归还;
// 其他错误(图书不存在、存储故障)同样会先归还再返回
func (e *Engine) Reserve(ctx context.Context, req Request) (*Reservation, error) {
	ids := make([]uint, 0, len(req))
	for id, qty := range req {
		if qty < 0 {
			metrics.ReservationsTotal.WithLabelValues("error").Inc()
			return nil, book.ErrInvalidQuantity
		}
		if qty == 0 {
			continue
		}
		ids = append(ids, id)
	}
	// 固定顺序扣减,避免并发预留之间交叉等待
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	consumed := &Reservation{Entries: make([]Entry, 0, len(ids))}
	for _, id := range ids {
		qty := req[id]
		ok, err := e.ledger.TryReduce(ctx, id, qty)
		if err != nil {
			e.rollback(ctx, consumed)
			metrics.ReservationsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if !ok {
			available, aerr := e.ledger.GetAvailable(ctx, id)
			if aerr != nil {
				e.log.WithError(aerr).WithField("book_id", id).Warn("读取可用库存失败")
			}
			e.rollback(ctx, consumed)
			metrics.ReservationsTotal.WithLabelValues("rejected").Inc()
			return nil, &RejectedError{BookID: id, Requested: qty, Available: available}
		}
		consumed.Entries = append(consumed.Entries, Entry{BookID: id, Qty: qty})
	}

	metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
	e.log.WithField("entries", len(consumed.Entries)).Debug("库存预留成功")
	return consumed, nil
}

// 回滚来源
const (
	revertSourceRollback   = "reserve_rollback" // Reserve中途失败的自我回滚
	revertSourceCompensate = "compensate"       // 预留成功后由调用方补偿
)

// Revert 逆序归还预留的全部库存
// 单本归还失败不会中断其余归还,返回合并后的错误
func (e *Engine) Revert(ctx context.Context, r *Reservation) error {
	return e.revert(ctx, r, revertSourceCompensate)
}

func (e *Engine) revert(ctx context.Context, r *Reservation, source string) error {
	if r.IsEmpty() {
		return nil
	}
	metrics.ReservationRevertsTotal.WithLabelValues(source).Inc()

	var errs []error
	for i := len(r.Entries) - 1; i >= 0; i-- {
		entry := r.Entries[i]
		if err := e.ledger.Increase(ctx, entry.BookID, entry.Qty); err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"book_id": entry.BookID,
				"qty":     entry.Qty,
			}).Error("归还库存失败")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Finalize 确认预留: 只累加售出数,实体库存在Reserve时已扣减,这里不会再次扣减
func (e *Engine) Finalize(ctx context.Context, r *Reservation) error {
	if r.IsEmpty() {
		return nil
	}

	record := func(ctx context.Context) error {
		for _, entry := range r.Entries {
			if err := e.ledger.RecordSold(ctx, entry.BookID, entry.Qty); err != nil {
				return err
			}
		}
		return nil
	}

	if e.tx != nil {
		return e.tx.Transaction(ctx, record)
	}
	return record(ctx)
}

// rollback 预留中途失败时归还已扣减部分
// 使用脱离取消信号的Context,调用方取消请求时归还仍需完成
func (e *Engine) rollback(ctx context.Context, consumed *Reservation) {
	if err := e.revert(context.WithoutCancel(ctx), consumed, revertSourceRollback); err != nil {
		e.log.WithError(err).Error("预留回滚未完全成功")
	}
}
