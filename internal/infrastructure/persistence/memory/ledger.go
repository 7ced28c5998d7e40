// Package memory 进程内存储实现
// 适用于不提供条件更新原语的存储:每本书一把互斥锁,临界区内完成"检查+扣减"
//
// 服务进程使用mysql包的条件UPDATE账本;本包用于领域与用例测试,以及不依赖数据库的嵌入式场景
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

type stock struct {
	mu       sync.Mutex
	physical int
	sold     int
}

// Ledger 基于逐本书互斥锁的库存账本
// 不同图书之间互不阻塞,没有跨图书的全局锁
type Ledger struct {
	mu    sync.RWMutex // 只保护books映射本身
	books map[uint]*stock
}

// NewLedger 创建内存账本
func NewLedger() *Ledger {
	return &Ledger{books: make(map[uint]*stock)}
}

var _ book.Ledger = (*Ledger)(nil)

// Seed 登记一本书的初始库存(已存在则覆盖)
func (l *Ledger) Seed(bookID uint, physical, sold int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.books[bookID] = &stock{physical: physical, sold: sold}
}

// Sold 返回累计售出数量
func (l *Ledger) Sold(bookID uint) (int, error) {
	s, err := l.get(bookID)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sold, nil
}

func (l *Ledger) GetAvailable(_ context.Context, bookID uint) (int, error) {
	s, err := l.get(bookID)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.physical, nil
}

func (l *Ledger) TryReduce(_ context.Context, bookID uint, qty int) (bool, error) {
	if qty < 0 {
		return false, book.ErrInvalidQuantity
	}
	s, err := l.get(bookID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.physical < qty {
		return false, nil
	}
	s.physical -= qty
	return true, nil
}

func (l *Ledger) Increase(_ context.Context, bookID uint, qty int) error {
	if qty < 0 {
		return book.ErrInvalidQuantity
	}
	s, err := l.get(bookID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.physical += qty
	s.mu.Unlock()
	return nil
}

func (l *Ledger) RecordSold(_ context.Context, bookID uint, qty int) error {
	if qty < 0 {
		return book.ErrInvalidQuantity
	}
	s, err := l.get(bookID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sold += qty
	s.mu.Unlock()
	return nil
}

func (l *Ledger) get(bookID uint) (*stock, error) {
	l.mu.RLock()
	s, ok := l.books[bookID]
	l.mu.RUnlock()
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return s, nil
}
