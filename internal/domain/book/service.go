package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
type Service interface {
	// AddBook 上架图书
	// 业务规则: 书名不能为空, 价格>=0, 初始库存>=0
	AddBook(ctx context.Context, title, author string, price int64, physicalCopies int) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 修改书名、作者、价格
	// price为nil表示不修改价格
	UpdateBook(ctx context.Context, id uint, title, author string, price *int64) (*Book, error)

	// Restock 补货,经由Ledger增加实体库存
	Restock(ctx context.Context, id uint, qty int) (*Book, error)

	// AdjustStock 把实体库存设置为target(盘点/报损),经由Ledger增减
	AdjustStock(ctx context.Context, id uint, target int) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// DeleteBook 下架图书
	DeleteBook(ctx context.Context, id uint) error
}

// adjustAttempts 下调库存时与并发预留竞争的最大尝试次数
const adjustAttempts = 3

type service struct {
	repo   Repository
	ledger Ledger
}

// NewService 创建图书领域服务
func NewService(repo Repository, ledger Ledger) Service {
	return &service{repo: repo, ledger: ledger}
}

func (s *service) AddBook(ctx context.Context, title, author string, price int64, physicalCopies int) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if physicalCopies < 0 {
		return nil, ErrInvalidStock
	}

	b := NewBook(title, strings.TrimSpace(author), price, physicalCopies)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, title, author string, price *int64) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.UpdateInfo(strings.TrimSpace(title), strings.TrimSpace(author))
	if price != nil {
		if err := b.UpdatePrice(*price); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Restock(ctx context.Context, id uint, qty int) (*Book, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.ledger.Increase(ctx, id, qty); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// AdjustStock 读取当前库存后按差值增减
// 下调走TryReduce,与结算预留竞争时重新读取再试,仍失败返回ErrStockAdjustConflict
func (s *service) AdjustStock(ctx context.Context, id uint, target int) (*Book, error) {
	if target < 0 {
		return nil, ErrInvalidStock
	}

	for attempt := 0; attempt < adjustAttempts; attempt++ {
		current, err := s.ledger.GetAvailable(ctx, id)
		if err != nil {
			return nil, err
		}

		delta := target - current
		switch {
		case delta == 0:
			return s.repo.FindByID(ctx, id)
		case delta > 0:
			if err := s.ledger.Increase(ctx, id, delta); err != nil {
				return nil, err
			}
			return s.repo.FindByID(ctx, id)
		}

		ok, err := s.ledger.TryReduce(ctx, id, -delta)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.repo.FindByID(ctx, id)
		}
	}
	return nil, ErrStockAdjustConflict
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}
