package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/readingroom/internal/domain/book"
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// ledger 基于条件UPDATE的库存账本
// 扣减是一条 UPDATE ... WHERE physical_copies >= ?,由数据库保证原子性,不需要行锁
type ledger struct {
	db *gorm.DB
}

// NewLedger 创建库存账本
func NewLedger(db *gorm.DB) book.Ledger {
	return &ledger{db: db}
}

func (l *ledger) GetAvailable(ctx context.Context, bookID uint) (int, error) {
	var model BookModel
	err := dbFrom(ctx, l.db).Select("id", "physical_copies").First(&model, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, book.ErrBookNotFound
		}
		return 0, apperrors.WithCode(apperrors.ErrCodePersistenceFailure, err, "查询库存失败")
	}
	return model.PhysicalCopies, nil
}

func (l *ledger) TryReduce(ctx context.Context, bookID uint, qty int) (bool, error) {
	if qty < 0 {
		return false, book.ErrInvalidQuantity
	}

	db := dbFrom(ctx, l.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", bookID).
		Where("physical_copies >= ?", qty).
		Update("physical_copies", gorm.Expr("physical_copies - ?", qty))
	if result.Error != nil {
		return false, apperrors.WithCode(apperrors.ErrCodePersistenceFailure, result.Error, "扣减库存失败")
	}

	// 没有命中: 图书不存在或库存不足,qty==0时也需要确认图书存在
	if result.RowsAffected == 0 || qty == 0 {
		if _, err := l.GetAvailable(ctx, bookID); err != nil {
			return false, err
		}
		return qty == 0, nil
	}
	return true, nil
}

func (l *ledger) Increase(ctx context.Context, bookID uint, qty int) error {
	return l.add(ctx, bookID, "physical_copies", qty, "归还库存失败")
}

func (l *ledger) RecordSold(ctx context.Context, bookID uint, qty int) error {
	return l.add(ctx, bookID, "sold_copies", qty, "记录售出数量失败")
}

func (l *ledger) add(ctx context.Context, bookID uint, column string, qty int, failMsg string) error {
	if qty < 0 {
		return book.ErrInvalidQuantity
	}

	// 已下架的图书仍需接收在途预留的归还和售出记账
	result := dbFrom(ctx, l.db).Unscoped().Model(&BookModel{}).
		Where("id = ?", bookID).
		Update(column, gorm.Expr(column+" + ?", qty))
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodePersistenceFailure, result.Error, failMsg)
	}
	if result.RowsAffected == 0 {
		// MySQL在值未变化时(qty==0)也返回0行,需要再确认一次
		var count int64
		err := dbFrom(ctx, l.db).Unscoped().Model(&BookModel{}).Where("id = ?", bookID).Count(&count).Error
		if err != nil {
			return apperrors.WithCode(apperrors.ErrCodePersistenceFailure, err, failMsg)
		}
		if count == 0 {
			return book.ErrBookNotFound
		}
	}
	return nil
}
