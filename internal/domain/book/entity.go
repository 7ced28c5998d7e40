package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. PhysicalCopies/SoldCopies只能通过Ledger修改,实体上没有对应的setter
type Book struct {
	ID             uint
	Title          string // 书名
	Author         string // 作者
	Price          int64  // 价格(单位:分)
	PhysicalCopies int    // 实体库存,始终>=0
	SoldCopies     int    // 累计售出,只增不减
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(title, author string, price int64, physicalCopies int) *Book {
	now := time.Now()
	return &Book{
		Title:          title,
		Author:         author,
		Price:          price,
		PhysicalCopies: physicalCopies,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdatePrice 更新价格
// 已下单的订单保存的是价格快照,不受影响
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息,空字符串表示不修改
func (b *Book) UpdateInfo(title, author string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	b.UpdatedAt = time.Now()
}
