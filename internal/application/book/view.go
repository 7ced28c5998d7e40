package book

import (
	"fmt"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

// BookView 图书展示DTO
type BookView struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Price          int64  `json:"price"`      // 价格(分)
	PriceYuan      string `json:"price_yuan"` // 价格(元),仅展示用
	PhysicalCopies int    `json:"physical_copies"`
	SoldCopies     int    `json:"sold_copies"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toView(b *book.Book) *BookView {
	return &BookView{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		Price:          b.Price,
		PriceYuan:      FormatPrice(b.Price),
		PhysicalCopies: b.PhysicalCopies,
		SoldCopies:     b.SoldCopies,
		CreatedAt:      b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// FormatPrice 格式化价格(分→元),整数运算避免浮点误差
func FormatPrice(fen int64) string {
	sign := ""
	if fen < 0 {
		sign, fen = "-", -fen
	}
	return fmt.Sprintf("%s%d.%02d", sign, fen/100, fen%100)
}
