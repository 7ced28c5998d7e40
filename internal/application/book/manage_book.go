package book

import (
	"context"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

// PublishBookUseCase 上架图书(管理员),初始库存直接写入账本
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService}
}

// PublishBookRequest 上架请求,价格单位为分
type PublishBookRequest struct {
	Title          string
	Author         string
	Price          int64
	PhysicalCopies int
}

// Execute 执行上架
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookView, error) {
	b, err := uc.bookService.AddBook(ctx, req.Title, req.Author, req.Price, req.PhysicalCopies)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询图书
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// UpdateBookUseCase 修改书名、作者、价格(管理员)
// 改价只影响之后的结算,已下单的订单保存的是价格快照
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 修改请求,空字符串/nil表示不修改
type UpdateBookRequest struct {
	ID     uint
	Title  string
	Author string
	Price  *int64
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.Title, req.Author, req.Price)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// RestockUseCase 补货(管理员)
type RestockUseCase struct {
	bookService book.Service
}

// NewRestockUseCase 创建补货用例
func NewRestockUseCase(bookService book.Service) *RestockUseCase {
	return &RestockUseCase{bookService: bookService}
}

// Execute 增加实体库存
func (uc *RestockUseCase) Execute(ctx context.Context, id uint, qty int) (*BookView, error) {
	b, err := uc.bookService.Restock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// AdjustStockUseCase 盘点/报损(管理员),把实体库存设置为目标值
type AdjustStockUseCase struct {
	bookService book.Service
}

// NewAdjustStockUseCase 创建库存调整用例
func NewAdjustStockUseCase(bookService book.Service) *AdjustStockUseCase {
	return &AdjustStockUseCase{bookService: bookService}
}

// Execute 设置实体库存
func (uc *AdjustStockUseCase) Execute(ctx context.Context, id uint, physicalCopies int) (*BookView, error) {
	b, err := uc.bookService.AdjustStock(ctx, id, physicalCopies)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// DeleteBookUseCase 下架图书(管理员)
// 已有订单不受影响,购物车中指向该书的行在结算时返回book_not_found
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	return uc.bookService.DeleteBook(ctx, id)
}
