// Package cart 购物车用例
package cart

import (
	"context"
	"errors"

	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/domain/cart"
)

// ItemView 购物车条目展示DTO
// 单价与库存是读取时的实时值,结算时以当时的快照为准
type ItemView struct {
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Subtotal  int64  `json:"subtotal"`
	Available int    `json:"available"`
	Missing   bool   `json:"missing,omitempty"` // 图书已下架
}

// CartView 购物车展示DTO
type CartView struct {
	Items []ItemView `json:"items"`
	Total int64      `json:"total"`
}

// GetCartUseCase 查看购物车
type GetCartUseCase struct {
	store cart.Store
	books book.Repository
	stock cart.StockReader
}

// NewGetCartUseCase 创建查看用例
func NewGetCartUseCase(store cart.Store, books book.Repository, stock book.Ledger) *GetCartUseCase {
	return &GetCartUseCase{store: store, books: books, stock: stock}
}

// Execute 加载购物车并补全书名与价格
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartView, error) {
	c, err := cart.Load(ctx, userID, uc.store, uc.stock)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]ItemView, 0)}
	for _, item := range c.Items() {
		b, err := uc.books.FindByID(ctx, item.BookID)
		if errors.Is(err, book.ErrBookNotFound) {
			view.Items = append(view.Items, ItemView{BookID: item.BookID, Quantity: item.Quantity, Missing: true})
			continue
		}
		if err != nil {
			return nil, err
		}

		iv := ItemView{
			BookID:    b.ID,
			Title:     b.Title,
			Quantity:  item.Quantity,
			Price:     b.Price,
			Subtotal:  b.Price * int64(item.Quantity),
			Available: b.PhysicalCopies,
		}
		view.Items = append(view.Items, iv)
		view.Total += iv.Subtotal
	}
	return view, nil
}

// UpdateItemUseCase 加入购物车或修改数量
type UpdateItemUseCase struct {
	store cart.Store
	stock cart.StockReader
}

// NewUpdateItemUseCase 创建加购用例
func NewUpdateItemUseCase(store cart.Store, stock book.Ledger) *UpdateItemUseCase {
	return &UpdateItemUseCase{store: store, stock: stock}
}

// Execute 设置数量,超过当前库存时拒绝
func (uc *UpdateItemUseCase) Execute(ctx context.Context, userID, bookID uint, qty int) error {
	c := cart.New(userID, uc.store, uc.stock)
	return c.AddOrUpdate(ctx, bookID, qty)
}

// RemoveItemUseCase 移除条目
type RemoveItemUseCase struct {
	store cart.Store
}

// NewRemoveItemUseCase 创建移除用例
func NewRemoveItemUseCase(store cart.Store) *RemoveItemUseCase {
	return &RemoveItemUseCase{store: store}
}

func (uc *RemoveItemUseCase) Execute(ctx context.Context, userID, bookID uint) error {
	return cart.New(userID, uc.store, nil).Remove(ctx, bookID)
}

// ClearCartUseCase 清空购物车
type ClearCartUseCase struct {
	store cart.Store
}

// NewClearCartUseCase 创建清空用例
func NewClearCartUseCase(store cart.Store) *ClearCartUseCase {
	return &ClearCartUseCase{store: store}
}

func (uc *ClearCartUseCase) Execute(ctx context.Context, userID uint) error {
	return cart.New(userID, uc.store, nil).Clear(ctx)
}
