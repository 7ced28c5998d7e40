// Package cart 用户购物车聚合
//
// Cart是外部存储(Redis)中购物车记录的内存视图,所有写操作先落存储再更新视图;
// 购物车从不修改库存
package cart

import (
	"context"
	"sort"
)

// Item 购物车条目
type Item struct {
	BookID   uint
	Quantity int
}

// Store 购物车持久化端口,按userID隔离
type Store interface {
	// Load 读取完整购物车,不存在时返回空map
	Load(ctx context.Context, userID uint) (map[uint]int, error)

	// Put 写入(覆盖)某本书的数量
	Put(ctx context.Context, userID, bookID uint, qty int) error

	// Remove 删除某本书,不存在时返回false
	Remove(ctx context.Context, userID, bookID uint) (bool, error)

	// Clear 清空购物车
	Clear(ctx context.Context, userID uint) error
}

// StockReader 只读库存查询,book.Ledger满足该接口
type StockReader interface {
	GetAvailable(ctx context.Context, bookID uint) (int, error)
}

// Cart 购物车聚合
// 非并发安全,每个请求各自加载
type Cart struct {
	userID uint
	items  map[uint]int
	store  Store
	stock  StockReader
}

// New 创建空视图,需要SyncFromStore后才能反映已持久化的内容
func New(userID uint, store Store, stock StockReader) *Cart {
	return &Cart{
		userID: userID,
		items:  make(map[uint]int),
		store:  store,
		stock:  stock,
	}
}

// Load 创建并从存储加载购物车
func Load(ctx context.Context, userID uint, store Store, stock StockReader) (*Cart, error) {
	c := New(userID, store, stock)
	if err := c.SyncFromStore(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// UserID 购物车所属用户
func (c *Cart) UserID() uint {
	return c.userID
}

// AddOrUpdate 设置某本书的数量(覆盖而非累加)
// 库存检查只是提示性的,并发下可能过期,真正的保证在结算预留阶段
func (c *Cart) AddOrUpdate(ctx context.Context, bookID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	available, err := c.stock.GetAvailable(ctx, bookID)
	if err != nil {
		return err
	}
	if qty > available {
		return ErrInsufficientStock
	}

	if err := c.store.Put(ctx, c.userID, bookID, qty); err != nil {
		return err
	}
	c.items[bookID] = qty
	return nil
}

// Remove 移除某本书
func (c *Cart) Remove(ctx context.Context, bookID uint) error {
	removed, err := c.store.Remove(ctx, c.userID, bookID)
	if err != nil {
		return err
	}
	delete(c.items, bookID)
	if !removed {
		return ErrItemNotFound
	}
	return nil
}

// Items 按bookID升序返回条目
func (c *Cart) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for id, qty := range c.items {
		items = append(items, Item{BookID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].BookID < items[j].BookID })
	return items
}

// DemandMap bookID -> 数量,返回副本
func (c *Cart) DemandMap() map[uint]int {
	demand := make(map[uint]int, len(c.items))
	for id, qty := range c.items {
		demand[id] = qty
	}
	return demand
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear 同时清空存储与内存视图
func (c *Cart) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx, c.userID); err != nil {
		return err
	}
	c.items = make(map[uint]int)
	return nil
}

// SyncFromStore 以存储为准重新加载,丢弃内存视图
// 非正数量的条目视为脏数据直接忽略
func (c *Cart) SyncFromStore(ctx context.Context) error {
	stored, err := c.store.Load(ctx, c.userID)
	if err != nil {
		return err
	}

	items := make(map[uint]int, len(stored))
	for id, qty := range stored {
		if qty > 0 {
			items[id] = qty
		}
	}
	c.items = items
	return nil
}
