package book

import (
	"context"
)

// Repository 图书目录仓储接口
// 只负责目录信息(书名、作者、价格),库存字段由Ledger独占写入
type Repository interface {
	// Create 创建图书(含初始库存)
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新书名、作者、价格,不会写库存字段
	Update(ctx context.Context, book *Book) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Delete 下架图书(软删除),历史订单中的快照不受影响
	Delete(ctx context.Context, id uint) error
}

// Ledger 图书库存账本
// 实体库存与累计售出的唯一写入方,所有变更都是单条原子操作
type Ledger interface {
	// GetAvailable 当前实体库存,无副作用
	GetAvailable(ctx context.Context, bookID uint) (int, error)

	// TryReduce 条件扣减:仅当库存>=qty时扣减,否则返回false且不做任何修改
	TryReduce(ctx context.Context, bookID uint, qty int) (bool, error)

	// Increase 无条件归还/补充库存
	Increase(ctx context.Context, bookID uint, qty int) error

	// RecordSold 无条件累加售出数量
	RecordSold(ctx context.Context, bookID uint, qty int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者)
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc, sold_desc)
}
