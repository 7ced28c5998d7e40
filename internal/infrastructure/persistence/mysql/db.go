package mysql

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readingroom/internal/infrastructure/config"
)

// NewDB 创建MySQL连接并迁移表结构
// 开发环境(server.mode=debug)打印SQL,其余环境只记录慢查询
func NewDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	db, err := Open(mysql.Open(cfg.Database.DSN()), log, level)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.WithField("host", cfg.Database.Host).Info("数据库连接成功")

	return db, nil
}

// Open 使用任意gorm方言打开数据库并自动迁移
// 测试中传入sqlite方言
func Open(dialector gorm.Dialector, log *logrus.Logger, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// AutoMigrate 迁移表结构
// 生产环境应使用版本化迁移脚本,这里只用于开发与测试
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// BookModel 图书表
// physical_copies/sold_copies只由Ledger通过条件更新修改
type BookModel struct {
	ID             uint           `gorm:"primaryKey"`
	Title          string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author         string         `gorm:"index:idx_search;size:100;not null;default:'';comment:作者"`
	Price          int64          `gorm:"index:idx_list;not null;comment:价格(分)"`
	PhysicalCopies int            `gorm:"not null;default:0;check:physical_copies >= 0;comment:实体库存"`
	SoldCopies     int            `gorm:"not null;default:0;index;comment:累计售出"`
	CreatedAt      time.Time      `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt      time.Time      `gorm:"comment:更新时间"`
	DeletedAt      gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel 订单表,与OrderItemModel一对多
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	OrderNo   string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID    uint             `gorm:"index;not null;comment:买家用户ID"`
	Total     int64            `gorm:"not null;comment:订单总金额(分)"`
	OrderDate time.Time        `gorm:"index;not null;comment:下单时间"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 订单明细表,Title/Price为下单时快照
type OrderItemModel struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index;not null;comment:订单ID"`
	BookID   uint   `gorm:"index;not null;comment:图书ID"`
	Title    string `gorm:"size:200;not null;comment:下单时书名"`
	Quantity int    `gorm:"not null;comment:购买数量"`
	Price    int64  `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
