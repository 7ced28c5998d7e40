package order

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readingroom/internal/domain/order"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

func newRepo(t *testing.T) order.Repository {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	dsn := filepath.Join(t.TempDir(), "orders.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := mysql.Open(sqlite.Open(dsn), log, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return mysql.NewOrderRepository(db)
}

func placeOrder(t *testing.T, repo order.Repository, orderNo string, userID uint, at time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(orderNo, userID, []order.OrderItem{
		{BookID: 1, Title: "Go语言圣经", Quantity: 2, Price: 999},
		{BookID: 2, Title: "SICP", Quantity: 1, Price: 4500},
	}, at)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestGetOrder_OwnerOnly(t *testing.T) {
	repo := newRepo(t)
	placeOrder(t, repo, "ORD1000000001000001", 1, time.Now())
	uc := NewGetOrderUseCase(repo)
	ctx := context.Background()

	view, err := uc.Execute(ctx, 1, false, "ORD1000000001000001")
	require.NoError(t, err)
	assert.Equal(t, int64(1998+4500), view.Total)
	assert.Equal(t, "64.98", view.TotalYuan)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(1998), view.Items[0].Subtotal)

	_, err = uc.Execute(ctx, 2, false, "ORD1000000001000001")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = uc.Execute(ctx, 2, true, "ORD1000000001000001")
	assert.NoError(t, err)

	_, err = uc.Execute(ctx, 1, false, "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
}

func TestListOrders(t *testing.T) {
	repo := newRepo(t)
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	placeOrder(t, repo, "ORD-A", 1, base)
	placeOrder(t, repo, "ORD-B", 1, base.Add(time.Hour))
	placeOrder(t, repo, "ORD-C", 2, base.Add(2*time.Hour))
	ctx := context.Background()

	mine, err := NewListMyOrdersUseCase(repo).Execute(ctx, 1, PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	assert.Equal(t, 10, mine.PageSize)
	require.Len(t, mine.List, 2)
	assert.Equal(t, "ORD-B", mine.List[0].OrderNo)

	all, err := NewListAllOrdersUseCase(repo).Execute(ctx, PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.List, 2)
}

func TestDeleteOrder(t *testing.T) {
	repo := newRepo(t)
	o := placeOrder(t, repo, "ORD-DEL", 1, time.Now())
	ctx := context.Background()

	require.NoError(t, NewDeleteOrderUseCase(repo).Execute(ctx, o.ID))
	_, err := NewGetOrderUseCase(repo).Execute(ctx, 1, false, "ORD-DEL")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	assert.ErrorIs(t, NewDeleteOrderUseCase(repo).Execute(ctx, o.ID), order.ErrOrderNotFound)
}
