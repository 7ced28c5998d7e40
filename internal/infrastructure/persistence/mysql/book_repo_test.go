package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

func TestBookRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, db, "Go语言圣经", 999, 5)
	require.NotZero(t, b.ID)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go语言圣经", got.Title)
	assert.Equal(t, int64(999), got.Price)
	assert.Equal(t, 5, got.PhysicalCopies)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_UpdateDoesNotTouchStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ledger := NewLedger(db)
	ctx := context.Background()

	b := seedBook(t, db, "旧书名", 1000, 5)

	// 读取实体后库存被并发扣减
	stale, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	ok, err := ledger.TryReduce(ctx, b.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	stale.UpdateInfo("新书名", "")
	require.NoError(t, stale.UpdatePrice(1200))
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "新书名", got.Title)
	assert.Equal(t, int64(1200), got.Price)
	assert.Equal(t, 3, got.PhysicalCopies, "目录更新不能覆盖库存")

	stale.ID = 9999
	assert.ErrorIs(t, repo.Update(ctx, stale), book.ErrBookNotFound)
}

func TestBookRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	seedBook(t, db, "Go语言圣经", 999, 5)
	seedBook(t, db, "Go并发编程", 4500, 5)
	seedBook(t, db, "重构", 3000, 5)

	books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Keyword: "Go", SortBy: "price_desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, books, 2)
	assert.Equal(t, "Go并发编程", books[0].Title)

	books, total, err = repo.List(ctx, book.ListParams{Page: 2, PageSize: 2, SortBy: "price_asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, books, 1)
	assert.Equal(t, int64(4500), books[0].Price)
}

func TestBookRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, db, "重构", 800, 3)
	require.NoError(t, repo.Delete(ctx, b.ID))

	_, err := repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 9999), book.ErrBookNotFound)

	b.UpdateInfo("重构(第2版)", "")
	assert.ErrorIs(t, repo.Update(ctx, b), book.ErrBookNotFound)

	_, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	// 行仍在表中
	var model BookModel
	require.NoError(t, db.Unscoped().First(&model, b.ID).Error)
	assert.True(t, model.DeletedAt.Valid)
	assert.Equal(t, 3, model.PhysicalCopies)
}
