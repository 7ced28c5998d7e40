package book

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/memory"
)

// memRepo 与memory.Ledger共享库存的内存目录
type memRepo struct {
	mu     sync.Mutex
	books  map[uint]*book.Book
	ledger *memory.Ledger
	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{books: make(map[uint]*book.Book), ledger: memory.NewLedger()}
}

func (r *memRepo) Create(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.books[b.ID] = &cp
	r.ledger.Seed(b.ID, b.PhysicalCopies, b.SoldCopies)
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.mu.Lock()
	b, ok := r.books[id]
	r.mu.Unlock()
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	cp.PhysicalCopies, _ = r.ledger.GetAvailable(ctx, id)
	cp.SoldCopies, _ = r.ledger.Sold(id)
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.books[b.ID]
	if !ok {
		return book.ErrBookNotFound
	}
	stored.Title, stored.Author, stored.Price = b.Title, b.Author, b.Price
	return nil
}

func (r *memRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.mu.Lock()
	ids := make([]uint, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*book.Book, 0, len(ids))
	for _, id := range ids {
		b, _ := r.FindByID(ctx, id)
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// staleLedger 读到的库存比实际多,模拟读取之后被并发结算占用
type staleLedger struct {
	*memory.Ledger
	extra      int
	tryReduces int
}

func (l *staleLedger) GetAvailable(ctx context.Context, bookID uint) (int, error) {
	n, err := l.Ledger.GetAvailable(ctx, bookID)
	return n + l.extra, err
}

func (l *staleLedger) TryReduce(ctx context.Context, bookID uint, qty int) (bool, error) {
	l.tryReduces++
	return l.Ledger.TryReduce(ctx, bookID, qty)
}

func newService() (book.Service, *memRepo) {
	repo := newMemRepo()
	return book.NewService(repo, repo.ledger), repo
}

func TestPublishAndGet(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	view, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{
		Title: "  Go语言圣经 ", Author: "Donovan", Price: 999, PhysicalCopies: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Go语言圣经", view.Title)
	assert.Equal(t, "9.99", view.PriceYuan)

	got, err := NewGetBookUseCase(svc).Execute(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.PhysicalCopies)

	_, err = NewGetBookUseCase(svc).Execute(ctx, 404)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestPublish_Validation(t *testing.T) {
	svc, _ := newService()
	uc := NewPublishBookUseCase(svc)

	_, err := uc.Execute(context.Background(), PublishBookRequest{Title: " ", Price: 1})
	assert.ErrorIs(t, err, book.ErrInvalidTitle)
	_, err = uc.Execute(context.Background(), PublishBookRequest{Title: "t", Price: -1})
	assert.ErrorIs(t, err, book.ErrInvalidPrice)
	_, err = uc.Execute(context.Background(), PublishBookRequest{Title: "t", PhysicalCopies: -1})
	assert.ErrorIs(t, err, book.ErrInvalidStock)
}

func TestUpdateAndRestock(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	view, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{Title: "Clean Code", Author: "Martin", Price: 1000, PhysicalCopies: 1})
	require.NoError(t, err)

	price := int64(1200)
	updated, err := NewUpdateBookUseCase(svc).Execute(ctx, UpdateBookRequest{ID: view.ID, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), updated.Price)
	assert.Equal(t, "Clean Code", updated.Title)
	assert.Equal(t, "Martin", updated.Author)

	negative := int64(-5)
	_, err = NewUpdateBookUseCase(svc).Execute(ctx, UpdateBookRequest{ID: view.ID, Price: &negative})
	assert.ErrorIs(t, err, book.ErrInvalidPrice)

	restocked, err := NewRestockUseCase(svc).Execute(ctx, view.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, restocked.PhysicalCopies)

	_, err = NewRestockUseCase(svc).Execute(ctx, view.ID, -1)
	assert.ErrorIs(t, err, book.ErrInvalidQuantity)
	_, err = NewRestockUseCase(svc).Execute(ctx, 99, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAdjustStock(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	view, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{Title: "Refactoring", Price: 800, PhysicalCopies: 5})
	require.NoError(t, err)
	adjust := NewAdjustStockUseCase(svc)

	lowered, err := adjust.Execute(ctx, view.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, lowered.PhysicalCopies)

	raised, err := adjust.Execute(ctx, view.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, raised.PhysicalCopies)

	same, err := adjust.Execute(ctx, view.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, same.PhysicalCopies)

	zero, err := adjust.Execute(ctx, view.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, zero.PhysicalCopies)

	_, err = adjust.Execute(ctx, view.ID, -1)
	assert.ErrorIs(t, err, book.ErrInvalidStock)
	_, err = adjust.Execute(ctx, 99, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	sold, err := repo.ledger.Sold(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sold)
}

func TestAdjustStock_ConflictLeavesStockUntouched(t *testing.T) {
	repo := newMemRepo()
	ledger := &staleLedger{Ledger: repo.ledger, extra: 10}
	svc := book.NewService(repo, ledger)
	ctx := context.Background()
	view, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{Title: "SICP", Price: 500, PhysicalCopies: 5})
	require.NoError(t, err)

	_, err = NewAdjustStockUseCase(svc).Execute(ctx, view.ID, 2)
	assert.ErrorIs(t, err, book.ErrStockAdjustConflict)
	assert.Equal(t, 3, ledger.tryReduces)

	n, err := repo.ledger.GetAvailable(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestDeleteBook(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	view, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{Title: "TAOCP", Price: 9900, PhysicalCopies: 1})
	require.NoError(t, err)

	require.NoError(t, NewDeleteBookUseCase(svc).Execute(ctx, view.ID))

	_, err = NewGetBookUseCase(svc).Execute(ctx, view.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, NewDeleteBookUseCase(svc).Execute(ctx, view.ID), book.ErrBookNotFound)
}

func TestListBooks_Paging(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		_, err := NewPublishBookUseCase(svc).Execute(ctx, PublishBookRequest{Title: title, Price: 100})
		require.NoError(t, err)
	}

	resp, err := NewListBooksUseCase(svc).Execute(ctx, ListBooksRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)

	resp, err = NewListBooksUseCase(svc).Execute(ctx, ListBooksRequest{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.PageSize)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "19.98", FormatPrice(1998))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "-1.20", FormatPrice(-120))
}
