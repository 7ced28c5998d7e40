package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readingroom/internal/domain/book"
)

func TestLedger_TryReduce(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.Seed(1, 5, 0)

	ok, err := l.TryReduce(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryReduce(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok, "库存不足时不应扣减")

	available, err := l.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, available)
}

func TestLedger_Errors(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.Seed(1, 5, 0)

	_, err := l.TryReduce(ctx, 99, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = l.TryReduce(ctx, 1, -1)
	assert.ErrorIs(t, err, book.ErrInvalidQuantity)
	assert.ErrorIs(t, l.Increase(ctx, 1, -2), book.ErrInvalidQuantity)
	assert.ErrorIs(t, l.RecordSold(ctx, 1, -2), book.ErrInvalidQuantity)

	available, _ := l.GetAvailable(ctx, 1)
	assert.Equal(t, 5, available, "非法参数不应产生任何修改")
}

func TestLedger_IncreaseAndRecordSold(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.Seed(1, 0, 4)

	require.NoError(t, l.Increase(ctx, 1, 3))
	require.NoError(t, l.RecordSold(ctx, 1, 2))

	available, _ := l.GetAvailable(ctx, 1)
	sold, _ := l.Sold(1)
	assert.Equal(t, 3, available)
	assert.Equal(t, 6, sold)
}

func TestLedger_ConcurrentTryReduceNeverOversells(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.Seed(1, 10, 0)

	var succeeded int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.TryReduce(ctx, 1, 1)
			if err == nil && ok {
				atomic.AddInt64(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	available, _ := l.GetAvailable(ctx, 1)
	assert.Equal(t, int64(10), succeeded)
	assert.Equal(t, 0, available)
}
