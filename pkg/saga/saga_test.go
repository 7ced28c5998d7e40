package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaga_Execute_Success(t *testing.T) {
	var executed []string
	s := NewSaga(5 * time.Second)
	s.AddStep("reserve",
		func(ctx context.Context) error { executed = append(executed, "reserve"); return nil },
		func(ctx context.Context) error { executed = append(executed, "revert"); return nil },
	)
	s.AddStep("persist",
		func(ctx context.Context) error { executed = append(executed, "persist"); return nil },
		nil,
	)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"reserve", "persist"}, executed)
	assert.Equal(t, 2, s.Executed())
}

func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	var executed []string
	errPersist := errors.New("persist failed")

	s := NewSaga(5 * time.Second)
	s.AddStep("a",
		func(ctx context.Context) error { executed = append(executed, "a"); return nil },
		func(ctx context.Context) error { executed = append(executed, "undo-a"); return nil },
	)
	s.AddStep("b",
		func(ctx context.Context) error { executed = append(executed, "b"); return nil },
		func(ctx context.Context) error { executed = append(executed, "undo-b"); return nil },
	)
	s.AddStep("c",
		func(ctx context.Context) error { return errPersist },
		func(ctx context.Context) error { executed = append(executed, "undo-c"); return nil },
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errPersist)
	assert.Contains(t, err.Error(), "步骤[2:c]")

	// 失败的步骤本身不补偿,已完成步骤逆序补偿
	assert.Equal(t, []string{"a", "b", "undo-b", "undo-a"}, executed)
	assert.Equal(t, 0, s.Executed())
}

func TestSaga_Execute_CompensateFailureContinues(t *testing.T) {
	var undone []string
	s := NewSaga(0)
	s.AddStep("a", nil, func(ctx context.Context) error { undone = append(undone, "a"); return nil })
	s.AddStep("b", nil, func(ctx context.Context) error { return errors.New("undo failed") })
	s.AddStep("c", func(ctx context.Context) error { return errors.New("boom") }, nil)

	require.Error(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"a"}, undone)
}

func TestSaga_Execute_Timeout(t *testing.T) {
	var executed []string
	s := NewSaga(50 * time.Millisecond)
	s.AddStep("slow",
		func(ctx context.Context) error {
			executed = append(executed, "slow")
			time.Sleep(100 * time.Millisecond)
			return nil
		},
		func(ctx context.Context) error {
			// 补偿使用独立Context,不受超时影响
			require.NoError(t, ctx.Err())
			executed = append(executed, "undo-slow")
			return nil
		},
	)
	s.AddStep("never", func(ctx context.Context) error { executed = append(executed, "never"); return nil }, nil)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "saga超时")
	assert.Equal(t, []string{"slow", "undo-slow"}, executed)
}

func TestSaga_Execute_CanceledIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undone bool
	s := NewSaga(time.Minute)
	s.AddStep("reserve",
		func(context.Context) error { cancel(); return nil },
		func(context.Context) error { undone = true; return nil },
	)
	s.AddStep("persist", func(context.Context) error { return nil }, nil)

	err := s.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "saga已取消")
	assert.True(t, undone)
}
