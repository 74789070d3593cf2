package taskpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ResolvesValueAndError(t *testing.T) {
	pool := New(2, 4)
	defer pool.Stop()

	ok, err := Submit(pool, func() (int, error) { return 42, nil })
	require.NoError(t, err)

	failed, err := Submit(pool, func() (int, error) { return 0, errors.New("boom") })
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := ok.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = failed.Wait(ctx)
	require.EqualError(t, err, "boom")
}

func TestSubmit_SaturationRejects(t *testing.T) {
	pool := New(1, 1)
	defer pool.Stop()

	block := make(chan struct{})
	// Occupy the single worker, then fill the single queue slot.
	_, err := Submit(pool, func() (struct{}, error) {
		<-block
		return struct{}{}, nil
	})
	require.NoError(t, err)

	// The worker may not have dequeued yet, so allow one extra accepted task.
	accepted := 0
	for i := 0; i < 3; i++ {
		if _, err := Submit(pool, func() (struct{}, error) { return struct{}{}, nil }); err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, ErrSaturated)
		}
	}
	assert.LessOrEqual(t, accepted, 2)

	close(block)
}

func TestSubmit_AfterStop(t *testing.T) {
	pool := New(1, 1)
	pool.Stop()

	_, err := Submit(pool, func() (int, error) { return 1, nil })
	require.ErrorIs(t, err, ErrStopped)
}

func TestWait_ContextCancelled(t *testing.T) {
	pool := New(1, 1)
	defer pool.Stop()

	block := make(chan struct{})
	defer close(block)
	h, err := Submit(pool, func() (int, error) {
		<-block
		return 1, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStop_DrainsQueuedWork(t *testing.T) {
	pool := New(2, 8)
	handles := make([]*Handle[int], 0, 8)
	for i := 0; i < 8; i++ {
		i := i
		h, err := Submit(pool, func() (int, error) { return i, nil })
		if err != nil {
			require.ErrorIs(t, err, ErrSaturated)
			continue
		}
		handles = append(handles, h)
	}
	pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, h := range handles {
		_, err := h.Wait(ctx)
		require.NoError(t, err)
	}
}
