package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmarket/orders/internal/domains/orders/adapters/memory"
	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/shared/apierr"
	"github.com/openmarket/orders/internal/shared/taskpool"
)

func newAsyncFixture(t *testing.T) (*Service, *Async) {
	t.Helper()
	repo := memory.NewRepository()
	svc := NewService(repo, knownUsers(7))
	pool := taskpool.New(2, 8)
	t.Cleanup(pool.Stop)
	return svc, NewAsync(svc, pool)
}

func TestAsync_GetOrderMatchesBlocking(t *testing.T) {
	svc, async := newAsyncFixture(t)
	created, err := svc.CreateOrder(context.Background(), bakerStreetOrder())
	require.NoError(t, err)

	blocking, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	handle, err := async.GetOrderAsync(context.Background(), created.ID)
	require.NoError(t, err)
	deferred, err := handle.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, blocking, deferred, "both paths must yield the same payload")
}

func TestAsync_CreateOrderPersists(t *testing.T) {
	svc, async := newAsyncFixture(t)

	handle, err := async.CreateOrderAsync(context.Background(), bakerStreetOrder())
	require.NoError(t, err)
	view, err := handle.Wait(context.Background())
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view, got)
}

func TestAsync_ErrorsKeepClassification(t *testing.T) {
	_, async := newAsyncFixture(t)

	handle, err := async.GetOrderAsync(context.Background(), 404404)
	require.NoError(t, err, "submission itself succeeds")
	_, err = handle.Wait(context.Background())

	var typed apierr.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apierr.CodeNotFound, typed.Code)
}

func TestAsync_DeleteResolves(t *testing.T) {
	svc, async := newAsyncFixture(t)
	created, err := svc.CreateOrder(context.Background(), bakerStreetOrder())
	require.NoError(t, err)

	handle, err := async.DeleteOrderAsync(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = handle.Wait(context.Background())
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), created.ID)
	var typed apierr.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apierr.CodeNotFound, typed.Code)
}

func TestAsync_SaturationRejectsSubmission(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo, knownUsers(7))

	// One worker, zero queue depth: park the worker so the next submit
	// has nowhere to go.
	pool := taskpool.New(1, 0)
	t.Cleanup(pool.Stop)

	release := make(chan struct{})
	started := make(chan struct{})
	var blocker *taskpool.Handle[struct{}]
	require.Eventually(t, func() bool {
		h, err := taskpool.Submit(pool, func() (struct{}, error) {
			close(started)
			<-release
			return struct{}{}, nil
		})
		blocker = h
		return err == nil
	}, time.Second, time.Millisecond, "hand the worker its blocking task")
	<-started

	async := NewAsync(svc, pool)
	_, err := async.ListOrdersAsync(context.Background(), types.ListInput{})
	require.ErrorIs(t, err, taskpool.ErrSaturated)

	close(release)
	_, err = blocker.Wait(context.Background())
	require.NoError(t, err)
}
