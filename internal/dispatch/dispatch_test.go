package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherRunsTaskOnceAndDropsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := New(FireAndForget, zap.New(core))

	var calls atomic.Int32
	d.Go(context.Background(), "products.save", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("connection refused")
	})
	require.NoError(t, d.Drain(time.Second))

	assert.Equal(t, int32(1), calls.Load(), "no retries")
	assert.Equal(t, Stats{Dispatched: 1, Failed: 1}, d.Stats())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "products.save", entry.ContextMap()["task"])
}

func TestDispatcherDetachesFromCallerCancellation(t *testing.T) {
	d := New(FireAndForget, nil)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancel atomic.Bool

	d.Go(ctx, "orders.create", func(ctx context.Context) error {
		close(started)
		<-release
		sawCancel.Store(ctx.Err() != nil)
		return nil
	})
	<-started
	cancel()
	close(release)

	require.NoError(t, d.Drain(time.Second))
	assert.False(t, sawCancel.Load())
	assert.Equal(t, int64(1), d.Stats().Succeeded)
}

func TestDispatcherRetriesWhenConfigured(t *testing.T) {
	d := New(Policy{MaxAttempts: 3}, nil)
	var calls atomic.Int32
	d.Go(context.Background(), "flaky", func(ctx context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("try again")
		}
		return nil
	})
	require.NoError(t, d.Drain(time.Second))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(1), d.Stats().Succeeded)
}

func TestDispatcherTimeoutBoundsAttempt(t *testing.T) {
	d := New(Policy{MaxAttempts: 1, Timeout: 10 * time.Millisecond}, nil)
	d.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, d.Drain(time.Second))
	assert.Equal(t, int64(1), d.Stats().Failed)
}

func TestDispatcherRejectsAfterDrain(t *testing.T) {
	d := New(FireAndForget, nil)
	require.NoError(t, d.Drain(0))

	ran := false
	d.Go(context.Background(), "late", func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.False(t, ran)
	assert.Equal(t, int64(1), d.Stats().Rejected)
}

func TestDispatcherDrainTimeout(t *testing.T) {
	d := New(FireAndForget, nil)
	block := make(chan struct{})
	defer close(block)
	d.Go(context.Background(), "stuck", func(ctx context.Context) error {
		<-block
		return nil
	})
	assert.ErrorIs(t, d.Drain(20*time.Millisecond), ErrDrainTimeout)
}

func TestInlineRunsSynchronously(t *testing.T) {
	i := NewInline(FireAndForget, nil)
	ran := false
	i.Go(context.Background(), "settings.put", func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.True(t, ran)

	i.Go(context.Background(), "settings.put", func(ctx context.Context) error {
		return errors.New("boom")
	})
	assert.Equal(t, Stats{Dispatched: 2, Succeeded: 1, Failed: 1}, i.Stats())
}
