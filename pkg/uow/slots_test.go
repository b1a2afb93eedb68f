package uow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotPoolAcquireRelease(t *testing.T) {
	pool := newSlotPool(2, 50*time.Millisecond)

	require.NoError(t, pool.acquire(context.Background()))
	require.NoError(t, pool.acquire(context.Background()))

	// пул заполнен, третий захват должен отвалиться по таймауту.
	err := pool.acquire(context.Background())
	require.ErrorIs(t, err, ErrSlotTimeout)

	pool.release()
	require.NoError(t, pool.acquire(context.Background()))
}

func TestSlotPoolContextCancel(t *testing.T) {
	pool := newSlotPool(1, time.Minute)
	require.NoError(t, pool.acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlotPoolWaitsForFreeSlot(t *testing.T) {
	pool := newSlotPool(1, time.Second)
	require.NoError(t, pool.acquire(context.Background()))

	go func() {
		time.Sleep(20 * time.Millisecond)
		pool.release()
	}()

	start := time.Now()
	require.NoError(t, pool.acquire(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}
