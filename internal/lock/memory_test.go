package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerExclusive(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "reassign:p1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "reassign:p1")
	assert.ErrorIs(t, err, ErrHeld)

	other, err := l.Acquire(ctx, "reassign:p2")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "reassign:p1")
	require.NoError(t, err)
	again()
}

func TestMemoryLockerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryLocker().Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryLockerConcurrentAcquire(t *testing.T) {
	l := NewMemoryLocker()
	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		start   = make(chan struct{})
	)
	releases := make(chan func(), 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if release, err := l.Acquire(context.Background(), "k"); err == nil {
				holders.Add(1)
				releases <- release
			}
		}()
	}
	close(start)
	wg.Wait()
	close(releases)

	assert.Equal(t, int32(1), holders.Load())
	for release := range releases {
		release()
	}
}
