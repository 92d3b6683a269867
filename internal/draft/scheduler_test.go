package draft

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
)

func TestSchedulerTicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(func(context.Context, string) error {
		ticks.Add(1)
		return nil
	})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	assert.False(t, s.Start("d-1", 5*time.Millisecond), "a draft has at most one ticker")
	assert.Equal(t, 1, s.Count())

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop("d-1")
	assert.False(t, s.IsActive("d-1"))
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	// one tick may already have been in flight
	assert.LessOrEqual(t, ticks.Load(), stopped+1)
}

func TestSchedulerDropsCorruptDrafts(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(func(context.Context, string) error {
		ticks.Add(1)
		return apperrors.StateCorruptionf("broken")
	})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	assert.Eventually(t, func() bool { return !s.IsActive("d-1") }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), ticks.Load())
}

func TestSchedulerKeepsTickingAfterTransientErrors(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(func(context.Context, string) error {
		n := ticks.Add(1)
		if n%2 == 0 {
			return apperrors.ConcurrentTickf("busy")
		}
		return errors.New("store unavailable")
	})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	assert.Eventually(t, func() bool { return ticks.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.IsActive("d-1"))
}

func TestSchedulerStopInsideTick(t *testing.T) {
	var s *Scheduler
	var ticks atomic.Int32
	s = NewScheduler(func(_ context.Context, id string) error {
		ticks.Add(1)
		s.Stop(id)
		return nil
	})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	assert.Eventually(t, func() bool { return !s.IsActive("d-1") }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), ticks.Load())
}

func TestSchedulerShutdownWaitsForInFlightTick(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	s := NewScheduler(func(ctx context.Context, _ string) error {
		select {
		case entered <- struct{}{}:
		default:
			return nil
		}
		<-release
		// the tick context outlives the ticker
		if ctx.Err() == nil {
			finished.Store(true)
		}
		return nil
	})

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	<-entered

	done := make(chan error)
	go func() { done <- s.Shutdown(context.Background()) }()

	select {
	case <-done:
		t.Fatal("shutdown returned before the tick finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	assert.True(t, finished.Load())
	assert.False(t, s.Start("d-2", time.Millisecond), "no tickers after shutdown")
}

func TestSchedulerShutdownHonorsDeadline(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	s := NewScheduler(func(context.Context, string) error {
		select {
		case entered <- struct{}{}:
			<-release
		default:
		}
		return nil
	})
	defer close(release)

	require.True(t, s.Start("d-1", 5*time.Millisecond))
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Shutdown(ctx), context.DeadlineExceeded)
}
