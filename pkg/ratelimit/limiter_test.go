package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when a limiter sleeps on it. oversleep models
// a wakeup that runs late.
type fakeClock struct {
	mu        sync.Mutex
	t         time.Time
	oversleep time.Duration
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.t = c.t.Add(d + c.oversleep)
	c.mu.Unlock()

	return nil
}

// advance moves time forward outside of any sleep.
func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newRecordingLimiter(interval time.Duration, opts ...Option) (*Limiter, func() []time.Time) {
	l := New(interval, opts...)

	var (
		mu     sync.Mutex
		starts []time.Time
	)

	l.onAcquire = func(at time.Time) {
		mu.Lock()
		starts = append(starts, at)
		mu.Unlock()
	}

	return l, func() []time.Time {
		mu.Lock()
		defer mu.Unlock()

		return append([]time.Time(nil), starts...)
	}
}

func assertEveryPairSpaced(t *testing.T, starts []time.Time, interval time.Duration) {
	t.Helper()

	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval, "pair %d", i)
	}
}

func TestLimiter_SequentialSpacing(t *testing.T) {
	const interval = 30 * time.Millisecond

	l, starts := newRecordingLimiter(interval)
	ctx := context.Background()

	for range 4 {
		require.NoError(t, l.Acquire(ctx))
	}

	require.Len(t, starts(), 4)
	assertEveryPairSpaced(t, starts(), interval)
}

func TestLimiter_ConcurrentCallersSerialize(t *testing.T) {
	const interval = 10 * time.Millisecond

	l, starts := newRecordingLimiter(interval)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}

	wg.Wait()

	require.Len(t, starts(), 8)
	assertEveryPairSpaced(t, starts(), interval)
}

func TestLimiter_FloorHoldsUnderManyCallers(t *testing.T) {
	tests := []struct {
		name      string
		oversleep time.Duration
		idle      time.Duration
	}{
		{name: "punctual wakeups"},
		{name: "late wakeups", oversleep: 7 * time.Millisecond},
		{name: "callers arrive after idle gaps", idle: 4 * time.Millisecond},
		{name: "late wakeups and idle gaps", oversleep: 3 * time.Millisecond, idle: 13 * time.Millisecond},
	}

	const (
		interval = 10 * time.Millisecond
		callers  = 200
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), oversleep: tt.oversleep}
			l, starts := newRecordingLimiter(interval, WithClock(clock.now, clock.sleep))

			var wg sync.WaitGroup

			for i := range callers {
				wg.Add(1)

				go func() {
					defer wg.Done()

					if i%5 == 0 {
						clock.advance(tt.idle)
					}

					assert.NoError(t, l.Acquire(context.Background()))
				}()
			}

			wg.Wait()

			got := starts()
			require.Len(t, got, callers)
			assertEveryPairSpaced(t, got, interval)
		})
	}
}

func TestLimiter_LateWakeupDoesNotShortenNextGap(t *testing.T) {
	const interval = 10 * time.Millisecond

	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l, starts := newRecordingLimiter(interval, WithClock(clock.now, clock.sleep))
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))

	// the second start lands 6ms past its reservation
	clock.oversleep = 6 * time.Millisecond
	require.NoError(t, l.Acquire(ctx))

	clock.oversleep = 0
	require.NoError(t, l.Acquire(ctx))

	got := starts()
	require.Len(t, got, 3)
	assert.Equal(t, 16*time.Millisecond, got[1].Sub(got[0]))
	assert.Equal(t, interval, got[2].Sub(got[1]))
}

func TestLimiter_ContextCancelled(t *testing.T) {
	l := New(time.Hour)

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_CancelledWhileQueued(t *testing.T) {
	l := New(time.Hour)

	// hold the slot so the next caller queues behind it
	l.slot <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	require.ErrorIs(t, err, ErrAcquire)
	assert.ErrorIs(t, err, context.Canceled)

	<-l.slot
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval())
	assert.Equal(t, 5*time.Second, New(5*time.Second).Interval())
}
