package insight

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var runs atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func() { runs.Add(1) })

	for range 5 {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	assert.True(t, d.Pending())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	// let any stray timer fire
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_StopClearsPending(t *testing.T) {
	var runs atomic.Int32

	d := NewDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, runs.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_DoesNotInterruptRunningCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var finished atomic.Int32

	d := NewDebouncer(5*time.Millisecond, func() {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		finished.Add(1)
	})

	d.Trigger()
	<-started

	// a new burst while the first call runs schedules a second call
	d.Trigger()
	close(release)

	assert.Eventually(t, func() bool { return finished.Load() == 2 }, time.Second, 5*time.Millisecond)
}
