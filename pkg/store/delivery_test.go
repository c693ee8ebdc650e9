package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/models"
)

// newDeferredStore starts a Store whose feed delivers nothing until the test
// calls the returned handlers, the way a remote source replays its history
// on its own goroutine some time after Subscribe returns.
func newDeferredStore(t *testing.T) (*Store, map[string]func(json.RawMessage)) {
	t.Helper()

	ctrl := gomock.NewController(t)
	src := feed.NewMockSource(ctrl)

	handlers := make(map[string]func(json.RawMessage))

	src.EXPECT().Subscribe(gomock.Any(), gomock.Any()).
		DoAndReturn(func(path string, fn func(json.RawMessage)) (feed.Unsubscribe, error) {
			handlers[path] = fn
			return func() {}, nil
		}).Times(4)

	s := New(src)
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)

	return s, handlers
}

func alertsRaw(n int) json.RawMessage {
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(`"a%04d":{"type":"motion","nodeId":"node1","timestamp":%d}`, i, i))
	}

	return json.RawMessage("{" + strings.Join(parts, ",") + "}")
}

func TestStore_FirstFeedDeliveryReplacesInitialCall(t *testing.T) {
	s, handlers := newDeferredStore(t)

	var got [][]models.Alert

	_, err := s.SubscribeAlerts(func(alerts []models.Alert) { got = append(got, alerts) })
	require.NoError(t, err)

	// nothing loaded yet, so no empty collection is handed out
	assert.Empty(t, got)
	assert.False(t, s.Loaded(PathAlertHistory))

	handlers[PathAlertHistory](alertsRaw(3))

	require.Len(t, got, 1)
	assert.Len(t, got[0], 3)
	assert.True(t, s.Loaded(PathAlertHistory))

	// a listener added after the feed loaded gets the current collection
	var late [][]models.Alert

	_, err = s.SubscribeAlerts(func(alerts []models.Alert) { late = append(late, alerts) })
	require.NoError(t, err)

	require.Len(t, late, 1)
	assert.Len(t, late[0], 3)

	handlers[PathAlertHistory](alertsRaw(4))

	assert.Len(t, got, 2)
	assert.Len(t, late, 2)
}

func TestStore_NodesWaitForFeed(t *testing.T) {
	s, handlers := newDeferredStore(t)

	calls := 0

	_, err := s.SubscribeNodes(func([]models.Node) { calls++ })
	require.NoError(t, err)
	assert.Zero(t, calls)

	handlers[PathNodes](json.RawMessage(`{"node1":{"name":"North"}}`))
	assert.Equal(t, 1, calls)
}

func TestStore_InitialCallOrderedBeforeLaterDeliveries(t *testing.T) {
	s, handlers := newDeferredStore(t)

	handlers[PathAlertHistory](alertsRaw(1))

	var got []int

	_, err := s.SubscribeAlerts(func(alerts []models.Alert) {
		got = append(got, len(alerts))

		if len(got) > 1 {
			return
		}

		// another goroutine publishes while the initial call is running
		var wg sync.WaitGroup

		wg.Add(1)

		go func() {
			defer wg.Done()
			handlers[PathAlertHistory](alertsRaw(2))
		}()

		wg.Wait()
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, got)
}

func TestStore_ConcurrentSubscribeNeverSeesStaleCollection(t *testing.T) {
	s, handlers := newDeferredStore(t)

	const (
		writes      = 200
		subscribers = 20
	)

	seen := make([][]int, subscribers)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for n := 1; n <= writes; n++ {
			handlers[PathAlertHistory](alertsRaw(n))
		}
	}()

	for i := 0; i < subscribers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := s.SubscribeAlerts(func(alerts []models.Alert) {
				seen[i] = append(seen[i], len(alerts))
			})
			assert.NoError(t, err)
		}(i)
	}

	// every drainer is one of these goroutines
	wg.Wait()

	for i, lens := range seen {
		require.NotEmpty(t, lens, "subscriber %d", i)

		for j := 1; j < len(lens); j++ {
			assert.Greater(t, lens[j], lens[j-1], "subscriber %d call %d", i, j)
		}

		assert.Equal(t, writes, lens[len(lens)-1], "subscriber %d", i)
	}
}
