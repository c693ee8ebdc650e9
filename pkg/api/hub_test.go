package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/fleet"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

func startHub(t *testing.T, opts ...HubOption) (*Hub, string) {
	t.Helper()

	hub := NewHub(logger.Discard(), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = hub.Run(ctx)
	}()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))

	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &ev))

	return ev
}

func eventType(t *testing.T, ev map[string]json.RawMessage) string {
	t.Helper()

	var typ string
	require.NoError(t, json.Unmarshal(ev["type"], &typ))

	return typ
}

func TestHub_BroadcastAndStickyReplay(t *testing.T) {
	var clients atomic.Int64

	hub, url := startHub(t, WithClientCounter(func(n int) { clients.Store(int64(n)) }))

	first := dial(t, url)
	require.Eventually(t, func() bool { return clients.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Open(models.Prompt{ID: "p1", Title: "Gun detected"})
	hub.Play(models.SeverityCritical)

	ev := readEvent(t, first)
	assert.Equal(t, EventPrompt, eventType(t, ev))
	assert.Contains(t, string(ev["payload"]), `"p1"`)

	ev = readEvent(t, first)
	assert.Equal(t, EventCue, eventType(t, ev))
	assert.Contains(t, string(ev["payload"]), "critical")

	// A console joining later sees the open prompt immediately.
	second := dial(t, url)
	require.Eventually(t, func() bool { return clients.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	ev = readEvent(t, second)
	assert.Equal(t, EventPrompt, eventType(t, ev))

	require.NoError(t, hub.Notify(context.Background(), models.Notification{Title: "Deployed"}))

	for _, conn := range []*websocket.Conn{first, second} {
		ev = readEvent(t, conn)
		assert.Equal(t, EventNotification, eventType(t, ev))
	}
}

func TestHub_CloseClearsStickyPrompt(t *testing.T) {
	hub, url := startHub(t)

	hub.Open(models.Prompt{ID: "p1"})
	hub.Close("p1")
	hub.PublishFleet(models.FleetSummary{OnStation: 4})
	require.Eventually(t, func() bool { return len(hub.broadcast) == 0 }, 2*time.Second, 10*time.Millisecond)

	conn := dial(t, url)

	// Only the fleet summary is replayed; the prompt was closed.
	ev := readEvent(t, conn)
	assert.Equal(t, EventFleet, eventType(t, ev))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestHub_NotifyHonoursContext(t *testing.T) {
	hub := NewHub(logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, hub.Notify(ctx, models.Notification{}), context.Canceled)
}

func TestHub_PublishDropsWhenBusy(t *testing.T) {
	hub := NewHub(logger.Discard())

	// No Run loop: the buffer fills and further events are dropped.
	for i := 0; i < broadcastBuffer; i++ {
		require.NoError(t, hub.Notify(context.Background(), models.Notification{}))
	}

	require.ErrorIs(t, hub.Notify(context.Background(), models.Notification{}), ErrHubBusy)
}

func TestStream_PublishesStateAndFleet(t *testing.T) {
	ctrl := gomock.NewController(t)
	state := NewMockStateStore(ctrl)
	fleetView := NewMockFleetView(ctrl)

	alertsFn := make(chan store.AlertsFunc, 1)

	noop := store.Unsubscribe(func() {})

	state.EXPECT().SubscribeNodes(gomock.Any()).Return(noop, nil)
	state.EXPECT().SubscribeAlerts(gomock.Any()).DoAndReturn(func(fn store.AlertsFunc) (store.Unsubscribe, error) {
		alertsFn <- fn
		return noop, nil
	})
	state.EXPECT().SubscribeConnections(gomock.Any()).Return(noop, nil)
	state.EXPECT().SubscribeNetworkStatus(gomock.Any()).Return(noop, nil)
	state.EXPECT().Snapshot().Return(&store.Snapshot{Alerts: []models.Alert{{ID: "a1"}}}).AnyTimes()

	changes := make(chan fleet.StatusChange, 1)
	fleetView.EXPECT().Watch(fleetWatchBuffer).Return((<-chan fleet.StatusChange)(changes), func() {})
	fleetView.EXPECT().Summary().Return(models.FleetSummary{OnStation: 4}).Times(2)

	hub := NewHub(logger.Discard())
	s := NewAPIServer(&Config{State: state, Fleet: fleetView, Hub: hub, Logger: logger.Discard()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Stream(ctx) }()

	require.Eventually(t, func() bool { return len(hub.broadcast) == 1 }, 2*time.Second, 5*time.Millisecond)

	(<-alertsFn)(nil)
	changes <- fleet.StatusChange{UnitID: "drone-1", To: models.UnitOnMission}

	require.Eventually(t, func() bool { return len(hub.broadcast) == 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	types := make([]string, 0, 3)
	for len(hub.broadcast) > 0 {
		types = append(types, (<-hub.broadcast).typ)
	}

	assert.ElementsMatch(t, []string{EventFleet, EventSnapshot, EventFleet}, types)
}
