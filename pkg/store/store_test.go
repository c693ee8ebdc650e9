package store

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) (*Store, *feed.MemorySource) {
	t.Helper()

	src := feed.NewMemorySource()
	s := New(src, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	require.NoError(t, s.Start())

	t.Cleanup(s.Close)

	return s, src
}

type countingObserver struct {
	deliveries map[string]int
	fires      []string
}

func (o *countingObserver) FeedDelivered(path string, _ int) {
	if o.deliveries == nil {
		o.deliveries = make(map[string]int)
	}

	o.deliveries[path]++
}

func (o *countingObserver) FireTriggered(nodeID string) {
	o.fires = append(o.fires, nodeID)
}

func TestStore_SubscribeBeforeStart(t *testing.T) {
	s := New(feed.NewMemorySource())

	_, err := s.SubscribeNodes(func([]models.Node) {})
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
	s.Close()
}

func TestStore_StartSubscribeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := feed.NewMockSource(ctrl)

	released := 0
	unsub := feed.Unsubscribe(func() { released++ })

	src.EXPECT().Subscribe(PathNodes, gomock.Any()).Return(unsub, nil)
	src.EXPECT().Subscribe(PathAlertHistory, gomock.Any()).Return(nil, feed.ErrClosed)

	s := New(src)
	err := s.Start()

	require.Error(t, err)
	assert.ErrorIs(t, err, feed.ErrClosed)
	assert.Equal(t, 1, released)
}

func TestStore_DeliversFullCollections(t *testing.T) {
	s, src := newTestStore(t)
	ctx := context.Background()

	var got [][]models.Alert

	unsub, err := s.SubscribeAlerts(func(alerts []models.Alert) {
		got = append(got, alerts)
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Empty(t, got[0])

	require.NoError(t, s.RecordAlert(ctx, models.Alert{
		ID: "a1", Kind: models.KindGun, NodeID: "node1",
		Timestamp: fixedNow.Add(-time.Minute), Severity: models.SeverityCritical,
	}))
	require.NoError(t, s.RecordAlert(ctx, models.Alert{
		ID: "a2", Kind: models.KindMotion, NodeID: "node2", Timestamp: fixedNow,
	}))

	require.Len(t, got, 3)
	require.Len(t, got[2], 2)
	assert.Equal(t, "a2", got[2][0].ID)
	assert.Equal(t, models.SeverityInfo, got[2][0].Severity)
	assert.Equal(t, "a1", got[2][1].ID)

	// same id replaces
	require.NoError(t, s.RecordAlert(ctx, models.Alert{
		ID: "a1", Kind: models.KindGun, NodeID: "node1",
		Timestamp: fixedNow.Add(time.Minute), Description: "Gunshot Detected",
	}))

	require.Len(t, got, 4)
	require.Len(t, got[3], 2)
	assert.Equal(t, "a1", got[3][0].ID)
	assert.Equal(t, "Gunshot Detected", got[3][0].Description)

	unsub()

	require.NoError(t, src.Set(ctx, "alertHistory/a9", map[string]string{"type": "fire"}))
	assert.Len(t, got, 4)

	assert.Len(t, s.Snapshot().Alerts, 3)
}

func TestStore_SnapshotMergesFeeds(t *testing.T) {
	obs := &countingObserver{}
	s, _ := newTestStore(t, WithObserver(obs))

	require.NoError(t, s.Seed(context.Background()))

	snap := s.Snapshot()
	assert.Len(t, snap.Nodes, 5)
	assert.Len(t, snap.Alerts, 6)
	assert.Len(t, snap.Connections, 10)
	assert.Equal(t, models.NetworkStatus{ActiveNodes: 1, TotalNodes: 4}, snap.NetworkStatus)
	assert.Equal(t, fixedNow, snap.UpdatedAt)

	n1, ok := snap.Node("node1")
	require.True(t, ok)
	assert.Equal(t, "Node #01", n1.Name)
	assert.Equal(t, "Sector A", n1.Sector)
	assert.GreaterOrEqual(t, n1.SignalStrength, 50)
	assert.LessOrEqual(t, n1.SignalStrength, 100)

	n5, ok := snap.Node("node5")
	require.True(t, ok)
	assert.Equal(t, models.RoleGateway, n5.Role)

	n2, _ := snap.Node("node2")
	assert.Equal(t, 0, n2.Battery)

	assert.Equal(t, "alert6", snap.Alerts[0].ID)
	assert.Equal(t, 5, obs.deliveries[PathNodes]-1)
}

func TestStore_SeedIfEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seeded, err := s.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = s.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestStore_CreateNodeAssignsNextID(t *testing.T) {
	s, src := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, src.Set(ctx, "nodes/node2", map[string]string{"name": "two"}))
	require.NoError(t, src.Set(ctx, "nodes/node9", map[string]string{"name": "nine"}))
	require.NoError(t, src.Set(ctx, "nodes/gateway", map[string]string{"name": "gw"}))
	require.NoError(t, src.Set(ctx, "networkStatus", map[string]interface{}{"activeNodes": 3, "totalNodes": 5, "networkHealth": 60}))

	n, err := s.CreateNode(ctx, &models.Node{Name: "Ridge", Sector: "Sector F", Battery: 100, SignalStrength: 95})
	require.NoError(t, err)
	assert.Equal(t, "node10", n.ID)
	assert.Equal(t, fixedNow, n.LastActivity)
	assert.Equal(t, models.FallbackLocation, n.Location)

	snap := s.Snapshot()
	created, ok := snap.Node("node10")
	require.True(t, ok)
	assert.Equal(t, "Ridge", created.Name)
	assert.Equal(t, 95, created.SignalStrength)
	assert.False(t, created.AlertActive(models.KindFire))
	assert.Equal(t, models.NetworkStatus{ActiveNodes: 4, TotalNodes: 6}, snap.NetworkStatus)

	raw, err := src.Get(ctx, "networkStatus/networkHealth")
	require.NoError(t, err)
	assert.JSONEq(t, "60", string(raw))
}

func TestStore_CreateNodeOnEmptyFeed(t *testing.T) {
	s, _ := newTestStore(t)

	n, err := s.CreateNode(context.Background(), &models.Node{})
	require.NoError(t, err)
	assert.Equal(t, "node1", n.ID)
	assert.Equal(t, "Node #1", n.Name)
	assert.Equal(t, models.NetworkStatus{ActiveNodes: 1, TotalNodes: 1}, s.Snapshot().NetworkStatus)

	_, err = s.CreateNode(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = s.CreateNode(context.Background(), &models.Node{ID: "bad.id"})
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestStore_FireTriggeredIsEdgeTriggered(t *testing.T) {
	obs := &countingObserver{}
	s, _ := newTestStore(t, WithFireWatch("node1"), WithObserver(obs))
	ctx := context.Background()

	var events []models.FireEvent

	_, err := s.OnFireTriggered(func(ev models.FireEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	_, err = s.CreateNode(ctx, &models.Node{ID: "node1"})
	require.NoError(t, err)
	_, err = s.CreateNode(ctx, &models.Node{ID: "node2"})
	require.NoError(t, err)

	require.NoError(t, s.SetNodeAlertFlag(ctx, "node1", models.KindFire, true))
	require.Len(t, events, 1)
	assert.Equal(t, "node1", events[0].NodeID)
	assert.Equal(t, models.SeverityCritical, events[0].Severity)
	assert.Equal(t, "Fire Detected", events[0].Description)

	// unrelated change re-delivers nodes with fire still active
	require.NoError(t, s.SetNodeAlertFlag(ctx, "node1", models.KindGun, true))
	assert.Len(t, events, 1)

	// node2 is not watched
	require.NoError(t, s.SetNodeAlertFlag(ctx, "node2", models.KindFire, true))
	assert.Len(t, events, 1)

	require.NoError(t, s.SetNodeAlertFlag(ctx, "node1", models.KindFire, false))
	assert.Len(t, events, 1)

	require.NoError(t, s.SetNodeAlertFlag(ctx, "node1", models.KindFire, true))
	assert.Len(t, events, 2)
	assert.Equal(t, []string{"node1", "node1"}, obs.fires)
}

func TestStore_FireFlagAsNumber(t *testing.T) {
	s, src := newTestStore(t)
	ctx := context.Background()

	var events []models.FireEvent

	_, err := s.OnFireTriggered(func(ev models.FireEvent) { events = append(events, ev) })
	require.NoError(t, err)

	require.NoError(t, src.Set(ctx, "nodes/node3/alerts/fire", 1))
	require.Len(t, events, 1)
	assert.Equal(t, "node3", events[0].NodeID)
}

func TestStore_ReplayDoesNotRefire(t *testing.T) {
	s, _ := newTestStore(t)

	var events int

	_, err := s.OnFireTriggered(func(models.FireEvent) { events++ })
	require.NoError(t, err)

	raw := json.RawMessage(`{"node1":{"alerts":{"fire":true}}}`)
	s.applyNodes(raw)
	s.applyNodes(raw)
	s.applyNodes(raw)

	assert.Equal(t, 1, events)
}

func TestStore_AddConnectionDedup(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddConnection(ctx, models.NetworkConnection{Source: "node1", Target: "node2", Strength: 50})
	require.NoError(t, err)
	_, err = s.AddConnection(ctx, models.NetworkConnection{Source: "node2", Target: "node1", Strength: 150})
	require.NoError(t, err)

	conns := s.Snapshot().Connections
	require.Len(t, conns, 1)
	assert.Equal(t, 100, conns[0].Strength)

	_, err = s.AddConnection(ctx, models.NetworkConnection{Source: "node1"})
	assert.ErrorIs(t, err, ErrInvalidConn)
}

func TestStore_SetFleetActivationSignal(t *testing.T) {
	s, src := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFleetActivationSignal(ctx))

	raw, err := src.Get(ctx, PathActivate)
	require.NoError(t, err)
	assert.Equal(t, "1", string(raw))
}

func TestStore_SetFleetActivationSignalFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := feed.NewMockSource(ctrl)
	boom := errors.New("permission denied")

	src.EXPECT().Set(gomock.Any(), PathActivate, 1).Return(boom).Times(1)

	s := New(src)
	err := s.SetFleetActivationSignal(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActivation)
	assert.ErrorIs(t, err, boom)
}

func TestStore_RecordAlertValidation(t *testing.T) {
	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.RecordAlert(context.Background(), models.Alert{Kind: models.KindGun}), ErrInvalidAlert)
	assert.ErrorIs(t, s.RecordAlert(context.Background(), models.Alert{ID: "x"}), ErrInvalidAlert)
	assert.ErrorIs(t, s.SetNodeAlertFlag(context.Background(), "", models.KindFire, true), ErrInvalidNode)
}

func TestRandomAlert(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	_, ok := RandomAlert(nil, fixedNow, r)
	assert.False(t, ok)

	a, ok := RandomAlert([]string{"node1", "node5"}, fixedNow, r)
	require.True(t, ok)
	assert.Contains(t, []string{"node1", "node5"}, a.NodeID)
	assert.Contains(t, kindDescriptions[a.Kind], a.Description)
	assert.Equal(t, models.SeverityCritical, a.Severity)
	assert.Equal(t, fixedNow, a.Timestamp)
}
