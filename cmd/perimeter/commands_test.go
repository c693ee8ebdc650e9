package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

type fakeRecorder struct {
	mu     sync.Mutex
	snap   *store.Snapshot
	alerts []models.Alert
	err    error
}

func (f *fakeRecorder) Snapshot() *store.Snapshot { return f.snap }

func (f *fakeRecorder) RecordAlert(_ context.Context, alert models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.alerts = append(f.alerts, alert)

	return nil
}

func TestSimulate_RecordsAgainstKnownNodes(t *testing.T) {
	rec := &fakeRecorder{snap: &store.Snapshot{Nodes: []models.Node{{ID: "node1"}, {ID: "node2"}}}}

	err := simulate(context.Background(), rec, logger.Discard(), time.Millisecond, 3)
	require.NoError(t, err)

	require.Len(t, rec.alerts, 3)

	for _, a := range rec.alerts {
		assert.Contains(t, []string{"node1", "node2"}, a.NodeID)
		assert.Equal(t, models.SeverityCritical, a.Severity)
	}
}

func TestSimulate_StopsOnContextWithoutNodes(t *testing.T) {
	rec := &fakeRecorder{snap: &store.Snapshot{}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, simulate(ctx, rec, logger.Discard(), time.Millisecond, 0))
	assert.Empty(t, rec.alerts)
}

func TestSimulate_WriteErrorStops(t *testing.T) {
	errWrite := errors.New("feed unavailable")
	rec := &fakeRecorder{snap: &store.Snapshot{Nodes: []models.Node{{ID: "node1"}}}, err: errWrite}

	require.ErrorIs(t, simulate(context.Background(), rec, logger.Discard(), time.Millisecond, 0), errWrite)
}

func TestSimulate_AgainstSeededStore(t *testing.T) {
	st := store.New(feed.NewMemorySource())
	require.NoError(t, st.Start())
	t.Cleanup(st.Close)

	require.NoError(t, st.Seed(context.Background()))

	before := len(st.Snapshot().Alerts)

	require.NoError(t, simulate(context.Background(), st, logger.Discard(), time.Millisecond, 1))

	require.Eventually(t, func() bool { return len(st.Snapshot().Alerts) == before+1 }, time.Second, 5*time.Millisecond)
}

type fakeAnalyst struct {
	reportAlerts  []models.AlertContext
	metrics       models.ReportMetrics
	patternAlerts []models.AlertContext
	window        models.PatternWindow
	err           error
}

func (f *fakeAnalyst) GenerateReport(
	_ context.Context, alerts []models.AlertContext, metrics models.ReportMetrics) (string, error) {
	f.reportAlerts = alerts
	f.metrics = metrics

	return "REPORT", f.err
}

func (f *fakeAnalyst) AnalyzeAlertPatterns(
	_ context.Context, alerts []models.AlertContext, window models.PatternWindow) (string, error) {
	f.patternAlerts = alerts
	f.window = window

	return "PATTERNS", f.err
}

type fakeArchive struct {
	since  time.Time
	alerts []models.Alert
	err    error
}

func (f *fakeArchive) RecentAlerts(_ context.Context, since time.Time, _ int) ([]models.Alert, error) {
	f.since = since

	return f.alerts, f.err
}

func TestWriteReport(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	archive := &fakeArchive{alerts: []models.Alert{
		{ID: "a1", NodeID: "node1", Severity: models.SeverityCritical, Timestamp: now.Add(-10 * time.Minute)},
		{ID: "a2", NodeID: "node1", Severity: models.SeverityInfo, Timestamp: now.Add(-5 * time.Hour)},
	}}
	analyst := &fakeAnalyst{}

	var out bytes.Buffer

	err := writeReport(context.Background(), &out, &reportInput{
		analyst:  analyst,
		archive:  archive,
		nodes:    []models.Node{{ID: "node1", Sector: "Sector A"}},
		status:   models.NetworkStatus{ActiveNodes: 4, TotalNodes: 5},
		since:    24 * time.Hour,
		patterns: "hour",
		now:      now,
	})
	require.NoError(t, err)

	assert.Equal(t, now.Add(-24*time.Hour), archive.since)
	assert.Equal(t, models.ReportMetrics{TotalAlerts: 2, CriticalAlerts: 1, NodesOnline: 4}, analyst.metrics)
	assert.Len(t, analyst.reportAlerts, 2)
	assert.Equal(t, "Sector A", analyst.reportAlerts[0].Sector)

	assert.Equal(t, models.PatternWindow("hour"), analyst.window)
	require.Len(t, analyst.patternAlerts, 1)
	assert.Equal(t, now.Add(-10*time.Minute), analyst.patternAlerts[0].Timestamp)

	assert.Contains(t, out.String(), "REPORT")
	assert.Contains(t, out.String(), "PATTERNS")
}

func TestWriteReport_DegradedStillPrints(t *testing.T) {
	analyst := &fakeAnalyst{err: insight.ErrDegraded}

	var out bytes.Buffer

	err := writeReport(context.Background(), &out, &reportInput{
		analyst: analyst,
		archive: &fakeArchive{},
		since:   time.Hour,
		now:     time.Now(),
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "REPORT")
	assert.Contains(t, out.String(), "report degraded")
	assert.NotContains(t, out.String(), "PATTERNS")
}

func TestWriteReport_ArchiveError(t *testing.T) {
	errArchive := errors.New("locked")

	err := writeReport(context.Background(), &bytes.Buffer{}, &reportInput{
		analyst: &fakeAnalyst{},
		archive: &fakeArchive{err: errArchive},
		now:     time.Now(),
	})

	require.ErrorIs(t, err, errArchive)
}
