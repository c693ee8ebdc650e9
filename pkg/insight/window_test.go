package insight

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mfreeman451/perimeter/pkg/models"
)

func alertsAged(ages ...time.Duration) []models.Alert {
	out := make([]models.Alert, 0, len(ages))
	for i, age := range ages {
		out = append(out, models.Alert{ID: "a" + strconv.Itoa(i), Timestamp: now.Add(-age)})
	}

	return out
}

func ids(alerts []models.Alert) []string {
	out := make([]string, 0, len(alerts))
	for i := range alerts {
		out = append(out, alerts[i].ID)
	}

	return out
}

func TestRecencyWindow_Apply(t *testing.T) {
	tests := []struct {
		name   string
		window RecencyWindow
		alerts []models.Alert
		want   []string
	}{
		{
			name:   "drops alerts older than the window",
			window: RecencyWindow{Window: time.Hour, Limit: 15},
			alerts: alertsAged(time.Minute, 59*time.Minute, time.Hour, 2*time.Hour),
			want:   []string{"a0", "a1"},
		},
		{
			name:   "caps at the limit",
			window: RecencyWindow{Window: time.Hour, Limit: 2},
			alerts: alertsAged(0, time.Minute, 2*time.Minute),
			want:   []string{"a0", "a1"},
		},
		{
			name:   "nothing recent stays empty",
			window: RecencyWindow{Window: 30 * time.Minute, Limit: 15},
			alerts: alertsAged(time.Hour, 3*time.Hour),
			want:   []string{},
		},
		{
			name:   "zero window only limits",
			window: RecencyWindow{Limit: 1},
			alerts: alertsAged(48*time.Hour, 72*time.Hour),
			want:   []string{"a0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.window.Apply(tt.alerts, now)))
		})
	}
}

func TestAlertContexts_JoinsNodes(t *testing.T) {
	nodes := []models.Node{{ID: "node1", Sector: "Sector A", Location: models.Location{Lat: 1, Lng: 2}}}
	alerts := []models.Alert{
		{ID: "a1", Kind: models.KindFire, NodeID: "node1", Severity: models.SeverityCritical, Timestamp: now},
		{ID: "a2", Kind: models.KindMotion, NodeID: "ghost", Timestamp: now},
	}

	ctxs := AlertContexts(alerts, nodes)

	assert.Equal(t, "Sector A", ctxs[0].Sector)
	assert.Equal(t, &models.Location{Lat: 1, Lng: 2}, ctxs[0].Location)
	assert.Equal(t, models.SeverityCritical, ctxs[0].Severity)
	assert.Empty(t, ctxs[1].Sector)
	assert.Nil(t, ctxs[1].Location)

	assert.Equal(t, models.NodeInfo{Sector: "Sector A"}, NodeInfoFor(nodes, "node1"))
	assert.Equal(t, "Unknown Sector", NodeInfoFor(nodes, "ghost").Sector)
	assert.Equal(t, []models.NodeContext{{ID: "node1", Sector: "Sector A", Location: models.Location{Lat: 1, Lng: 2}}},
		NodeContexts(nodes))
}

func TestReportMetricsFor(t *testing.T) {
	alerts := []models.Alert{
		{ID: "a1", Severity: models.SeverityCritical},
		{ID: "a2", Severity: models.SeverityWarning},
		{ID: "a3", Severity: models.SeverityCritical},
	}

	got := ReportMetricsFor(alerts, models.NetworkStatus{ActiveNodes: 3, TotalNodes: 5}, 1200)

	assert.Equal(t, models.ReportMetrics{TotalAlerts: 3, CriticalAlerts: 2, NodesOnline: 3, AvgResponseTime: 1200}, got)
	assert.Equal(t, models.ReportMetrics{}, ReportMetricsFor(nil, models.NetworkStatus{}, 0))
}
