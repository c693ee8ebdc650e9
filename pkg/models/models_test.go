package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	alerts := []Alert{
		{ID: "a", Timestamp: base},
		{ID: "c", Timestamp: base.Add(time.Minute)},
		{ID: "b", Timestamp: base},
	}

	SortNewestFirst(alerts)

	assert.Equal(t, []string{"c", "b", "a"}, []string{alerts[0].ID, alerts[1].ID, alerts[2].ID})
}

func TestHighestSeverity(t *testing.T) {
	tests := []struct {
		name   string
		alerts []Alert
		want   Severity
		ok     bool
	}{
		{name: "empty", alerts: nil, ok: false},
		{name: "unknown only", alerts: []Alert{{Severity: "loud"}}, ok: false},
		{
			name:   "critical wins",
			alerts: []Alert{{Severity: SeverityInfo}, {Severity: SeverityCritical}, {Severity: SeverityWarning}},
			want:   SeverityCritical,
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HighestSeverity(tt.alerts)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNode_ActiveAlertKinds(t *testing.T) {
	n := &Node{Alerts: map[AlertKind]bool{KindMotion: true, KindFire: true, KindGun: false}}

	assert.Equal(t, []AlertKind{KindFire, KindMotion}, n.ActiveAlertKinds())
	assert.True(t, n.AlertActive(KindFire))
	assert.False(t, n.AlertActive(KindGun))
}

func TestNetworkConnection_PairKeyIgnoresDirection(t *testing.T) {
	a := NetworkConnection{Source: "node1", Target: "node2"}
	b := NetworkConnection{Source: "node2", Target: "node1", Strength: 40}

	assert.Equal(t, a.PairKey(), b.PairKey())
}

func TestNetworkStatus_Health(t *testing.T) {
	assert.InDelta(t, 75.0, NetworkStatus{ActiveNodes: 3, TotalNodes: 4}.Health(), 0.001)
	assert.Zero(t, NetworkStatus{ActiveNodes: 3}.Health())
}

func TestPatternWindow(t *testing.T) {
	assert.Equal(t, WindowHour, ParsePatternWindow("hour"))
	assert.Equal(t, WindowDay, ParsePatternWindow("month"))
	assert.Equal(t, 7*24*time.Hour, WindowWeek.Duration())
	assert.Equal(t, 24*time.Hour, ParsePatternWindow("").Duration())
}
