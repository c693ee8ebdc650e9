package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestNormalizeNode_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, n models.Node)
	}{
		{
			name: "empty record",
			raw:  `{"node7":{}}`,
			check: func(t *testing.T, n models.Node) {
				t.Helper()
				assert.Equal(t, "node7", n.ID)
				assert.Equal(t, "Node #7", n.Name)
				assert.Equal(t, "Unknown Sector", n.Sector)
				assert.Equal(t, models.NodeOnline, n.Status)
				assert.Equal(t, 100, n.Battery)
				assert.Equal(t, 100, n.SignalStrength)
				assert.Equal(t, models.FallbackLocation, n.Location)
				assert.Equal(t, models.RoleStandard, n.Role)
				assert.True(t, n.LastActivity.IsZero())
				require.Len(t, n.Alerts, len(models.KnownAlertKinds))

				for _, kind := range models.KnownAlertKinds {
					assert.False(t, n.Alerts[kind], kind)
				}
			},
		},
		{
			name: "explicit zero battery is kept",
			raw:  `{"node2":{"battery":0,"signalStrength":0,"status":"offline"}}`,
			check: func(t *testing.T, n models.Node) {
				t.Helper()
				assert.Equal(t, 0, n.Battery)
				assert.Equal(t, 0, n.SignalStrength)
				assert.Equal(t, models.NodeOffline, n.Status)
			},
		},
		{
			name: "out of range and wrong types",
			raw:  `{"node3":{"battery":140,"signalStrength":"abc","status":"exploded","type":"satellite","location":{"lat":"x"}}}`,
			check: func(t *testing.T, n models.Node) {
				t.Helper()
				assert.Equal(t, 100, n.Battery)
				assert.Equal(t, 100, n.SignalStrength)
				assert.Equal(t, models.NodeOnline, n.Status)
				assert.Equal(t, models.RoleStandard, n.Role)
				assert.Equal(t, models.FallbackLocation, n.Location)
			},
		},
		{
			name: "negative clamps to zero",
			raw:  `{"node4":{"battery":-5}}`,
			check: func(t *testing.T, n models.Node) {
				t.Helper()
				assert.Equal(t, 0, n.Battery)
			},
		},
		{
			name: "fully populated gateway",
			raw: `{"node5":{"name":"Command","sector":"Sector E","battery":95,"signalStrength":77,` +
				`"lastActivity":"2025-03-01T10:00:00.000Z","location":{"lat":28.5,"lng":77.1},"type":"gateway",` +
				`"alerts":{"fire":1,"gun":true,"help":0}}}`,
			check: func(t *testing.T, n models.Node) {
				t.Helper()
				assert.Equal(t, "Command", n.Name)
				assert.Equal(t, 77, n.SignalStrength)
				assert.Equal(t, models.RoleGateway, n.Role)
				assert.Equal(t, models.Location{Lat: 28.5, Lng: 77.1}, n.Location)
				assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), n.LastActivity)
				assert.True(t, n.AlertActive(models.KindFire))
				assert.True(t, n.AlertActive(models.KindGun))
				assert.False(t, n.AlertActive(models.KindHelp))
				assert.Equal(t, []models.AlertKind{models.KindFire, models.KindGun}, n.ActiveAlertKinds())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := normalizeNodes(json.RawMessage(tt.raw))
			require.Len(t, nodes, 1)
			tt.check(t, nodes[0])
		})
	}
}

func TestNormalizeNodes_MalformedPayloads(t *testing.T) {
	for _, raw := range []string{`null`, `"garbage"`, `42`, `{"node1":"not an object"}`, `{`} {
		assert.Empty(t, normalizeNodes(json.RawMessage(raw)), raw)
	}
}

func TestNormalizeAlerts_SortedNewestFirst(t *testing.T) {
	raw := `{
		"a1":{"type":"gun","nodeId":"node1","timestamp":"2025-03-01T10:00:00.000Z","severity":"critical"},
		"a2":{"type":"motion","nodeId":"node2","timestamp":"2025-03-01T12:00:00.000Z"},
		"a3":{"type":"fire","nodeId":"node1","timestamp":"2025-03-01T11:00:00.000Z","severity":"bogus"},
		"a4":{"type":"help","nodeId":"node3","timestamp":"2025-03-01T12:00:00.000Z"},
		"a5":{"nodeId":"node3"}
	}`

	alerts := normalizeAlerts(json.RawMessage(raw))
	require.Len(t, alerts, 5)

	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}

	assert.Equal(t, []string{"a4", "a2", "a3", "a1", "a5"}, ids)

	assert.Equal(t, models.SeverityInfo, alerts[2].Severity)
	assert.Equal(t, "fire detected", alerts[2].Description)
	assert.Equal(t, models.AlertKind("unknown"), alerts[4].Kind)

	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].Timestamp.After(alerts[i-1].Timestamp))
	}
}

func TestNormalizeConnections_DedupByPair(t *testing.T) {
	raw := `{
		"k1":{"source":"node1","target":"node2","strength":50},
		"k2":{"source":"node2","target":"node1","strength":70},
		"k3":{"source":"node3","target":"node1"},
		"k4":{"source":"node4"}
	}`

	conns := normalizeConnections(json.RawMessage(raw))

	assert.Equal(t, []models.NetworkConnection{
		{Source: "node2", Target: "node1", Strength: 70},
		{Source: "node3", Target: "node1", Strength: 0},
	}, conns)
}

func TestNormalizeConnections_ArrayPayload(t *testing.T) {
	raw := `[null,{"source":"node1","target":"node2","strength":88}]`

	conns := normalizeConnections(json.RawMessage(raw))
	require.Len(t, conns, 1)
	assert.Equal(t, 88, conns[0].Strength)
}

func TestNormalizeNetworkStatus(t *testing.T) {
	assert.Equal(t, models.NetworkStatus{ActiveNodes: 1, TotalNodes: 4},
		normalizeNetworkStatus(json.RawMessage(`{"activeNodes":1,"totalNodes":4,"networkHealth":25}`)))
	assert.Equal(t, models.NetworkStatus{}, normalizeNetworkStatus(json.RawMessage(`null`)))
	assert.Equal(t, models.NetworkStatus{TotalNodes: 2},
		normalizeNetworkStatus(json.RawMessage(`{"activeNodes":-3,"totalNodes":2}`)))
}

func TestNodeSuffix(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"node1", 1, true},
		{"node12", 12, true},
		{"nodeX", 0, false},
		{"gateway3", 0, false},
		{"node", 0, false},
	}

	for _, tt := range tests {
		got, ok := nodeSuffix(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.want, got, tt.id)
	}
}
