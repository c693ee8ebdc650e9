package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestSystemStatus(t *testing.T) {
	summary := NewRegistry(DefaultUnits(), nil).Summary()

	tests := []struct {
		name    string
		net     models.NetworkStatus
		alerts  []models.Alert
		overall string
		health  float64
	}{
		{
			name:    "critical alert wins",
			net:     models.NetworkStatus{ActiveNodes: 4, TotalNodes: 4},
			alerts:  []models.Alert{{Severity: models.SeverityCritical}, {Severity: models.SeverityInfo}},
			overall: OverallAlert,
			health:  100,
		},
		{
			name:    "healthy network",
			net:     models.NetworkStatus{ActiveNodes: 4, TotalNodes: 5},
			alerts:  []models.Alert{{Severity: models.SeverityWarning}},
			overall: OverallGood,
			health:  80,
		},
		{
			name:    "exactly 75 percent is degraded",
			net:     models.NetworkStatus{ActiveNodes: 3, TotalNodes: 4},
			overall: OverallDegraded,
			health:  75,
		},
		{
			name:    "no nodes",
			overall: OverallDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := SystemStatus(summary, tt.net, tt.alerts)
			assert.Equal(t, 1, st.ActiveDrones)
			assert.Equal(t, tt.overall, st.Overall)
			assert.InDelta(t, tt.health, st.NetworkHealth, 0.001)
		})
	}
}
