package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestCollectors_Counts(t *testing.T) {
	buf := NewBuffer(10)
	c := NewCollectors(buf)

	c.FeedDelivered("alerts", 3)
	c.FeedDelivered("alerts", 2)
	c.FireTriggered("node-2")
	c.ObserveAttempt("model-a", llm.ClassThrottled, 250*time.Millisecond)
	c.ObserveAttempt("model-a", llm.ClassSuccess, time.Second)

	require.NoError(t, c.RecordDeployment(context.Background(), &models.Deployment{Succeeded: true}))
	require.NoError(t, c.RecordDeployment(context.Background(), &models.Deployment{}))
	require.NoError(t, c.RecordDeployment(context.Background(), nil))

	c.AddResponse(models.ResponsePoint{ResponseTime: 4000, Decision: models.DecisionDeploy})
	c.AddResponse(models.ResponsePoint{ResponseTime: 2000, Decision: models.DecisionDismiss})
	c.SetClients(2)

	assert.InDelta(t, 2, testutil.ToFloat64(c.feedDeliveries.WithLabelValues("alerts")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(c.feedRecords.WithLabelValues("alerts")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.fires.WithLabelValues("node-2")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.llmAttempts.WithLabelValues("model-a", llm.ClassThrottled.String())), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.deployments.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.deployments.WithLabelValues("failure")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.decisions.WithLabelValues("deploy")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.clients), 0)

	assert.Equal(t, int64(3000), buf.AverageResponseTime())
}

func TestCollectors_Handler(t *testing.T) {
	c := NewCollectors(NewBuffer(10))
	c.AddResponse(models.ResponsePoint{ResponseTime: 1500, Decision: models.DecisionDeploy})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "perimeter_dispatch_average_response_seconds 1.5")
	assert.Contains(t, string(body), `perimeter_dispatch_decisions_total{decision="deploy"} 1`)
}
