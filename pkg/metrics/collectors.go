/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/models"
)

const namespace = "perimeter"

// Collectors exports dashboard activity to Prometheus. It observes the store
// feed, model attempts, deployments and operator decisions, and forwards
// decision latencies to a ResponseStore.
type Collectors struct {
	registry *prometheus.Registry

	feedDeliveries *prometheus.CounterVec
	feedRecords    *prometheus.CounterVec
	fires          *prometheus.CounterVec
	llmAttempts    *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	deployments    *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	responseTime   prometheus.Histogram
	clients        prometheus.Gauge

	responses ResponseStore
}

// NewCollectors registers the dashboard metrics on a fresh registry.
// responses may be nil.
func NewCollectors(responses ResponseStore) *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	c := &Collectors{
		registry: reg,
		feedDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "deliveries_total",
			Help:      "Feed deliveries by path",
		}, []string{"path"}),
		feedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "records_total",
			Help:      "Records carried by feed deliveries",
		}, []string{"path"}),
		fires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "fire_triggered_total",
			Help:      "Fire flag activations by node",
		}, []string{"node"}),
		llmAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "attempts_total",
			Help:      "Model attempts by outcome class",
		}, []string{"model", "class"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "attempt_duration_seconds",
			Help:      "Model attempt latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"model"}),
		deployments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "deployments_total",
			Help:      "Unit deployments by outcome",
		}, []string{"outcome"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "decisions_total",
			Help:      "Operator prompt decisions",
		}, []string{"decision"}),
		responseTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "response_seconds",
			Help:      "Time from prompt to operator decision",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "websocket_clients",
			Help:      "Connected operator consoles",
		}),
		responses: responses,
	}

	if responses != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "average_response_seconds",
			Help:      "Mean decision latency over the recent window",
		}, func() float64 {
			return float64(responses.AverageResponseTime()) / float64(time.Second/time.Millisecond)
		})
	}

	return c
}

// Registry exposes the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// FeedDelivered counts one feed delivery.
func (c *Collectors) FeedDelivered(path string, records int) {
	c.feedDeliveries.WithLabelValues(path).Inc()
	c.feedRecords.WithLabelValues(path).Add(float64(records))
}

// FireTriggered counts a fire flag activation.
func (c *Collectors) FireTriggered(nodeID string) {
	c.fires.WithLabelValues(nodeID).Inc()
}

// ObserveAttempt records one model call.
func (c *Collectors) ObserveAttempt(model string, class llm.Class, elapsed time.Duration) {
	c.llmAttempts.WithLabelValues(model, class.String()).Inc()
	c.llmLatency.WithLabelValues(model).Observe(elapsed.Seconds())
}

// RecordDeployment counts a deployment outcome.
func (c *Collectors) RecordDeployment(_ context.Context, d *models.Deployment) error {
	if d == nil {
		return nil
	}

	outcome := "success"
	if !d.Succeeded {
		outcome = "failure"
	}

	c.deployments.WithLabelValues(outcome).Inc()

	return nil
}

// AddResponse records an operator decision and forwards it to the response store.
func (c *Collectors) AddResponse(p models.ResponsePoint) {
	c.decisions.WithLabelValues(string(p.Decision)).Inc()
	c.responseTime.Observe(float64(p.ResponseTime) / float64(time.Second/time.Millisecond))

	if c.responses != nil {
		c.responses.AddResponse(p)
	}
}

// SetClients reports the number of connected consoles.
func (c *Collectors) SetClients(n int) {
	c.clients.Set(float64(n))
}
