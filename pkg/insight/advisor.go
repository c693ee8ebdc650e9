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

package insight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

const (
	DefaultDebounce     = 3 * time.Second
	DefaultRecentWindow = time.Hour
	DefaultRecentLimit  = 15
)

// Insights is the latest automatically refreshed analysis.
type Insights struct {
	Threat          models.ThreatAssessment `json:"threat"`
	Recommendations []string                `json:"recommendations"`
	Anomaly         models.AnomalyVerdict   `json:"anomaly"`
	AlertsAnalyzed  int                     `json:"alertsAnalyzed"`
	Degraded        bool                    `json:"degraded"`
	Error           string                  `json:"error,omitempty"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// AdvisorConfig wires an Advisor. History and Publisher are optional.
type AdvisorConfig struct {
	Orchestrator *Orchestrator
	State        StateSource
	Fleet        FleetView
	History      HistorySource
	Publisher    Publisher
	Window       RecencyWindow
	Debounce     time.Duration
	Logger       logrus.FieldLogger
}

// Advisor keeps threat, recommendation and anomaly insights current. Feed
// changes are debounced; bursts coalesce into one refresh. Refreshes that
// finish after Stop, or after a newer refresh, are discarded.
type Advisor struct {
	cfg      AdvisorConfig
	log      logrus.FieldLogger
	now      func() time.Time
	debounce *Debouncer

	mu          sync.Mutex
	ctx         context.Context
	unsubs      []store.Unsubscribe
	stopped     bool
	started     bool
	alertCount  int
	activeNodes int
	seq         uint64
	published   uint64
	latest      *Insights
}

// NewAdvisor builds an Advisor. Call Start to begin watching the store.
func NewAdvisor(cfg *AdvisorConfig) *Advisor {
	c := *cfg

	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}

	if c.Window.Window <= 0 {
		c.Window.Window = DefaultRecentWindow
	}

	if c.Window.Limit <= 0 {
		c.Window.Limit = DefaultRecentLimit
	}

	a := &Advisor{
		cfg:         c,
		log:         logger.OrDiscard(c.Logger).WithField("component", "advisor"),
		now:         time.Now,
		alertCount:  -1,
		activeNodes: -1,
	}

	a.debounce = NewDebouncer(c.Debounce, a.fire)

	return a
}

// Start subscribes to alert and network status deliveries. ctx bounds
// refreshes; Stop does not cancel one that is already running.
func (a *Advisor) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}

	a.started = true
	a.ctx = ctx
	a.mu.Unlock()

	unsubAlerts, err := a.cfg.State.SubscribeAlerts(a.onAlerts)
	if err != nil {
		return err
	}

	unsubStatus, err := a.cfg.State.SubscribeNetworkStatus(a.onNetworkStatus)
	if err != nil {
		unsubAlerts()
		return err
	}

	a.mu.Lock()
	a.unsubs = append(a.unsubs, unsubAlerts, unsubStatus)
	a.mu.Unlock()

	a.log.WithField("debounce", a.cfg.Debounce).Info("Advisor started")

	return nil
}

// Stop clears the pending refresh and releases the subscriptions.
func (a *Advisor) Stop() {
	a.debounce.Stop()

	a.mu.Lock()
	a.stopped = true
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

// only the size matters; replays of the same snapshot change nothing
func (a *Advisor) onAlerts(alerts []models.Alert) {
	a.mu.Lock()
	changed := len(alerts) != a.alertCount
	a.alertCount = len(alerts)
	a.mu.Unlock()

	if changed && len(alerts) > 0 {
		a.debounce.Trigger()
	}
}

func (a *Advisor) onNetworkStatus(st models.NetworkStatus) {
	a.mu.Lock()
	changed := st.ActiveNodes != a.activeNodes
	a.activeNodes = st.ActiveNodes
	hasAlerts := a.alertCount > 0
	a.mu.Unlock()

	if changed && hasAlerts {
		a.debounce.Trigger()
	}
}

func (a *Advisor) fire() {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := a.Refresh(ctx); err != nil && !errors.Is(err, ErrAdvisorStopped) {
		a.log.WithError(err).Warn("Insight refresh degraded")
	}
}

// Latest returns the most recent insights, if any refresh completed.
func (a *Advisor) Latest() (Insights, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.latest == nil {
		return Insights{}, false
	}

	return *a.latest, true
}

// Refresh recomputes insights from the current snapshot. Every operation
// uses the same recency window. With no recent alerts the defaults are
// published and the backend is not called.
func (a *Advisor) Refresh(ctx context.Context) (Insights, error) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return Insights{}, ErrAdvisorStopped
	}

	a.seq++
	seq := a.seq
	a.mu.Unlock()

	snap := a.cfg.State.Snapshot()
	now := a.now()
	recent := a.cfg.Window.Apply(snap.Alerts, now)

	ins := Insights{
		Threat:          DefaultThreatAssessment(),
		Recommendations: DefaultRecommendations(),
		Anomaly:         DefaultAnomalyVerdict(),
		AlertsAnalyzed:  len(recent),
	}

	var err error

	if len(recent) > 0 {
		err = a.compute(ctx, &ins, snap, recent, now)
	}

	ins.UpdatedAt = a.now()

	if err != nil {
		ins.Degraded = true
		ins.Error = err.Error()
	}

	a.mu.Lock()
	if a.stopped || seq < a.published {
		a.mu.Unlock()
		a.log.WithField("seq", seq).Debug("Discarding superseded insights")

		return ins, err
	}

	a.published = seq
	a.latest = &ins
	a.mu.Unlock()

	if a.cfg.Publisher != nil {
		a.cfg.Publisher.PublishInsights(&ins)
	}

	return ins, err
}

func (a *Advisor) compute(
	ctx context.Context, ins *Insights, snap *store.Snapshot, recent []models.Alert, now time.Time) error {
	o := a.cfg.Orchestrator
	contexts := AlertContexts(recent, snap.Nodes)

	threat, terr := o.AssessThreat(ctx, contexts, NodeContexts(snap.Nodes))
	ins.Threat = threat

	var units []models.FleetUnit
	if a.cfg.Fleet != nil {
		units = a.cfg.Fleet.Units()
	}

	recs, rerr := o.RecommendActions(ctx, contexts, snap.NetworkStatus, units)
	ins.Recommendations = recs

	history := DefaultHistoricalSketch

	if a.cfg.History != nil {
		h, err := a.cfg.History.HistoricalPattern(ctx, now)
		switch {
		case err != nil:
			a.log.WithError(errors.Join(errHistoricalQuery, err)).Warn("Using default historical pattern")
		case h != "":
			history = h
		}
	}

	anomaly, aerr := o.DetectAnomaly(ctx, contexts, history)
	ins.Anomaly = anomaly

	return errors.Join(terr, rerr, aerr)
}
