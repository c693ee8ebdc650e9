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

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/models"
)

func (s *APIServer) getInsights(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Advisor == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	ins, ok := s.cfg.Advisor.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	s.writeJSON(w, http.StatusOK, ins)
}

// analysisResult reports degraded output in the body instead of failing the
// request; every inference operation always has a usable default.
func (s *APIServer) analysisResult(w http.ResponseWriter, op string, v any, err error) {
	deg := degradationFor(err)
	if deg.Degraded {
		s.log.WithError(err).WithField("op", op).WithField("rate_limited", deg.RateLimited).Warn("Inference degraded")
	}

	switch body := v.(type) {
	case string:
		s.writeJSON(w, http.StatusOK, textResponse{Text: body, degradation: deg})
	case models.AnomalyVerdict:
		s.writeJSON(w, http.StatusOK, struct {
			models.AnomalyVerdict
			degradation
		}{body, deg})
	default:
		s.writeJSON(w, http.StatusOK, v)
	}
}

func (s *APIServer) summarizeAlert(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Analyst == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	alertID := mux.Vars(r)["alertID"]
	snap := s.cfg.State.Snapshot()

	var target *models.Alert

	for i := range snap.Alerts {
		if snap.Alerts[i].ID == alertID {
			target = &snap.Alerts[i]

			break
		}
	}

	if target == nil {
		s.writeError(w, http.StatusNotFound, errNotFound)

		return
	}

	contexts := insight.AlertContexts([]models.Alert{*target}, snap.Nodes)
	node := insight.NodeInfoFor(snap.Nodes, target.NodeID)

	text, err := s.cfg.Analyst.SummarizeAlert(r.Context(), &contexts[0], node)
	s.analysisResult(w, "summarize_alert", text, err)
}

func (s *APIServer) generateReport(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Analyst == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	snap := s.cfg.State.Snapshot()

	var avg int64
	if s.cfg.Responses != nil {
		avg = s.cfg.Responses.AverageResponseTime()
	}

	metrics := insight.ReportMetricsFor(snap.Alerts, snap.NetworkStatus, avg)

	text, err := s.cfg.Analyst.GenerateReport(r.Context(), insight.AlertContexts(snap.Alerts, snap.Nodes), metrics)
	s.analysisResult(w, "generate_report", text, err)
}

func (s *APIServer) analyzePatterns(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Analyst == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	window := models.ParsePatternWindow(r.URL.Query().Get("window"))
	snap := s.cfg.State.Snapshot()

	alerts := insight.RecencyWindow{Window: window.Duration()}.Apply(snap.Alerts, s.now())

	text, err := s.cfg.Analyst.AnalyzeAlertPatterns(r.Context(), insight.AlertContexts(alerts, snap.Nodes), window)
	s.analysisResult(w, "analyze_patterns", text, err)
}

func (s *APIServer) detectAnomaly(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Analyst == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	now := s.now()
	snap := s.cfg.State.Snapshot()
	recent := s.cfg.Window.Apply(snap.Alerts, now)

	history := insight.DefaultHistoricalSketch

	if s.cfg.Archive != nil {
		h, err := s.cfg.Archive.HistoricalPattern(r.Context(), now)
		switch {
		case err != nil:
			s.log.WithError(err).Warn("Using default historical pattern")
		case h != "":
			history = h
		}
	}

	verdict, err := s.cfg.Analyst.DetectAnomaly(r.Context(), insight.AlertContexts(recent, snap.Nodes), history)
	if r.Context().Err() != nil {
		return
	}

	s.analysisResult(w, "detect_anomaly", verdict, err)
}
