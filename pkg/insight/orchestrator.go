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

// Package insight composes the generative client, prompt templates and
// structured parsing into the operator-facing inference operations. Every
// operation returns a well-formed value: the real result, or a fixed
// default when the backend is unconfigured or failed.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/structured"
)

const defaultReportLimit = 20

// Orchestrator runs the inference operations. When the generator is nil
// or unconfigured every operation answers with its default immediately
// and never touches the network.
type Orchestrator struct {
	gen         llm.Generator
	candidates  []string
	reportLimit int
	log         logrus.FieldLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCandidates overrides the generator's default model order.
func WithCandidates(models ...string) Option {
	return func(o *Orchestrator) {
		o.candidates = models
	}
}

// WithReportLimit caps the alerts listed in a report prompt.
func WithReportLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.reportLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		o.log = logger.OrDiscard(log).WithField("component", "insight")
	}
}

// NewOrchestrator builds an Orchestrator over gen.
func NewOrchestrator(gen llm.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:         gen,
		reportLimit: defaultReportLimit,
		log:         logger.Discard(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Configured reports whether inference can reach a backend.
func (o *Orchestrator) Configured() bool {
	return o.gen != nil && o.gen.Configured()
}

// generate returns the trimmed text or an ErrDegraded-wrapped error.
func (o *Orchestrator) generate(ctx context.Context, op string, build func() (string, error)) (string, error) {
	prompt, err := build()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDegraded, err)
	}

	text, err := o.gen.Generate(ctx, prompt, o.candidates)
	if err != nil {
		o.log.WithError(err).WithField("operation", op).Error("Inference failed, using default")

		return "", fmt.Errorf("%w: %s: %w", ErrDegraded, op, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s: %w", ErrDegraded, op, ErrEmptyResponse)
	}

	return text, nil
}

// SummarizeAlert writes a short natural language summary of one alert.
func (o *Orchestrator) SummarizeAlert(ctx context.Context, alert *models.AlertContext, node models.NodeInfo) (string, error) {
	def := DefaultSummary(alert, node)

	if !o.Configured() {
		return def, nil
	}

	text, err := o.generate(ctx, "summarize_alert", func() (string, error) {
		return render(summaryTmpl, struct {
			Alert *models.AlertContext
			Node  models.NodeInfo
		}{alert, node})
	})
	if err != nil {
		return def, err
	}

	return text, nil
}

// AssessThreat produces a structured threat assessment across alerts.
func (o *Orchestrator) AssessThreat(
	ctx context.Context, alerts []models.AlertContext, nodes []models.NodeContext) (models.ThreatAssessment, error) {
	def := DefaultThreatAssessment()

	if !o.Configured() {
		return def, nil
	}

	text, err := o.generate(ctx, "assess_threat", func() (string, error) {
		return render(threatTmpl, struct {
			Alerts []models.AlertContext
			Nodes  []models.NodeContext
		}{alerts, nodes})
	})
	if err != nil {
		return def, err
	}

	ta, err := structured.Decode[models.ThreatAssessment](text)
	if err != nil {
		o.log.WithError(err).Warn("Threat assessment response rejected")

		return def, fmt.Errorf("%w: assess_threat: %w", ErrDegraded, err)
	}

	return ta, nil
}

// RecommendActions returns up to five prioritized actions.
func (o *Orchestrator) RecommendActions(
	ctx context.Context, alerts []models.AlertContext, network models.NetworkStatus, fleet []models.FleetUnit,
) ([]string, error) {
	if !o.Configured() {
		return DefaultRecommendations(), nil
	}

	line, available := fleetLine(fleet)

	text, err := o.generate(ctx, "recommend_actions", func() (string, error) {
		return render(recommendTmpl, struct {
			Alerts     []models.AlertContext
			AlertKinds string
			Network    models.NetworkStatus
			Available  int
			FleetLine  string
		}{alerts, alertKinds(alerts), network, available, line})
	})
	if err != nil {
		return DefaultRecommendations(), err
	}

	recs := structured.ParseList(text, maxRecommendations)
	if len(recs) == 0 {
		return []string{"Review situation manually"}, nil
	}

	return recs, nil
}

// DetectAnomaly compares recent alerts against a historical description.
func (o *Orchestrator) DetectAnomaly(
	ctx context.Context, recent []models.AlertContext, historical string) (models.AnomalyVerdict, error) {
	def := DefaultAnomalyVerdict()

	if !o.Configured() {
		return def, nil
	}

	if strings.TrimSpace(historical) == "" {
		historical = DefaultHistoricalSketch
	}

	text, err := o.generate(ctx, "detect_anomaly", func() (string, error) {
		return render(anomalyTmpl, struct {
			Alerts  []models.AlertContext
			History string
		}{recent, historical})
	})
	if err != nil {
		return def, err
	}

	v, err := structured.Decode[models.AnomalyVerdict](text)
	if err != nil {
		o.log.WithError(err).Warn("Anomaly response rejected")

		return def, fmt.Errorf("%w: detect_anomaly: %w", ErrDegraded, err)
	}

	return v, nil
}

// GenerateReport writes a long-form intelligence report.
func (o *Orchestrator) GenerateReport(
	ctx context.Context, alerts []models.AlertContext, metrics models.ReportMetrics) (string, error) {
	if !o.Configured() {
		return ReportUnavailable, nil
	}

	if len(alerts) > o.reportLimit {
		alerts = alerts[:o.reportLimit]
	}

	text, err := o.generate(ctx, "generate_report", func() (string, error) {
		return render(reportTmpl, struct {
			Alerts  []models.AlertContext
			Metrics models.ReportMetrics
		}{alerts, metrics})
	})
	if err != nil {
		return ReportFailed, err
	}

	return text, nil
}

// AnalyzeAlertPatterns describes trends over the given window.
func (o *Orchestrator) AnalyzeAlertPatterns(
	ctx context.Context, alerts []models.AlertContext, window models.PatternWindow) (string, error) {
	if !o.Configured() {
		return PatternsUnavailable, nil
	}

	text, err := o.generate(ctx, "analyze_patterns", func() (string, error) {
		return render(patternsTmpl, struct {
			Alerts []models.AlertContext
			Window models.PatternWindow
		}{alerts, window})
	})
	if err != nil {
		return PatternsUnavailable, err
	}

	return text, nil
}
