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
	"fmt"

	"github.com/mfreeman451/perimeter/pkg/models"
)

const (
	ReportUnavailable       = "Report generation unavailable. Please configure the generative backend credential."
	ReportFailed            = "Report generation unavailable."
	PatternsUnavailable     = "Pattern analysis unavailable."
	DefaultHistoricalSketch = "Normal operations: 2-3 alerts per hour, mostly motion/footsteps"

	maxRecommendations = 5
)

// DefaultThreatAssessment is returned whenever no real assessment exists.
func DefaultThreatAssessment() models.ThreatAssessment {
	return models.ThreatAssessment{
		ThreatLevel:      models.ThreatMedium,
		Summary:          "Unable to analyze threats at this time. Manual review recommended.",
		Recommendations:  []string{"Review alerts manually", "Check sensor node status", "Verify network connectivity"},
		CorrelatedAlerts: []string{},
		PatternAnalysis:  "Analysis unavailable - API not configured",
		EstimatedRisk:    "Unknown - requires manual assessment",
		Confidence:       0,
	}
}

// DefaultRecommendations is the manual review fallback list.
func DefaultRecommendations() []string {
	return []string{"Review alerts manually", "Check network status", "Assess drone availability"}
}

// DefaultAnomalyVerdict reports nothing anomalous with zero confidence.
func DefaultAnomalyVerdict() models.AnomalyVerdict {
	return models.AnomalyVerdict{
		IsAnomaly:        false,
		Explanation:      "Analysis unavailable",
		Confidence:       0,
		SuggestedActions: []string{},
	}
}

// DefaultSummary is the templated one-line alert summary.
func DefaultSummary(alert *models.AlertContext, node models.NodeInfo) string {
	return fmt.Sprintf("%s detected at %s in %s", alert.Kind, alert.NodeID, node.Sector)
}
