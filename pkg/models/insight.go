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

package models

import "time"

type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// ThreatAssessment is the structured verdict produced by threat analysis.
// Every JSON key without omitempty must be present in a model response.
type ThreatAssessment struct {
	ThreatLevel      ThreatLevel `json:"threatLevel" validate:"oneof=low medium high critical"`
	Summary          string      `json:"summary" validate:"required"`
	Recommendations  []string    `json:"recommendations" validate:"dive,required"`
	CorrelatedAlerts []string    `json:"correlatedAlerts"`
	PatternAnalysis  string      `json:"patternAnalysis"`
	EstimatedRisk    string      `json:"estimatedRisk"`
	Confidence       float64     `json:"confidence" validate:"min=0,max=100"`
}

// AnomalyVerdict is the structured result of anomaly detection.
type AnomalyVerdict struct {
	IsAnomaly        bool     `json:"isAnomaly"`
	Explanation      string   `json:"explanation" validate:"required"`
	Confidence       float64  `json:"confidence" validate:"min=0,max=100"`
	SuggestedActions []string `json:"suggestedActions"`
}

// ReportMetrics are the headline numbers embedded in an intelligence report.
type ReportMetrics struct {
	TotalAlerts     int   `json:"totalAlerts"`
	CriticalAlerts  int   `json:"criticalAlerts"`
	NodesOnline     int   `json:"nodesOnline"`
	AvgResponseTime int64 `json:"avgResponseTime"` // milliseconds
}

type PatternWindow string

const (
	WindowHour PatternWindow = "hour"
	WindowDay  PatternWindow = "day"
	WindowWeek PatternWindow = "week"
)

// ParsePatternWindow maps user input to a window, defaulting to a day.
func ParsePatternWindow(s string) PatternWindow {
	switch PatternWindow(s) {
	case WindowHour, WindowWeek:
		return PatternWindow(s)
	default:
		return WindowDay
	}
}

// Duration is the span of alerts the window covers.
func (w PatternWindow) Duration() time.Duration {
	switch w {
	case WindowHour:
		return time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// SystemStatus is the at-a-glance decision support summary.
type SystemStatus struct {
	ActiveDrones   int     `json:"activeDrones"`
	NetworkHealth  float64 `json:"networkHealth"`
	CriticalAlerts int     `json:"criticalAlerts"`
	Overall        string  `json:"overallStatus"`
}
