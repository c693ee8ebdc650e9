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

import (
	"sort"
	"time"
)

type AlertKind string

const (
	KindGun                AlertKind = "gun"
	KindFootsteps          AlertKind = "footsteps"
	KindMotion             AlertKind = "motion"
	KindWhisper            AlertKind = "whisper"
	KindSuspiciousActivity AlertKind = "suspicious_activity"
	KindDrone              AlertKind = "drone"
	KindHelp               AlertKind = "help"
	KindFire               AlertKind = "fire"
)

// KnownAlertKinds lists the kinds every node carries a flag for.
var KnownAlertKinds = []AlertKind{
	KindGun,
	KindFootsteps,
	KindMotion,
	KindWhisper,
	KindSuspiciousActivity,
	KindDrone,
	KindHelp,
	KindFire,
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank orders severities; unknown values rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Alert is a discrete event detected by a node.
type Alert struct {
	ID           string    `json:"id"`
	Kind         AlertKind `json:"type"`
	NodeID       string    `json:"nodeId"`
	Timestamp    time.Time `json:"timestamp"`
	Description  string    `json:"description"`
	Severity     Severity  `json:"severity"`
	Acknowledged bool      `json:"acknowledged"`
}

// SortNewestFirst orders alerts by descending timestamp. Ties fall back to
// the id so the order is stable across deliveries.
func SortNewestFirst(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Timestamp.Equal(alerts[j].Timestamp) {
			return alerts[i].ID > alerts[j].ID
		}

		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
}

// HighestSeverity returns the most severe level present in alerts.
func HighestSeverity(alerts []Alert) (Severity, bool) {
	var best Severity

	for i := range alerts {
		if alerts[i].Severity.Rank() > best.Rank() {
			best = alerts[i].Severity
		}
	}

	return best, best.Valid()
}

// AlertContext is an alert joined with its node, built per inference call.
type AlertContext struct {
	Kind      AlertKind `json:"alertType"`
	NodeID    string    `json:"nodeId"`
	Timestamp time.Time `json:"timestamp"`
	Sector    string    `json:"sector,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Severity  Severity  `json:"severity,omitempty"`
}

// FireEvent is raised when a watched node's fire flag turns active.
type FireEvent struct {
	NodeID      string    `json:"nodeId"`
	Kind        AlertKind `json:"alertType"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	DetectedAt  time.Time `json:"detectedAt"`
}
