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

type UnitStatus string

const (
	UnitOnStation   UnitStatus = "on_station"
	UnitCharging    UnitStatus = "charging"
	UnitMaintenance UnitStatus = "maintenance"
	UnitDeployed    UnitStatus = "deployed"
	UnitOnMission   UnitStatus = "on_mission"
)

// FleetUnit is a responding unit (drone) that can be commissioned.
type FleetUnit struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         UnitStatus `json:"status"`
	Battery        int        `json:"battery"`
	SignalStrength int        `json:"signalStrength"`
	Location       string     `json:"location"`
	Type           string     `json:"type"`
}

// FleetSummary counts units per status.
type FleetSummary struct {
	OnStation   int         `json:"active"`
	Charging    int         `json:"charging"`
	Maintenance int         `json:"maintenance"`
	Deployed    int         `json:"deployed"`
	OnMission   int         `json:"onMission"`
	Units       []FleetUnit `json:"units"`
}

type PromptDecision string

const (
	DecisionDeploy  PromptDecision = "deploy"
	DecisionDismiss PromptDecision = "dismiss"
)

// Prompt is the operator decision dialog raised for a new alert.
type Prompt struct {
	ID       string    `json:"id"`
	AlertID  string    `json:"alertId,omitempty"`
	NodeID   string    `json:"nodeId"`
	Kind     AlertKind `json:"alertType"`
	Severity Severity  `json:"severity"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	OpenedAt time.Time `json:"openedAt"`
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyFailure NotificationLevel = "failure"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a transient operator-facing message.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	UnitID    string            `json:"unitId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Deployment records one operator deploy decision and its outcome.
type Deployment struct {
	ID          int64     `json:"id"`
	UnitID      string    `json:"unitId"`
	PromptID    string    `json:"promptId"`
	AlertID     string    `json:"alertId"`
	Severity    Severity  `json:"severity"`
	Succeeded   bool      `json:"succeeded"`
	Error       string    `json:"error,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
	CompletedAt time.Time `json:"completedAt"`
}
