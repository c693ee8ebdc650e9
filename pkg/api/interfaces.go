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
	"context"
	"time"

	"github.com/mfreeman451/perimeter/pkg/fleet"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/mfreeman451/perimeter/pkg/api StateStore,FleetView,Dispatcher,Advisor,Analyst,Archive

// StateStore is the mirrored dashboard state and its write operations.
type StateStore interface {
	Snapshot() *store.Snapshot
	SubscribeNodes(fn store.NodesFunc) (store.Unsubscribe, error)
	SubscribeAlerts(fn store.AlertsFunc) (store.Unsubscribe, error)
	SubscribeConnections(fn store.ConnectionsFunc) (store.Unsubscribe, error)
	SubscribeNetworkStatus(fn store.NetworkStatusFunc) (store.Unsubscribe, error)
	CreateNode(ctx context.Context, n *models.Node) (models.Node, error)
	SetNodeAlertFlag(ctx context.Context, nodeID string, kind models.AlertKind, active bool) error
	RecordAlert(ctx context.Context, alert models.Alert) error
	AddConnection(ctx context.Context, conn models.NetworkConnection) (string, error)
}

// FleetView reads the responding fleet.
type FleetView interface {
	Summary() models.FleetSummary
	Watch(buffer int) (<-chan fleet.StatusChange, func())
}

// Dispatcher owns the operator decision prompt.
type Dispatcher interface {
	CurrentPrompt() (models.Prompt, bool)
	Deploy(ctx context.Context, promptID string) error
	Dismiss(promptID string) error
}

// Advisor serves the automatically refreshed insights.
type Advisor interface {
	Latest() (insight.Insights, bool)
}

// Analyst runs the on-demand inference operations.
type Analyst interface {
	SummarizeAlert(ctx context.Context, alert *models.AlertContext, node models.NodeInfo) (string, error)
	DetectAnomaly(ctx context.Context, recent []models.AlertContext, historical string) (models.AnomalyVerdict, error)
	GenerateReport(ctx context.Context, alerts []models.AlertContext, metrics models.ReportMetrics) (string, error)
	AnalyzeAlertPatterns(ctx context.Context, alerts []models.AlertContext, window models.PatternWindow) (string, error)
}

// Archive reads the persisted deployment log and alert history.
type Archive interface {
	Deployments(ctx context.Context, limit int) ([]models.Deployment, error)
	HistoricalPattern(ctx context.Context, now time.Time) (string, error)
}

// ResponseStats reports operator decision latency.
type ResponseStats interface {
	AverageResponseTime() int64
}
