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
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

//go:generate mockgen -destination=mock_insight.go -package=insight github.com/mfreeman451/perimeter/pkg/insight StateSource,FleetView,HistorySource,Publisher

// StateSource is the slice of the realtime store the advisor watches.
type StateSource interface {
	SubscribeAlerts(fn store.AlertsFunc) (store.Unsubscribe, error)
	SubscribeNetworkStatus(fn store.NetworkStatusFunc) (store.Unsubscribe, error)
	Snapshot() *store.Snapshot
}

// FleetView lists the responding units.
type FleetView interface {
	Units() []models.FleetUnit
}

// HistorySource describes normal alert activity for anomaly detection.
type HistorySource interface {
	HistoricalPattern(ctx context.Context, now time.Time) (string, error)
}

// Publisher receives each fresh set of insights.
type Publisher interface {
	PublishInsights(ins *Insights)
}
