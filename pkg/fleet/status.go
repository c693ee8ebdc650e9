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

package fleet

import "github.com/mfreeman451/perimeter/pkg/models"

const healthyNetworkThreshold = 75

const (
	OverallAlert    = "alert"
	OverallGood     = "good"
	OverallDegraded = "degraded"
)

// SystemStatus folds fleet, network and alert state into the decision
// support summary. Any critical alert makes the overall status "alert".
func SystemStatus(summary models.FleetSummary, net models.NetworkStatus, alerts []models.Alert) models.SystemStatus {
	critical := 0

	for i := range alerts {
		if alerts[i].Severity == models.SeverityCritical {
			critical++
		}
	}

	st := models.SystemStatus{
		ActiveDrones:   summary.OnStation,
		NetworkHealth:  net.Health(),
		CriticalAlerts: critical,
	}

	switch {
	case critical > 0:
		st.Overall = OverallAlert
	case st.NetworkHealth > healthyNetworkThreshold:
		st.Overall = OverallGood
	default:
		st.Overall = OverallDegraded
	}

	return st
}
