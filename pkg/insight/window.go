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
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

// RecencyWindow selects the alerts handed to automatic inference. It is
// the single policy every auto-refreshed operation uses: alerts newer than
// Window, newest first, at most Limit of them. An empty result stays
// empty; there is no fallback to older alerts.
type RecencyWindow struct {
	Window time.Duration
	Limit  int
}

// Apply filters alerts, which must already be sorted newest first.
func (w RecencyWindow) Apply(alerts []models.Alert, now time.Time) []models.Alert {
	cutoff := now.Add(-w.Window)

	out := make([]models.Alert, 0, min(len(alerts), max(w.Limit, 0)))

	for i := range alerts {
		if w.Limit > 0 && len(out) == w.Limit {
			break
		}

		if w.Window > 0 && !alerts[i].Timestamp.After(cutoff) {
			continue
		}

		out = append(out, alerts[i])
	}

	return out
}
