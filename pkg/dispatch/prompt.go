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

package dispatch

import "github.com/mfreeman451/perimeter/pkg/models"

const deployQuestion = " Deploy surveillance drone for immediate assessment?"

func promptText(kind models.AlertKind) (title, message string) {
	switch kind {
	case models.KindFire:
		return "Fire Alert", "Fire detected in perimeter." + deployQuestion
	case models.KindHelp:
		return "Help Alert", "Someone is asking for help." + deployQuestion
	default:
		return "Critical Alert", "Perimeter breach detected." + deployQuestion
	}
}

func successNotice(unitName string) (title, message string) {
	return "Drone Deployed Successfully!", unitName + " is now on mission. Monitoring perimeter for threats."
}

func failureNotice() (title, message string) {
	return "Deployment Failed", "Failed to deploy drone. Please try again."
}
