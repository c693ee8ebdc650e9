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

import (
	"context"

	"github.com/mfreeman451/perimeter/pkg/models"
)

//go:generate mockgen -destination=mock_dispatch.go -package=dispatch github.com/mfreeman451/perimeter/pkg/dispatch AudioCue,Prompter,Notifier,Activator,DeploymentRecorder,ResponseRecorder

// AudioCue plays the operator alarm for a severity.
type AudioCue interface {
	Play(severity models.Severity)
}

// Prompter shows and hides the operator decision prompt.
type Prompter interface {
	Open(p models.Prompt)
	Close(promptID string)
}

// Notifier delivers a transient operator notification.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Activator issues the external fleet activation write.
type Activator interface {
	SetFleetActivationSignal(ctx context.Context) error
}

// DeploymentRecorder persists deploy outcomes.
type DeploymentRecorder interface {
	RecordDeployment(ctx context.Context, d *models.Deployment) error
}

// ResponseRecorder receives operator decision latencies.
type ResponseRecorder interface {
	AddResponse(p models.ResponsePoint)
}

// UnitRegistry is the part of the fleet registry the dispatcher drives.
type UnitRegistry interface {
	Unit(id string) (models.FleetUnit, bool)
	SetStatus(id string, status models.UnitStatus) (models.UnitStatus, error)
}
