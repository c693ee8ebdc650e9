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
	"errors"

	"github.com/mfreeman451/perimeter/pkg/models"
)

// Recorders fans a deployment out to every recorder. All of them are
// called; their errors are joined.
type Recorders []DeploymentRecorder

func (r Recorders) RecordDeployment(ctx context.Context, d *models.Deployment) error {
	var errs []error

	for _, rec := range r {
		if rec == nil {
			continue
		}

		if err := rec.RecordDeployment(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
