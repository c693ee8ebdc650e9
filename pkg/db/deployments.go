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

package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/models"
)

// RecordDeployment appends d to the deployment log and sets its ID.
func (db *DB) RecordDeployment(ctx context.Context, d *models.Deployment) error {
	if d == nil {
		return ErrNilDeployment
	}

	const insertSQL = `
		INSERT INTO deployments
			(unit_id, prompt_id, alert_id, severity, succeeded, error, requested_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, insertSQL,
		d.UnitID,
		d.PromptID,
		d.AlertID,
		string(d.Severity),
		d.Succeeded,
		d.Error,
		toMillis(d.RequestedAt),
		toMillis(d.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("%w deployment: %w", ErrFailedToInsert, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w deployment id: %w", ErrFailedToInsert, err)
	}

	d.ID = id

	db.log.WithFields(logrus.Fields{
		"unit":      d.UnitID,
		"alert":     d.AlertID,
		"succeeded": d.Succeeded,
	}).Debug("Recorded deployment")

	return nil
}

// Deployments returns the most recent deployments, newest first.
func (db *DB) Deployments(ctx context.Context, limit int) ([]models.Deployment, error) {
	const querySQL = `
		SELECT id, unit_id, prompt_id, alert_id, severity, succeeded, error, requested_at, completed_at
		FROM deployments
		ORDER BY id DESC
		LIMIT ?
	`

	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, querySQL, limit) //nolint:rowserrcheck // rows.Err checked below
	if err != nil {
		return nil, fmt.Errorf("%w deployments: %w", ErrFailedToQuery, err)
	}

	wrapped := &SQLRows{rows}
	defer CloseRows(wrapped, db.log)

	var out []models.Deployment

	for wrapped.Next() {
		var (
			d                      models.Deployment
			severity               string
			requestedAt, completed int64
		)

		if err := wrapped.Scan(&d.ID, &d.UnitID, &d.PromptID, &d.AlertID, &severity,
			&d.Succeeded, &d.Error, &requestedAt, &completed); err != nil {
			return nil, fmt.Errorf("%w deployment row: %w", ErrFailedToScan, err)
		}

		d.Severity = models.Severity(severity)
		d.RequestedAt = fromMillis(requestedAt)
		d.CompletedAt = fromMillis(completed)

		out = append(out, d)
	}

	if err := wrapped.Err(); err != nil {
		return nil, fmt.Errorf("%w deployments: %w", ErrFailedToQuery, err)
	}

	return out, nil
}
