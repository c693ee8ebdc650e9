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
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

const upsertAlertSQL = `
	INSERT INTO alerts (id, kind, node_id, severity, description, acknowledged, ts, archived_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		kind = excluded.kind,
		node_id = excluded.node_id,
		severity = excluded.severity,
		description = excluded.description,
		acknowledged = excluded.acknowledged,
		ts = excluded.ts,
		archived_at = excluded.archived_at
`

// UpsertAlerts archives an alert snapshot. Alerts without an id are skipped.
func (db *DB) UpsertAlerts(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	archivedAt := toMillis(db.now())

	return db.withTx(ctx, func(tx Transaction) error {
		for i := range alerts {
			a := &alerts[i]
			if a.ID == "" {
				continue
			}

			if _, err := tx.Exec(upsertAlertSQL,
				a.ID,
				string(a.Kind),
				a.NodeID,
				string(a.Severity),
				a.Description,
				a.Acknowledged,
				toMillis(a.Timestamp),
				archivedAt,
			); err != nil {
				return fmt.Errorf("%w alert %s: %w", ErrFailedToInsert, a.ID, err)
			}
		}

		return nil
	})
}

// RecentAlerts returns archived alerts at or after since, newest first.
func (db *DB) RecentAlerts(ctx context.Context, since time.Time, limit int) ([]models.Alert, error) {
	const querySQL = `
		SELECT id, kind, node_id, severity, description, acknowledged, ts
		FROM alerts
		WHERE ts >= ?
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`

	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, querySQL, toMillis(since), limit) //nolint:rowserrcheck // rows.Err checked below
	if err != nil {
		return nil, fmt.Errorf("%w recent alerts: %w", ErrFailedToQuery, err)
	}

	wrapped := &SQLRows{rows}
	defer CloseRows(wrapped, db.log)

	var alerts []models.Alert

	for wrapped.Next() {
		var (
			a              models.Alert
			kind, severity string
			ts             int64
		)

		if err := wrapped.Scan(&a.ID, &kind, &a.NodeID, &severity, &a.Description, &a.Acknowledged, &ts); err != nil {
			return nil, fmt.Errorf("%w alert row: %w", ErrFailedToScan, err)
		}

		a.Kind = models.AlertKind(kind)
		a.Severity = models.Severity(severity)
		a.Timestamp = fromMillis(ts)

		alerts = append(alerts, a)
	}

	if err := wrapped.Err(); err != nil {
		return nil, fmt.Errorf("%w recent alerts: %w", ErrFailedToQuery, err)
	}

	return alerts, nil
}
