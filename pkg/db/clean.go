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
)

// CleanOldData removes alerts last archived before the retention period and
// deployments that finished before it.
func (db *DB) CleanOldData(ctx context.Context, retentionPeriod time.Duration) error {
	cutoff := toMillis(db.now().Add(-retentionPeriod))

	var alerts, deployments int64

	err := db.withTx(ctx, func(tx Transaction) error {
		res, err := tx.Exec("DELETE FROM alerts WHERE archived_at < ?", cutoff)
		if err != nil {
			return fmt.Errorf("%w alerts: %w", ErrFailedToClean, err)
		}

		alerts, _ = res.RowsAffected()

		res, err = tx.Exec("DELETE FROM deployments WHERE MAX(requested_at, completed_at) < ?", cutoff)
		if err != nil {
			return fmt.Errorf("%w deployments: %w", ErrFailedToClean, err)
		}

		deployments, _ = res.RowsAffected()

		return nil
	})
	if err != nil {
		return err
	}

	if alerts > 0 || deployments > 0 {
		db.log.WithField("alerts", alerts).WithField("deployments", deployments).Info("Cleaned old archive data")
	}

	return nil
}
