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
	"strings"
	"time"
)

const (
	// HistoryWindow is how far back HistoricalPattern looks.
	HistoryWindow = 7 * 24 * time.Hour

	dominantKinds = 2
)

// HistoricalPattern summarizes archived alert activity in the week before now
// as a short sentence for anomaly detection. It returns "" when the archive
// holds nothing in that window, leaving the caller to pick a default.
func (db *DB) HistoricalPattern(ctx context.Context, now time.Time) (string, error) {
	from := toMillis(now.Add(-HistoryWindow))
	to := toMillis(now)

	var (
		count    int
		earliest int64
	)

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MIN(ts), 0) FROM alerts WHERE ts >= ? AND ts <= ?`,
		from, to,
	).Scan(&count, &earliest)
	if err != nil {
		return "", fmt.Errorf("%w alert history: %w", ErrFailedToQuery, err)
	}

	if count == 0 {
		return "", nil
	}

	kinds, err := db.dominantKinds(ctx, from, to)
	if err != nil {
		return "", err
	}

	busiest, err := db.busiestHour(ctx, from, to)
	if err != nil {
		return "", err
	}

	// Average over the span actually covered, at least one hour.
	hours := now.Sub(fromMillis(earliest)).Hours()
	if hours < 1 {
		hours = 1
	}

	return fmt.Sprintf("Last 7 days: %d alerts, about %.1f per hour, mostly %s; busiest hour %02d:00 UTC",
		count, float64(count)/hours, strings.Join(kinds, "/"), busiest), nil
}

func (db *DB) dominantKinds(ctx context.Context, from, to int64) ([]string, error) {
	const querySQL = `
		SELECT kind, COUNT(*) AS c
		FROM alerts
		WHERE ts >= ? AND ts <= ?
		GROUP BY kind
		ORDER BY c DESC, kind ASC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, querySQL, from, to, dominantKinds) //nolint:rowserrcheck // rows.Err checked below
	if err != nil {
		return nil, fmt.Errorf("%w alert kinds: %w", ErrFailedToQuery, err)
	}

	wrapped := &SQLRows{rows}
	defer CloseRows(wrapped, db.log)

	var kinds []string

	for wrapped.Next() {
		var (
			kind string
			n    int
		)

		if err := wrapped.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("%w kind row: %w", ErrFailedToScan, err)
		}

		kinds = append(kinds, kind)
	}

	if err := wrapped.Err(); err != nil {
		return nil, fmt.Errorf("%w alert kinds: %w", ErrFailedToQuery, err)
	}

	return kinds, nil
}

func (db *DB) busiestHour(ctx context.Context, from, to int64) (int, error) {
	const querySQL = `
		SELECT CAST(strftime('%H', ts / 1000, 'unixepoch') AS INTEGER) AS hour, COUNT(*) AS c
		FROM alerts
		WHERE ts >= ? AND ts <= ?
		GROUP BY hour
		ORDER BY c DESC, hour ASC
		LIMIT 1
	`

	var hour, n int

	if err := db.QueryRowContext(ctx, querySQL, from, to).Scan(&hour, &n); err != nil {
		return 0, fmt.Errorf("%w busiest hour: %w", ErrFailedToQuery, err)
	}

	return hour, nil
}
