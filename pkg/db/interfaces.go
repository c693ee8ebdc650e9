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

// Package db pkg/db/interfaces.go
package db

import (
	"context"
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/perimeter/pkg/db Row,Result,Rows,Transaction,Service

// Row represents a database row.
type Row interface {
	Scan(dest ...interface{}) error
}

// Result represents the result of a database operation.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Rows represents multiple database rows.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Transaction represents operations that can be performed within a database transaction.
type Transaction interface {
	Exec(query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (Rows, error)
	QueryRow(query string, args ...interface{}) Row
	Commit() error
	Rollback() error
}

// Service represents all archive operations.
type Service interface {
	// Core database operations.

	Begin(ctx context.Context) (Transaction, error)
	Close() error

	// Alert archive.

	UpsertAlerts(ctx context.Context, alerts []models.Alert) error
	RecentAlerts(ctx context.Context, since time.Time, limit int) ([]models.Alert, error)
	HistoricalPattern(ctx context.Context, now time.Time) (string, error)

	// Deployment log.

	RecordDeployment(ctx context.Context, d *models.Deployment) error
	Deployments(ctx context.Context, limit int) ([]models.Deployment, error)

	// Maintenance operations.

	CleanOldData(ctx context.Context, retentionPeriod time.Duration) error
}
