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

// Package db pkg/db/db.go provides the SQLite archive for alerts and deployments.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	-- Archived alert snapshots, keyed by alert id
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		node_id TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		acknowledged BOOLEAN NOT NULL DEFAULT 0,
		ts INTEGER NOT NULL DEFAULT 0,
		archived_at INTEGER NOT NULL DEFAULT 0
	);

	-- Operator deploy decisions
	CREATE TABLE IF NOT EXISTS deployments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unit_id TEXT NOT NULL,
		prompt_id TEXT NOT NULL DEFAULT '',
		alert_id TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		succeeded BOOLEAN NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		requested_at INTEGER NOT NULL DEFAULT 0,
		completed_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts);
	CREATE INDEX IF NOT EXISTS idx_alerts_kind ON alerts(kind);
	CREATE INDEX IF NOT EXISTS idx_deployments_completed ON deployments(completed_at);
	`
)

// DB is the SQLite-backed archive.
type DB struct {
	*sql.DB
	log logrus.FieldLogger
	now func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the archive logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(db *DB) {
		db.log = logger.OrDiscard(log).WithField("component", "archive")
	}
}

// WithClock overrides the archive clock.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		db.now = now
	}
}

// New opens the archive at dbPath and creates the schema if needed.
func New(dbPath string, opts ...Option) (Service, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// SQLite serializes writers; one connection keeps WAL and in-memory paths consistent.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{
		DB:  sqlDB,
		log: logger.Discard().WithField("component", "archive"),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(db)
	}

	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, err
	}

	db.log.WithField("path", dbPath).Info("Archive ready")

	return db, nil
}

func (db *DB) initSchema() error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return nil
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context) (Transaction, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	return ToTransaction(tx), nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// withTx runs fn inside a transaction, committing on success.
func (db *DB) withTx(ctx context.Context, fn func(tx Transaction) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		rollbackOnError(tx, err, db.log)
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Stored timestamps are unix milliseconds; zero means unknown.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}

	return time.UnixMilli(ms).UTC()
}
