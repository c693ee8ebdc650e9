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
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

const (
	DefaultCleanupInterval = time.Hour
	archiveWriteTimeout    = 10 * time.Second
)

// Archiver copies alert deliveries into the archive off the caller's
// goroutine and runs periodic retention cleanup. Only the newest pending
// delivery is kept; alert deliveries carry the whole collection.
type Archiver struct {
	svc       Service
	log       logrus.FieldLogger
	retention time.Duration
	interval  time.Duration

	mu      sync.Mutex
	pending []models.Alert
	wake    chan struct{}
}

// NewArchiver builds an Archiver. A zero retention disables cleanup.
func NewArchiver(svc Service, retention, interval time.Duration, log logrus.FieldLogger) *Archiver {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	return &Archiver{
		svc:       svc,
		log:       logger.OrDiscard(log).WithField("component", "archiver"),
		retention: retention,
		interval:  interval,
		wake:      make(chan struct{}, 1),
	}
}

// HandleAlerts queues the collection for archiving. It never blocks.
func (a *Archiver) HandleAlerts(alerts []models.Alert) {
	a.mu.Lock()
	a.pending = alerts
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Run archives queued deliveries and cleans old data until ctx is done.
func (a *Archiver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.clean(ctx)

	for {
		select {
		case <-ctx.Done():
			a.flush(context.WithoutCancel(ctx))

			return nil
		case <-a.wake:
			a.flush(ctx)
		case <-ticker.C:
			a.clean(ctx)
		}
	}
}

func (a *Archiver) flush(ctx context.Context) {
	a.mu.Lock()
	alerts := a.pending
	a.pending = nil
	a.mu.Unlock()

	if len(alerts) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, archiveWriteTimeout)
	defer cancel()

	if err := a.svc.UpsertAlerts(ctx, alerts); err != nil {
		a.log.WithError(err).WithField("alerts", len(alerts)).Error("Failed to archive alerts")
	}
}

func (a *Archiver) clean(ctx context.Context) {
	if a.retention <= 0 {
		return
	}

	if err := a.svc.CleanOldData(ctx, a.retention); err != nil {
		a.log.WithError(err).Error("Retention cleanup failed")
	}
}
