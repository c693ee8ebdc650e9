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

package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/config"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

var ErrQueueFull = errors.New("alert queue is full")

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 15 * time.Second
)

// Fanout turns fire events and deployment outcomes into webhook alerts and
// delivers them to every enabled alerter from a background worker, so callers
// on the feed path never wait on HTTP.
type Fanout struct {
	alerters []AlertService
	queue    chan *WebhookAlert
	timeout  time.Duration
	log      logrus.FieldLogger
}

// NewFanout builds a Fanout over the enabled alerters.
func NewFanout(alerters []AlertService, log logrus.FieldLogger) *Fanout {
	enabled := make([]AlertService, 0, len(alerters))

	for _, a := range alerters {
		if a != nil && a.IsEnabled() {
			enabled = append(enabled, a)
		}
	}

	return &Fanout{
		alerters: enabled,
		queue:    make(chan *WebhookAlert, defaultQueueSize),
		timeout:  defaultSendTimeout,
		log:      logger.OrDiscard(log).WithField("component", "alerts"),
	}
}

// FromConfig builds one WebhookAlerter per configured webhook.
func FromConfig(cfgs []config.WebhookConfig, log logrus.FieldLogger) []AlertService {
	out := make([]AlertService, 0, len(cfgs))

	for i := range cfgs {
		out = append(out, NewWebhookAlerter(cfgs[i], WithWebhookLogger(log)))
	}

	return out
}

// Enabled reports whether any alerter will receive alerts.
func (f *Fanout) Enabled() bool {
	return len(f.alerters) > 0
}

// FireTriggered queues an alert for a fire event. It matches the store's fire
// listener signature.
func (f *Fanout) FireTriggered(ev models.FireEvent) {
	alert := &WebhookAlert{
		Level:   Error,
		Title:   fmt.Sprintf("Fire detected at %s", ev.NodeID),
		Message: ev.Description,
		NodeID:  ev.NodeID,
		Details: map[string]any{
			"severity": string(ev.Severity),
		},
	}

	if !ev.DetectedAt.IsZero() {
		alert.Timestamp = ev.DetectedAt.UTC().Format(time.RFC3339)
	}

	if err := f.enqueue(alert); err != nil {
		f.log.WithError(err).WithField("node", ev.NodeID).Warn("Dropped fire alert")
	}
}

// RecordDeployment queues an alert describing a deployment outcome.
func (f *Fanout) RecordDeployment(_ context.Context, d *models.Deployment) error {
	if d == nil {
		return nil
	}

	alert := &WebhookAlert{
		Level:   Info,
		Title:   fmt.Sprintf("Unit %s deployed", d.UnitID),
		Message: fmt.Sprintf("Unit %s is on mission", d.UnitID),
		Details: map[string]any{
			"unit":     d.UnitID,
			"alert_id": d.AlertID,
			"severity": string(d.Severity),
		},
	}

	if !d.Succeeded {
		alert.Level = Warning
		alert.Title = fmt.Sprintf("Unit %s deployment failed", d.UnitID)
		alert.Message = d.Error
	}

	if !d.CompletedAt.IsZero() {
		alert.Timestamp = d.CompletedAt.UTC().Format(time.RFC3339)
	}

	return f.enqueue(alert)
}

func (f *Fanout) enqueue(alert *WebhookAlert) error {
	if !f.Enabled() {
		return nil
	}

	select {
	case f.queue <- alert:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued alerts until ctx is done.
func (f *Fanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case alert := <-f.queue:
			sendCtx, cancel := context.WithTimeout(ctx, f.timeout)

			if err := f.Send(sendCtx, alert); err != nil {
				f.log.WithError(err).WithField("title", alert.Title).Warn("Webhook delivery failed")
			}

			cancel()
		}
	}
}

// Send delivers alert to every alerter. Cooldown suppression is not an error.
func (f *Fanout) Send(ctx context.Context, alert *WebhookAlert) error {
	var errs []error

	for _, a := range f.alerters {
		// Each alerter may stamp the timestamp; give each its own copy.
		cp := *alert

		err := a.Alert(ctx, &cp)
		if err == nil || errors.Is(err, ErrWebhookCooldown) || errors.Is(err, ErrWebhookDisabled) {
			continue
		}

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
