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

// Package dispatch turns alert arrivals into operator prompts and carries
// out the deploy decision against the fleet.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

const defaultSettleDelay = 2 * time.Second

// Config carries the dispatcher's collaborators. Cue, Recorder and
// Responses are optional.
type Config struct {
	UnitID         string
	SettleDelay    time.Duration
	MinCueSeverity models.Severity

	Fleet     UnitRegistry
	Activator Activator
	Prompter  Prompter
	Notifier  Notifier
	Cue       AudioCue
	Recorder  DeploymentRecorder
	Responses ResponseRecorder
	Logger    logrus.FieldLogger
}

// Dispatcher reacts to changes of the alert collection, not to individual
// alerts. At most one prompt is open at a time and it stays open until the
// operator deploys or dismisses it.
type Dispatcher struct {
	cfg   Config
	log   logrus.FieldLogger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string

	mu        sync.Mutex
	baselined bool
	lastCount int
	prompt    *models.Prompt
	deploying bool
}

// New builds a Dispatcher.
func New(cfg *Config) *Dispatcher {
	c := *cfg

	if c.SettleDelay <= 0 {
		c.SettleDelay = defaultSettleDelay
	}

	if !c.MinCueSeverity.Valid() {
		c.MinCueSeverity = models.SeverityWarning
	}

	return &Dispatcher{
		cfg:   c,
		log:   logger.OrDiscard(c.Logger).WithField("component", "dispatch"),
		now:   time.Now,
		sleep: settle,
		newID: func() string { return uuid.NewString() },
	}
}

func settle(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HandleAlerts is the alert-collection listener. The first delivery only
// records the baseline size; afterwards any growth plays the cue for the
// highest new severity and opens a prompt for the newest alert unless one
// is already open. alerts must be sorted newest first.
func (d *Dispatcher) HandleAlerts(alerts []models.Alert) {
	d.mu.Lock()

	if !d.baselined {
		d.baselined = true
		d.lastCount = len(alerts)
		d.mu.Unlock()

		return
	}

	grown := len(alerts) - d.lastCount
	d.lastCount = len(alerts)

	if grown <= 0 {
		d.mu.Unlock()
		return
	}

	fresh := alerts[:grown]
	latest := fresh[0]

	p, opened := d.openLocked(latest.ID, latest.NodeID, latest.Kind, latest.Severity)
	d.mu.Unlock()

	if sev, ok := models.HighestSeverity(fresh); ok {
		d.playCue(sev)
	}

	d.announce(p, opened)
}

// HandleFireTriggered raises a fire prompt for a node whose fire flag just
// went active. The alert history may never carry this event.
func (d *Dispatcher) HandleFireTriggered(ev models.FireEvent) {
	d.mu.Lock()
	p, opened := d.openLocked("", ev.NodeID, models.KindFire, models.SeverityCritical)
	d.mu.Unlock()

	d.playCue(models.SeverityCritical)
	d.announce(p, opened)
}

// openLocked must be called with d.mu held.
func (d *Dispatcher) openLocked(alertID, nodeID string, kind models.AlertKind, sev models.Severity) (models.Prompt, bool) {
	if d.prompt != nil {
		return *d.prompt, false
	}

	title, msg := promptText(kind)

	p := models.Prompt{
		ID:       d.newID(),
		AlertID:  alertID,
		NodeID:   nodeID,
		Kind:     kind,
		Severity: sev,
		Title:    title,
		Message:  msg,
		OpenedAt: d.now(),
	}
	d.prompt = &p

	return p, true
}

func (d *Dispatcher) announce(p models.Prompt, opened bool) {
	if !opened {
		d.log.WithField("prompt_id", p.ID).Debug("Prompt already open, not opening another")
		return
	}

	d.log.WithFields(logrus.Fields{
		"prompt_id": p.ID,
		"node_id":   p.NodeID,
		"kind":      p.Kind,
	}).Info("Operator prompt opened")

	d.cfg.Prompter.Open(p)
}

func (d *Dispatcher) playCue(sev models.Severity) {
	if d.cfg.Cue == nil || sev.Rank() < d.cfg.MinCueSeverity.Rank() {
		return
	}

	d.cfg.Cue.Play(sev)
}

// CurrentPrompt returns the open prompt, if any.
func (d *Dispatcher) CurrentPrompt() (models.Prompt, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prompt == nil {
		return models.Prompt{}, false
	}

	return *d.prompt, true
}

// claim checks promptID against the open prompt. A deploy claim marks the
// dispatcher busy; a dismiss claim closes the prompt.
func (d *Dispatcher) claim(promptID string, decision models.PromptDecision) (models.Prompt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prompt == nil || d.prompt.ID != promptID {
		return models.Prompt{}, fmt.Errorf("%w: %s", ErrNoPrompt, promptID)
	}

	if d.deploying {
		return models.Prompt{}, ErrDeployInProgress
	}

	p := *d.prompt

	if decision == models.DecisionDeploy {
		d.deploying = true
	} else {
		d.prompt = nil
	}

	return p, nil
}

// Dismiss closes the prompt without any external write.
func (d *Dispatcher) Dismiss(promptID string) error {
	p, err := d.claim(promptID, models.DecisionDismiss)
	if err != nil {
		return err
	}

	d.recordResponse(p, models.DecisionDismiss)
	d.cfg.Prompter.Close(p.ID)

	d.log.WithField("prompt_id", p.ID).Info("Operator dismissed prompt")

	return nil
}

// Deploy marks the unit engaged, writes the activation signal and, after
// the settle delay, moves the unit on mission and closes the prompt. On a
// failed write the unit is put back, the operator is told, and the prompt
// stays open so the decision can be retried.
func (d *Dispatcher) Deploy(ctx context.Context, promptID string) error {
	p, err := d.claim(promptID, models.DecisionDeploy)
	if err != nil {
		return err
	}

	defer func() {
		d.mu.Lock()
		d.deploying = false
		d.mu.Unlock()
	}()

	d.recordResponse(p, models.DecisionDeploy)

	dep := &models.Deployment{
		UnitID:      d.cfg.UnitID,
		PromptID:    p.ID,
		AlertID:     p.AlertID,
		Severity:    p.Severity,
		RequestedAt: d.now(),
	}

	unitLog := d.log.WithFields(logrus.Fields{"unit_id": d.cfg.UnitID, "prompt_id": p.ID})

	prev, err := d.cfg.Fleet.SetStatus(d.cfg.UnitID, models.UnitDeployed)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUnitUnavailable, err)
		d.fail(ctx, dep, err)

		return err
	}

	if err := d.cfg.Activator.SetFleetActivationSignal(ctx); err != nil {
		if _, rerr := d.cfg.Fleet.SetStatus(d.cfg.UnitID, prev); rerr != nil {
			unitLog.WithError(rerr).Error("Failed to revert unit status")
		}

		err = fmt.Errorf("%w: %w", ErrDeployFailed, err)
		unitLog.WithError(err).Error("Fleet activation failed, unit reverted")
		d.fail(ctx, dep, err)

		return err
	}

	// the signal is out; a cancelled caller must not strand the unit
	_ = d.sleep(context.WithoutCancel(ctx), d.cfg.SettleDelay)

	if _, err := d.cfg.Fleet.SetStatus(d.cfg.UnitID, models.UnitOnMission); err != nil {
		unitLog.WithError(err).Warn("Failed to mark unit on mission")
	}

	d.mu.Lock()
	if d.prompt != nil && d.prompt.ID == p.ID {
		d.prompt = nil
	}
	d.mu.Unlock()

	d.cfg.Prompter.Close(p.ID)

	name := d.cfg.UnitID
	if u, ok := d.cfg.Fleet.Unit(d.cfg.UnitID); ok {
		name = u.Name
	}

	title, msg := successNotice(name)
	d.notify(ctx, models.Notification{Level: models.NotifySuccess, Title: title, Message: msg, UnitID: d.cfg.UnitID})

	dep.Succeeded = true
	dep.CompletedAt = d.now()
	d.record(ctx, dep)

	unitLog.Info("Unit deployed")

	return nil
}

func (d *Dispatcher) fail(ctx context.Context, dep *models.Deployment, cause error) {
	title, msg := failureNotice()
	d.notify(ctx, models.Notification{Level: models.NotifyFailure, Title: title, Message: msg, UnitID: dep.UnitID})

	dep.Error = cause.Error()
	dep.CompletedAt = d.now()
	d.record(ctx, dep)
}

func (d *Dispatcher) notify(ctx context.Context, n models.Notification) {
	if d.cfg.Notifier == nil {
		return
	}

	n.Timestamp = d.now()

	if err := d.cfg.Notifier.Notify(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		d.log.WithError(err).WithField("title", n.Title).Warn("Failed to deliver notification")
	}
}

func (d *Dispatcher) record(ctx context.Context, dep *models.Deployment) {
	if d.cfg.Recorder == nil {
		return
	}

	if err := d.cfg.Recorder.RecordDeployment(context.WithoutCancel(ctx), dep); err != nil {
		d.log.WithError(err).Warn("Failed to record deployment")
	}
}

func (d *Dispatcher) recordResponse(p models.Prompt, decision models.PromptDecision) {
	if d.cfg.Responses == nil {
		return
	}

	now := d.now()

	d.cfg.Responses.AddResponse(models.ResponsePoint{
		Timestamp:    now,
		ResponseTime: now.Sub(p.OpenedAt).Milliseconds(),
		Decision:     decision,
	})
}
