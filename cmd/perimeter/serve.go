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

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mfreeman451/perimeter/pkg/alerts"
	"github.com/mfreeman451/perimeter/pkg/api"
	"github.com/mfreeman451/perimeter/pkg/db"
	"github.com/mfreeman451/perimeter/pkg/dispatch"
	"github.com/mfreeman451/perimeter/pkg/fleet"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/lifecycle"
	"github.com/mfreeman451/perimeter/pkg/metrics"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

const serviceName = "perimeter"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard daemon",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}

		d := newDaemon(rt)

		return lifecycle.RunServer(cmd.Context(), &lifecycle.ServerOptions{
			ServiceName: serviceName,
			Service:     d,
			HealthAddr:  rt.cfg.HealthAddr,
			Logger:      rt.log,
		})
	},
}

// daemon wires every component of the dashboard. Start blocks until ctx
// ends or a component fails and releases everything it acquired before
// returning; Stop waits for that.
type daemon struct {
	rt   *runtime
	log  logrus.FieldLogger
	done chan struct{}
}

func newDaemon(rt *runtime) *daemon {
	return &daemon{
		rt:   rt,
		log:  rt.log.WithField("component", "daemon"),
		done: make(chan struct{}),
	}
}

func (d *daemon) Start(ctx context.Context) error {
	defer close(d.done)

	cfg := d.rt.cfg

	responses := metrics.NewBuffer(metrics.DefaultResponseWindow)
	collectors := metrics.NewCollectors(responses)

	archive, err := db.New(cfg.DBPath, db.WithLogger(d.rt.log))
	if err != nil {
		return err
	}

	defer func() {
		if err := archive.Close(); err != nil {
			d.log.WithError(err).Warn("Failed to close archive")
		}
	}()

	st, closeStore, err := d.rt.openStore(store.WithObserver(collectors))
	if err != nil {
		return err
	}

	defer closeStore()

	if cfg.SeedIfEmpty {
		if _, err := st.SeedIfEmpty(ctx); err != nil {
			d.log.WithError(err).Warn("Demo seeding failed")
		}
	}

	registry := fleet.NewRegistry(fleet.DefaultUnits(), d.rt.log)
	hub := api.NewHub(d.rt.log, api.WithClientCounter(collectors.SetClients))
	fanout := alerts.NewFanout(alerts.FromConfig(cfg.Webhooks, d.rt.log), d.rt.log)

	dispatcher := dispatch.New(&dispatch.Config{
		UnitID:         cfg.Dispatch.UnitID,
		SettleDelay:    cfg.Dispatch.SettleDelay.Std(),
		MinCueSeverity: models.Severity(cfg.Dispatch.MinCueSeverity),
		Fleet:          registry,
		Activator: dispatch.NewBreakerActivator(st, dispatch.BreakerConfig{
			MaxFailures: cfg.Dispatch.Breaker.MaxFailures,
			OpenTimeout: cfg.Dispatch.Breaker.OpenTimeout.Std(),
		}, d.rt.log),
		Prompter:  hub,
		Notifier:  hub,
		Cue:       hub,
		Recorder:  dispatch.Recorders{archive, fanout, collectors},
		Responses: collectors,
		Logger:    d.rt.log,
	})

	orchestrator := d.rt.newOrchestrator(collectors)

	advisor := insight.NewAdvisor(&insight.AdvisorConfig{
		Orchestrator: orchestrator,
		State:        st,
		Fleet:        registry,
		History:      archive,
		Publisher:    hub,
		Window:       d.rt.recencyWindow(),
		Debounce:     cfg.Insight.Debounce.Std(),
		Logger:       d.rt.log,
	})

	archiver := db.NewArchiver(archive, cfg.Retention.Std(), db.DefaultCleanupInterval, d.rt.log)

	unsubs, err := subscribe(st, dispatcher, archiver, fanout)

	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	if err != nil {
		return err
	}

	if err := advisor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start advisor: %w", err)
	}

	defer advisor.Stop()

	server := api.NewAPIServer(&api.Config{
		State:      st,
		Fleet:      registry,
		Dispatcher: dispatcher,
		Advisor:    advisor,
		Analyst:    orchestrator,
		Archive:    archive,
		Responses:  responses,
		Hub:        hub,
		Metrics:    collectors.Handler(),
		Window:     d.rt.recencyWindow(),
		Logger:     d.rt.log,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error { return server.Stream(ctx) })
	g.Go(func() error { return server.Start(ctx, cfg.ListenAddr) })
	g.Go(func() error { return fanout.Run(ctx) })
	g.Go(func() error { return archiver.Run(ctx) })

	d.log.WithFields(logrus.Fields{
		"listen_addr": cfg.ListenAddr,
		"feed":        cfg.Feed.Driver,
		"webhooks":    fanout.Enabled(),
		"ai":          orchestrator.Configured(),
	}).Info("Perimeter daemon started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func subscribe(
	st *store.Store,
	dispatcher *dispatch.Dispatcher,
	archiver *db.Archiver,
	fanout *alerts.Fanout) ([]store.Unsubscribe, error) {
	subs := []func() (store.Unsubscribe, error){
		func() (store.Unsubscribe, error) { return st.SubscribeAlerts(dispatcher.HandleAlerts) },
		func() (store.Unsubscribe, error) { return st.SubscribeAlerts(archiver.HandleAlerts) },
		func() (store.Unsubscribe, error) { return st.OnFireTriggered(dispatcher.HandleFireTriggered) },
		func() (store.Unsubscribe, error) { return st.OnFireTriggered(fanout.FireTriggered) },
	}

	unsubs := make([]store.Unsubscribe, 0, len(subs))

	for _, sub := range subs {
		u, err := sub()
		if err != nil {
			return unsubs, fmt.Errorf("failed to subscribe: %w", err)
		}

		unsubs = append(unsubs, u)
	}

	return unsubs, nil
}

// Stop waits for Start to release its resources.
func (d *daemon) Stop(ctx context.Context) error {
	select {
	case <-d.done:
		d.log.Info("Perimeter daemon stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("daemon did not stop in time: %w", ctx.Err())
	}
}
