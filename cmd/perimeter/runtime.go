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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/config"
	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/ratelimit"
	"github.com/mfreeman451/perimeter/pkg/store"
)

// runtime is what every subcommand needs before doing its own work.
type runtime struct {
	cfg *config.DashboardConfig
	log *logrus.Logger
}

func loadRuntime() (*runtime, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, config.NewEnvLoader())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, log: log}, nil
}

func (rt *runtime) openFeed() (feed.Source, error) {
	switch rt.cfg.Feed.Driver {
	case "nats":
		src, err := feed.NewNATSSource(feed.NATSConfig{URL: rt.cfg.Feed.NATSURL, Bucket: rt.cfg.Feed.Bucket}, rt.log)
		if err != nil {
			return nil, err
		}

		return src, nil
	default:
		rt.log.Warn("Using the in-memory feed; state is local to this process")

		return feed.NewMemorySource(), nil
	}
}

// openStore opens the feed and starts a store over it. The returned close
// func releases both.
func (rt *runtime) openStore(opts ...store.Option) (*store.Store, func(), error) {
	src, err := rt.openFeed()
	if err != nil {
		return nil, nil, err
	}

	opts = append([]store.Option{
		store.WithLogger(rt.log),
		store.WithFireWatch(rt.cfg.Feed.FireWatchNodes...),
	}, opts...)

	st := store.New(src, opts...)

	if err := st.Start(); err != nil {
		_ = src.Close()

		return nil, nil, err
	}

	closeFn := func() {
		st.Close()

		if err := src.Close(); err != nil {
			rt.log.WithError(err).Warn("Failed to close feed")
		}
	}

	return st, closeFn, nil
}

// newOrchestrator builds the inference stack. Without a credential the
// orchestrator is unconfigured and every operation returns its default.
func (rt *runtime) newOrchestrator(observer llm.AttemptObserver) *insight.Orchestrator {
	ai := rt.cfg.AI

	var backend llm.Backend

	b, err := llm.NewOpenAIBackend(llm.BackendConfig{
		APIKey:         ai.APIKey,
		BaseURL:        ai.BaseURL,
		RequestTimeout: ai.RequestTimeout.Std(),
	}, rt.log)
	if err == nil {
		backend = b
	} else {
		rt.log.WithField("configured", false).Warn("Generative backend not configured; insights use defaults")
	}

	opts := []llm.ClientOption{
		llm.WithPolicy(llm.Policy{
			Models:      ai.Models,
			MaxRetries:  ai.MaxRetries,
			BaseBackoff: ai.BaseBackoff.Std(),
			MaxBackoff:  ai.MaxBackoff.Std(),
		}),
		llm.WithClientLogger(rt.log),
	}

	if observer != nil {
		opts = append(opts, llm.WithAttemptObserver(observer))
	}

	client := llm.NewFallbackClient(backend, ratelimit.New(ai.MinInterval.Std()), opts...)

	return insight.NewOrchestrator(client,
		insight.WithReportLimit(rt.cfg.Insight.ReportLimit),
		insight.WithLogger(rt.log),
	)
}

func (rt *runtime) recencyWindow() insight.RecencyWindow {
	return insight.RecencyWindow{
		Window: rt.cfg.Insight.RecentWindow.Std(),
		Limit:  rt.cfg.Insight.RecentLimit,
	}
}
