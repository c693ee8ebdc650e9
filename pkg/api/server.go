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

// Package api serves the operator-facing REST and websocket boundary.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	httpx "github.com/mfreeman451/perimeter/pkg/http"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	fleetWatchBuffer  = 16
)

// Config wires the API server. Analyst, Archive, Responses, Advisor and
// Metrics are optional; their routes answer 503 when missing.
type Config struct {
	State      StateStore
	Fleet      FleetView
	Dispatcher Dispatcher
	Advisor    Advisor
	Analyst    Analyst
	Archive    Archive
	Responses  ResponseStats
	Hub        *Hub
	Metrics    http.Handler
	Window     insight.RecencyWindow
	Logger     logrus.FieldLogger
}

type APIServer struct {
	cfg      Config
	router   *mux.Router
	log      logrus.FieldLogger
	now      func() time.Time
	validate *validator.Validate
}

func NewAPIServer(cfg *Config) *APIServer {
	s := &APIServer{
		cfg:      *cfg,
		router:   mux.NewRouter(),
		log:      logger.OrDiscard(cfg.Logger).WithField("component", "api"),
		now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	if s.cfg.Hub == nil {
		s.cfg.Hub = NewHub(s.log)
	}

	if s.cfg.Window.Window == 0 {
		s.cfg.Window = insight.RecencyWindow{Window: insight.DefaultRecentWindow, Limit: insight.DefaultRecentLimit}
	}

	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware, httpx.LoggingMiddleware(s.log))

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/nodes", s.getNodes).Methods(http.MethodGet)
	api.HandleFunc("/nodes", s.createNode).Methods(http.MethodPost)
	api.HandleFunc("/nodes/{id}", s.getNode).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{id}/alerts/{kind}", s.setNodeAlertFlag).Methods(http.MethodPut)

	api.HandleFunc("/alerts", s.getAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts", s.createAlert).Methods(http.MethodPost)

	api.HandleFunc("/connections", s.getConnections).Methods(http.MethodGet)
	api.HandleFunc("/connections", s.createConnection).Methods(http.MethodPost)

	api.HandleFunc("/network-status", s.getNetworkStatus).Methods(http.MethodGet)
	api.HandleFunc("/fleet", s.getFleet).Methods(http.MethodGet)
	api.HandleFunc("/status", s.getSystemStatus).Methods(http.MethodGet)

	api.HandleFunc("/prompt", s.getPrompt).Methods(http.MethodGet)
	api.HandleFunc("/prompt/{id}/deploy", s.deploy).Methods(http.MethodPost)
	api.HandleFunc("/prompt/{id}/dismiss", s.dismiss).Methods(http.MethodPost)
	api.HandleFunc("/deployments", s.getDeployments).Methods(http.MethodGet)

	api.HandleFunc("/insights", s.getInsights).Methods(http.MethodGet)
	api.HandleFunc("/insights/summary/{alertID}", s.summarizeAlert).Methods(http.MethodPost)
	api.HandleFunc("/insights/report", s.generateReport).Methods(http.MethodPost)
	api.HandleFunc("/insights/patterns", s.analyzePatterns).Methods(http.MethodPost)
	api.HandleFunc("/insights/anomaly", s.detectAnomaly).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.cfg.Hub.ServeWS).Methods(http.MethodGet)

	if s.cfg.Metrics != nil {
		s.router.Handle("/metrics", s.cfg.Metrics).Methods(http.MethodGet)
	}
}

// Handler exposes the routed handler.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Hub returns the event hub consoles connect to.
func (s *APIServer) Hub() *Hub {
	return s.cfg.Hub
}

// Stream pushes state and fleet changes to the hub until ctx is done.
func (s *APIServer) Stream(ctx context.Context) error {
	publish := func() { s.cfg.Hub.PublishSnapshot(s.cfg.State.Snapshot()) }

	var unsubs []store.Unsubscribe

	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	subs := []func() (store.Unsubscribe, error){
		func() (store.Unsubscribe, error) { return s.cfg.State.SubscribeNodes(func(_ []models.Node) { publish() }) },
		func() (store.Unsubscribe, error) { return s.cfg.State.SubscribeAlerts(func(_ []models.Alert) { publish() }) },
		func() (store.Unsubscribe, error) {
			return s.cfg.State.SubscribeConnections(func(_ []models.NetworkConnection) { publish() })
		},
		func() (store.Unsubscribe, error) {
			return s.cfg.State.SubscribeNetworkStatus(func(_ models.NetworkStatus) { publish() })
		},
	}

	for _, sub := range subs {
		u, err := sub()
		if err != nil {
			return fmt.Errorf("failed to subscribe to state: %w", err)
		}

		unsubs = append(unsubs, u)
	}

	changes, cancel := s.cfg.Fleet.Watch(fleetWatchBuffer)
	defer cancel()

	s.cfg.Hub.PublishFleet(s.cfg.Fleet.Summary())

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				<-ctx.Done()

				return nil
			}

			s.cfg.Hub.PublishFleet(s.cfg.Fleet.Summary())
		}
	}
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *APIServer) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.WithField("addr", addr).Info("API server listening")

		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}

	return nil
}
