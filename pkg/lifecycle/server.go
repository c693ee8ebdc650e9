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

package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

const ShutdownTimeout = 10 * time.Second

// Service defines the interface that all services must implement. Start
// blocks until ctx is cancelled or the service fails.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// ServerOptions holds configuration for running a service.
type ServerOptions struct {
	ServiceName string
	Service     Service
	// HealthAddr enables the gRPC health endpoint when set.
	HealthAddr      string
	ShutdownTimeout time.Duration
	Logger          logrus.FieldLogger
	// Signals overrides the shutdown signals; nil means SIGINT and SIGTERM.
	Signals []os.Signal
}

// RunServer starts the service and its health endpoint, then waits for a
// shutdown signal, a service error or ctx cancellation. Signals and
// cancellation are a normal stop and return nil.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts == nil || opts.Service == nil {
		return ErrNoService
	}

	log := logger.OrDiscard(opts.Logger).WithField("service", opts.ServiceName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := opts.Signals
	if signals == nil {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	// before Start so an early signal is caught
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, signals...)

	defer signal.Stop(sigChan)

	log.Info("Starting service")

	var hs *HealthServer

	errChan := make(chan error, 2)

	if opts.HealthAddr != "" {
		hs = NewHealthServer(opts.ServiceName, log)

		if _, err := hs.Listen(opts.HealthAddr); err != nil {
			return err
		}

		go func() {
			if err := hs.Serve(); err != nil {
				errChan <- err
			}
		}()
	}

	go func() {
		if err := opts.Service.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	if hs != nil {
		hs.SetServing(true)
	}

	return handleShutdown(ctx, cancel, opts, hs, sigChan, errChan, log)
}

func handleShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	opts *ServerOptions,
	hs *HealthServer,
	sigChan <-chan os.Signal,
	errChan <-chan error,
	log logrus.FieldLogger) error {
	var runErr error

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Received signal, initiating shutdown")
	case err := <-errChan:
		log.WithError(err).Error("Service failed, initiating shutdown")

		runErr = fmt.Errorf("%w: %w", ErrServiceFailed, err)
	case <-ctx.Done():
		log.Info("Context canceled, initiating shutdown")
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = ShutdownTimeout
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer shutdownCancel()

	cancel()

	if hs != nil {
		hs.Stop(shutdownCtx)
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Error during service shutdown")

		if runErr == nil {
			runErr = fmt.Errorf("%w: %w", ErrShutdown, err)
		}
	}

	return runErr
}
