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
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

const (
	MaxRecvSize = 4 * 1024 * 1024 // 4MB
	MaxSendSize = 4 * 1024 * 1024 // 4MB

	healthStopTimeout = 5 * time.Second
)

// HealthServer exposes grpc_health_v1 for a single named service. The
// overall ("") status follows the service status.
type HealthServer struct {
	srv     *grpc.Server
	health  *health.Server
	name    string
	log     logrus.FieldLogger
	mu      sync.Mutex
	lis     net.Listener
	stopped bool
}

// NewHealthServer builds a health endpoint for serviceName. The service
// starts out NOT_SERVING until SetServing is called.
func NewHealthServer(serviceName string, log logrus.FieldLogger) *HealthServer {
	l := logger.OrDiscard(log).WithField("component", "health")

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingInterceptor(l), recoveryInterceptor(l)),
		grpc.MaxRecvMsgSize(MaxRecvSize),
		grpc.MaxSendMsgSize(MaxSendSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 10 * time.Minute,
			Time:              120 * time.Second,
			Timeout:           20 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             120 * time.Second,
			PermitWithoutStream: true,
		}),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	h := &HealthServer{srv: srv, health: hs, name: serviceName, log: l}
	h.SetServing(false)

	return h
}

// SetServing flips the reported status of the service.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.health.SetServingStatus(h.name, status)
	h.health.SetServingStatus("", status)
}

// Listen binds addr. Call Serve afterwards.
func (h *HealthServer) Listen(addr string) (net.Addr, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHealthListen, err)
	}

	h.mu.Lock()
	h.lis = lis
	h.mu.Unlock()

	return lis.Addr(), nil
}

// Serve blocks until Stop. It returns nil after a normal stop.
func (h *HealthServer) Serve() error {
	h.mu.Lock()
	lis := h.lis
	h.mu.Unlock()

	if lis == nil {
		return ErrHealthListen
	}

	h.log.WithField("addr", lis.Addr().String()).Info("Health server listening")

	if err := h.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve health: %w", err)
	}

	return nil
}

// Stop marks everything NOT_SERVING and stops gracefully, forcing the stop
// when ctx ends first.
func (h *HealthServer) Stop(ctx context.Context) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}

	h.stopped = true
	h.mu.Unlock()

	h.health.Shutdown()

	ctx, cancel := context.WithTimeout(ctx, healthStopTimeout)
	defer cancel()

	stopped := make(chan struct{})

	go func() {
		h.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		h.log.Info("Health server stopped gracefully")
	case <-ctx.Done():
		h.log.Warn("Health server shutdown timed out, forcing stop")
		h.srv.Stop()
	}
}

func loggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		log.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"duration": time.Since(start),
		}).WithError(err).Debug("gRPC call")

		return resp, err
	}
}

func recoveryInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("method", info.FullMethod).Errorf("Recovered from panic: %v", r)

				err = errInternalError
			}
		}()

		return handler(ctx, req)
	}
}
