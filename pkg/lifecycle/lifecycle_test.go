package lifecycle

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

var errBoom = errors.New("boom")

type fakeService struct {
	startErr error
	stopErr  error
	started  chan struct{}
	stopped  chan struct{}
}

func newFakeService() *fakeService {
	return &fakeService{started: make(chan struct{}), stopped: make(chan struct{}, 1)}
}

func (f *fakeService) Start(ctx context.Context) error {
	close(f.started)

	if f.startErr != nil {
		return f.startErr
	}

	<-ctx.Done()

	return nil
}

func (f *fakeService) Stop(context.Context) error {
	f.stopped <- struct{}{}

	return f.stopErr
}

func healthStatus(t *testing.T, addr, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)

	return resp.GetStatus()
}

func TestHealthServer_ReportsStatus(t *testing.T) {
	hs := NewHealthServer("perimeter", logger.Discard())

	addr, err := hs.Listen("127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() { done <- hs.Serve() }()

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(t, addr.String(), "perimeter"))

	hs.SetServing(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, addr.String(), "perimeter"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, addr.String(), ""))

	hs.Stop(context.Background())
	require.NoError(t, <-done)

	// second stop is a no-op
	hs.Stop(context.Background())
}

func TestHealthServer_ServeWithoutListen(t *testing.T) {
	hs := NewHealthServer("perimeter", nil)

	require.ErrorIs(t, hs.Serve(), ErrHealthListen)
}

func TestRunServer_NoService(t *testing.T) {
	require.ErrorIs(t, RunServer(context.Background(), &ServerOptions{}), ErrNoService)
	require.ErrorIs(t, RunServer(context.Background(), nil), ErrNoService)
}

func TestRunServer_ContextCancelStopsService(t *testing.T) {
	svc := newFakeService()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- RunServer(ctx, &ServerOptions{ServiceName: "perimeter", Service: svc, HealthAddr: "127.0.0.1:0"})
	}()

	<-svc.started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not return")
	}

	assert.Len(t, svc.stopped, 1)
}

func TestRunServer_ServiceErrorIsReturned(t *testing.T) {
	svc := newFakeService()
	svc.startErr = errBoom

	err := RunServer(context.Background(), &ServerOptions{ServiceName: "perimeter", Service: svc})

	require.ErrorIs(t, err, ErrServiceFailed)
	require.ErrorIs(t, err, errBoom)
	assert.Len(t, svc.stopped, 1)
}

func TestRunServer_SignalTriggersShutdown(t *testing.T) {
	svc := newFakeService()
	svc.stopErr = errBoom

	done := make(chan error, 1)

	go func() {
		done <- RunServer(context.Background(), &ServerOptions{
			ServiceName: "perimeter",
			Service:     svc,
			Signals:     []os.Signal{syscall.SIGUSR1},
		})
	}()

	<-svc.started
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrShutdown)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not return")
	}
}
