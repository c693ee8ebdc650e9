package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/config"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestFanout_SkipsDisabledAlerters(t *testing.T) {
	ctrl := gomock.NewController(t)

	disabled := NewMockAlertService(ctrl)
	disabled.EXPECT().IsEnabled().Return(false)

	f := NewFanout([]AlertService{disabled, nil}, logger.Discard())
	assert.False(t, f.Enabled())

	// Nothing is queued when no alerter is enabled.
	require.NoError(t, f.RecordDeployment(context.Background(), &models.Deployment{UnitID: "drone-1"}))
	assert.Empty(t, f.queue)
}

func TestFanout_SendJoinsErrorsAndIgnoresCooldown(t *testing.T) {
	ctrl := gomock.NewController(t)

	cooling := NewMockAlertService(ctrl)
	failing := NewMockAlertService(ctrl)
	boom := errors.New("connection refused")

	cooling.EXPECT().IsEnabled().Return(true)
	failing.EXPECT().IsEnabled().Return(true)
	cooling.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(ErrWebhookCooldown)
	failing.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(boom)

	f := NewFanout([]AlertService{cooling, failing}, logger.Discard())

	err := f.Send(context.Background(), &WebhookAlert{Title: "t"})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrWebhookCooldown)
}

func TestFanout_RunDeliversQueuedAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := NewMockAlertService(ctrl)
	svc.EXPECT().IsEnabled().Return(true)

	got := make(chan *WebhookAlert, 2)
	svc.EXPECT().Alert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *WebhookAlert) error {
		got <- a
		return nil
	}).Times(2)

	f := NewFanout([]AlertService{svc}, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = f.Run(ctx)
	}()

	detected := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.FireTriggered(models.FireEvent{NodeID: "node-2", Description: "Fire flag raised", DetectedAt: detected})
	require.NoError(t, f.RecordDeployment(ctx, &models.Deployment{UnitID: "drone-1", Error: "write failed"}))

	fire := <-got
	assert.Equal(t, Error, fire.Level)
	assert.Equal(t, "Fire detected at node-2", fire.Title)
	assert.Equal(t, "2025-05-01T12:00:00Z", fire.Timestamp)

	deploy := <-got
	assert.Equal(t, Warning, deploy.Level)
	assert.Equal(t, "Unit drone-1 deployment failed", deploy.Title)
	assert.Equal(t, "write failed", deploy.Message)

	cancel()
	<-done
}

func TestFanout_QueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := NewMockAlertService(ctrl)
	svc.EXPECT().IsEnabled().Return(true)

	f := NewFanout([]AlertService{svc}, logger.Discard())

	for i := 0; i < defaultQueueSize; i++ {
		require.NoError(t, f.RecordDeployment(context.Background(), &models.Deployment{UnitID: "u", Succeeded: true}))
	}

	require.ErrorIs(t, f.RecordDeployment(context.Background(), &models.Deployment{UnitID: "u"}), ErrQueueFull)
}

func TestFromConfig(t *testing.T) {
	svcs := FromConfig([]config.WebhookConfig{
		{Enabled: true, URL: "http://example.invalid/hook"},
		{Enabled: true},
	}, nil)

	require.Len(t, svcs, 2)
	assert.True(t, svcs[0].IsEnabled())
	assert.False(t, svcs[1].IsEnabled())
}
