package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestArchiver_ArchivesLatestDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	archived := make(chan []models.Alert, 4)

	svc.EXPECT().CleanOldData(gomock.Any(), 7*24*time.Hour).Return(nil)
	svc.EXPECT().UpsertAlerts(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, alerts []models.Alert) error {
			archived <- alerts

			return nil
		}).MinTimes(1)

	a := NewArchiver(svc, 7*24*time.Hour, time.Hour, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- a.Run(ctx) }()

	a.HandleAlerts([]models.Alert{alertAt("a1", models.KindMotion, testNow)})

	select {
	case got := <-archived:
		require.Len(t, got, 1)
		assert.Equal(t, "a1", got[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("alerts were not archived")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestArchiver_FlushesOnShutdownAndLogsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	// zero retention disables cleanup, so CleanOldData must never be called
	svc.EXPECT().UpsertAlerts(gomock.Any(), gomock.Len(2)).Return(errors.New("disk full"))

	a := NewArchiver(svc, 0, time.Hour, logger.Discard())

	a.HandleAlerts([]models.Alert{alertAt("a1", models.KindMotion, testNow)})
	a.HandleAlerts([]models.Alert{
		alertAt("a2", models.KindFire, testNow),
		alertAt("a1", models.KindMotion, testNow),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Run(ctx))
}
