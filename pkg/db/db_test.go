package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	svc, err := New(filepath.Join(t.TempDir(), "archive.db"),
		WithLogger(logger.Discard()),
		WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = svc.Close() })

	db, ok := svc.(*DB)
	require.True(t, ok)

	return db
}

func alertAt(id string, kind models.AlertKind, ts time.Time) models.Alert {
	return models.Alert{
		ID:          id,
		Kind:        kind,
		NodeID:      "node-1",
		Timestamp:   ts,
		Description: string(kind) + " detected",
		Severity:    models.SeverityWarning,
	}
}

func TestUpsertAlerts_InsertsAndUpdates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := alertAt("a1", models.KindMotion, testNow.Add(-time.Minute))
	require.NoError(t, db.UpsertAlerts(ctx, []models.Alert{a, {ID: ""}}))

	a.Acknowledged = true
	a.Severity = models.SeverityCritical
	require.NoError(t, db.UpsertAlerts(ctx, []models.Alert{a}))

	got, err := db.RecentAlerts(ctx, testNow.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "a1", got[0].ID)
	assert.True(t, got[0].Acknowledged)
	assert.Equal(t, models.SeverityCritical, got[0].Severity)
	assert.True(t, got[0].Timestamp.Equal(a.Timestamp))
}

func TestRecentAlerts_NewestFirstWithLimit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertAlerts(ctx, []models.Alert{
		alertAt("old", models.KindMotion, testNow.Add(-3*time.Hour)),
		alertAt("mid", models.KindGun, testNow.Add(-20*time.Minute)),
		alertAt("new", models.KindFire, testNow.Add(-time.Minute)),
	}))

	got, err := db.RecentAlerts(ctx, testNow.Add(-time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)

	got, err = db.RecentAlerts(ctx, time.Time{}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestRecordDeployment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &models.Deployment{
		UnitID:      "drone-1",
		PromptID:    "p1",
		AlertID:     "a1",
		Severity:    models.SeverityCritical,
		Succeeded:   true,
		RequestedAt: testNow.Add(-5 * time.Second),
		CompletedAt: testNow,
	}
	second := &models.Deployment{
		UnitID:      "drone-1",
		PromptID:    "p2",
		Error:       "activation write failed",
		RequestedAt: testNow,
	}

	require.NoError(t, db.RecordDeployment(ctx, first))
	require.NoError(t, db.RecordDeployment(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	got, err := db.Deployments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p2", got[0].PromptID)
	assert.Equal(t, "activation write failed", got[0].Error)
	assert.True(t, got[0].CompletedAt.IsZero())
	assert.Equal(t, "p1", got[1].PromptID)
	assert.True(t, got[1].Succeeded)
	assert.True(t, got[1].CompletedAt.Equal(testNow))

	assert.ErrorIs(t, db.RecordDeployment(ctx, nil), ErrNilDeployment)
}

func TestHistoricalPattern(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pattern, err := db.HistoricalPattern(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, pattern)

	base := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	require.NoError(t, db.UpsertAlerts(ctx, []models.Alert{
		alertAt("m1", models.KindMotion, base),
		alertAt("m2", models.KindMotion, base.Add(5*time.Minute)),
		alertAt("m3", models.KindMotion, base.Add(10*time.Minute)),
		alertAt("f1", models.KindFootsteps, base.Add(15*time.Minute)),
		alertAt("f2", models.KindFootsteps, base.Add(3*time.Hour)),
		alertAt("g1", models.KindGun, base.Add(4*time.Hour)),
		alertAt("ancient", models.KindWhisper, testNow.Add(-30*24*time.Hour)),
	}))

	pattern, err = db.HistoricalPattern(ctx, testNow)
	require.NoError(t, err)

	// Six alerts spread over 12.5 hours.
	assert.Equal(t,
		"Last 7 days: 6 alerts, about 0.5 per hour, mostly motion/footsteps; busiest hour 02:00 UTC",
		pattern)
}

func TestCleanOldData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	now := testNow

	svc, err := New(filepath.Join(dir, "archive.db"), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	defer func() { _ = svc.Close() }()

	require.NoError(t, svc.UpsertAlerts(ctx, []models.Alert{alertAt("stale", models.KindMotion, now)}))
	require.NoError(t, svc.RecordDeployment(ctx, &models.Deployment{
		UnitID: "drone-1", RequestedAt: now, CompletedAt: now,
	}))

	// Advance the clock past retention, then archive a fresh alert.
	now = testNow.Add(10 * 24 * time.Hour)
	require.NoError(t, svc.UpsertAlerts(ctx, []models.Alert{alertAt("fresh", models.KindGun, now)}))

	require.NoError(t, svc.CleanOldData(ctx, 7*24*time.Hour))

	alerts, err := svc.RecentAlerts(ctx, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "fresh", alerts[0].ID)

	deployments, err := svc.Deployments(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, deployments)
}

func TestRollbackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tx := NewMockTransaction(ctrl)

	// No rollback without an error.
	rollbackOnError(tx, nil, logger.Discard())

	tx.EXPECT().Rollback().Return(errors.New("already closed"))
	rollbackOnError(tx, errors.New("insert failed"), logger.Discard())
}

func TestFromTransaction_RejectsForeignTypes(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := FromTransaction(NewMockTransaction(ctrl))
	require.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = FromRows(NewMockRows(ctrl))
	require.ErrorIs(t, err, ErrInvalidRows)
}

func TestCloseRows_LogsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	rows := NewMockRows(ctrl)

	rows.EXPECT().Close().Return(errors.New("boom"))
	CloseRows(rows, logger.Discard())
}
