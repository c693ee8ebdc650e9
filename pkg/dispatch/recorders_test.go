package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestRecorders_CallsAllAndJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := NewMockDeploymentRecorder(ctrl)
	second := NewMockDeploymentRecorder(ctrl)
	third := NewMockDeploymentRecorder(ctrl)

	dep := &models.Deployment{UnitID: "drone1"}
	errArchive := errors.New("archive down")

	first.EXPECT().RecordDeployment(gomock.Any(), dep).Return(errArchive)
	second.EXPECT().RecordDeployment(gomock.Any(), dep).Return(nil)
	third.EXPECT().RecordDeployment(gomock.Any(), dep).Return(nil)

	err := Recorders{first, nil, second, third}.RecordDeployment(context.Background(), dep)

	require.ErrorIs(t, err, errArchive)
}

func TestRecorders_Empty(t *testing.T) {
	require.NoError(t, Recorders(nil).RecordDeployment(context.Background(), &models.Deployment{}))
}
