package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockLegacyWriter struct {
	mock.Mock
}

func (m *mockLegacyWriter) ApplyLegacy(ctx context.Context, taskID uuid.UUID, cols repository.LegacyTaskColumns) error {
	args := m.Called(ctx, taskID, cols)
	return args.Error(0)
}

func TestNewLegacySyncTask(t *testing.T) {
	id := uuid.New()
	task, err := NewLegacySyncTask(id, repository.LegacyTaskColumns{Status: "in-progress", Priority: "high"})
	require.NoError(t, err)
	require.Equal(t, TypeLegacyTaskSync, task.Type())

	var p LegacySyncPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	require.Equal(t, id.String(), p.TaskID)
	require.Equal(t, "in-progress", p.Columns.Status)
	require.Equal(t, "high", p.Columns.Priority)
}

func TestHandleLegacySync_AppliesColumns(t *testing.T) {
	id := uuid.New()
	cols := repository.LegacyTaskColumns{Status: "todo", Priority: "none"}
	w := new(mockLegacyWriter)
	w.On("ApplyLegacy", mock.Anything, id, cols).Return(nil).Once()

	task, err := NewLegacySyncTask(id, cols)
	require.NoError(t, err)

	h := NewLegacySyncHandler(w)
	require.NoError(t, h.HandleLegacySync(context.Background(), task))
	w.AssertExpectations(t)
}

func TestHandleLegacySync_PropagatesWriteError(t *testing.T) {
	id := uuid.New()
	w := new(mockLegacyWriter)
	w.On("ApplyLegacy", mock.Anything, id, mock.Anything).Return(errors.New("db down")).Once()

	task, err := NewLegacySyncTask(id, repository.LegacyTaskColumns{Status: "done", Priority: "low"})
	require.NoError(t, err)

	err = NewLegacySyncHandler(w).HandleLegacySync(context.Background(), task)
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry))
	w.AssertExpectations(t)
}

func TestHandleLegacySync_DeletedTaskSkipsRetry(t *testing.T) {
	id := uuid.New()
	w := new(mockLegacyWriter)
	w.On("ApplyLegacy", mock.Anything, id, mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "task not found")).Once()

	task, err := NewLegacySyncTask(id, repository.LegacyTaskColumns{Status: "todo", Priority: "none"})
	require.NoError(t, err)

	err = NewLegacySyncHandler(w).HandleLegacySync(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	w.AssertExpectations(t)
}

func TestHandleLegacySync_BadPayloadSkipsRetry(t *testing.T) {
	w := new(mockLegacyWriter)
	h := NewLegacySyncHandler(w)

	err := h.HandleLegacySync(context.Background(), asynq.NewTask(TypeLegacyTaskSync, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	b, _ := json.Marshal(LegacySyncPayload{TaskID: "not-a-uuid"})
	err = h.HandleLegacySync(context.Background(), asynq.NewTask(TypeLegacyTaskSync, b))
	require.ErrorIs(t, err, asynq.SkipRetry)

	w.AssertNotCalled(t, "ApplyLegacy", mock.Anything, mock.Anything, mock.Anything)
}
