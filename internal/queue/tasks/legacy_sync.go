package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeLegacyTaskSync mirrors a task's universal properties onto its legacy columns.
const TypeLegacyTaskSync = "legacy:task_sync"

// LegacySyncPayload is the task payload for legacy task sync.
type LegacySyncPayload struct {
	TaskID  string                       `json:"task_id"`
	Columns repository.LegacyTaskColumns `json:"columns"`
}

// NewLegacySyncTask builds the asynq task for one mirror write.
func NewLegacySyncTask(taskID uuid.UUID, cols repository.LegacyTaskColumns) (*asynq.Task, error) {
	b, err := json.Marshal(LegacySyncPayload{TaskID: taskID.String(), Columns: cols})
	if err != nil {
		return nil, fmt.Errorf("marshal legacy sync payload: %w", err)
	}
	return asynq.NewTask(TypeLegacyTaskSync, b, asynq.MaxRetry(3)), nil
}

// LegacyWriter is the part of the task repository the handler needs.
type LegacyWriter interface {
	ApplyLegacy(ctx context.Context, taskID uuid.UUID, cols repository.LegacyTaskColumns) error
}

// LegacySyncHandler applies queued legacy mirror writes.
type LegacySyncHandler struct {
	tasks LegacyWriter
}

func NewLegacySyncHandler(tasks LegacyWriter) *LegacySyncHandler {
	return &LegacySyncHandler{tasks: tasks}
}

func (h *LegacySyncHandler) HandleLegacySync(ctx context.Context, t *asynq.Task) error {
	var p LegacySyncPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid legacy sync payload", zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	id, err := uuid.Parse(p.TaskID)
	if err != nil {
		logger.L().Error("invalid task id in legacy sync payload", zap.String("task_id", p.TaskID), zap.Error(err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	logger.L().Info("handling legacy sync task", zap.String("task_id", id.String()), zap.String("status", p.Columns.Status))
	if err := h.tasks.ApplyLegacy(ctx, id, p.Columns); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			logger.L().Warn("legacy sync target gone", zap.String("task_id", id.String()))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		logger.L().Warn("legacy sync failed", zap.String("task_id", id.String()), zap.Error(err))
		return err
	}
	return nil
}
