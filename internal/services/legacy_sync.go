package services

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/queue/tasks"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LegacySyncer mirrors a task's universal properties onto its legacy columns.
// Failures are logged and never returned: the property row is the source of truth.
type LegacySyncer interface {
	Sync(ctx context.Context, taskID uuid.UUID, props models.EntityProperties)
}

// MapLegacyTask projects universal properties onto the legacy task columns.
// The projection is lossy: blocked and unset status both become todo.
func MapLegacyTask(p models.EntityProperties) repository.LegacyTaskColumns {
	cols := repository.LegacyTaskColumns{
		Status:     models.LegacyStatusTodo,
		Priority:   models.LegacyPriorityNone,
		AssigneeID: p.AssigneeID,
		DueDate:    p.DueDate,
	}
	if p.Status != nil {
		switch *p.Status {
		case models.StatusInProgress:
			cols.Status = models.LegacyStatusInProgress
		case models.StatusDone:
			cols.Status = models.LegacyStatusDone
		}
	}
	if p.Priority != nil {
		cols.Priority = *p.Priority
	}
	return cols
}

type inlineLegacySyncer struct {
	tasks tasks.LegacyWriter
}

// NewInlineLegacySyncer writes the mirror on the calling goroutine.
func NewInlineLegacySyncer(w tasks.LegacyWriter) LegacySyncer {
	return &inlineLegacySyncer{tasks: w}
}

func (s *inlineLegacySyncer) Sync(ctx context.Context, taskID uuid.UUID, props models.EntityProperties) {
	if err := s.tasks.ApplyLegacy(ctx, taskID, MapLegacyTask(props)); err != nil {
		logger.Ctx(ctx).Warn("legacy task sync failed", zap.String("task_id", taskID.String()), zap.Error(err))
	}
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type queuedLegacySyncer struct {
	client Enqueuer
}

// NewQueuedLegacySyncer hands the mirror write to cmd/worker.
func NewQueuedLegacySyncer(client Enqueuer) LegacySyncer {
	return &queuedLegacySyncer{client: client}
}

func (s *queuedLegacySyncer) Sync(ctx context.Context, taskID uuid.UUID, props models.EntityProperties) {
	t, err := tasks.NewLegacySyncTask(taskID, MapLegacyTask(props))
	if err != nil {
		logger.Ctx(ctx).Warn("build legacy sync task failed", zap.String("task_id", taskID.String()), zap.Error(err))
		return
	}
	info, err := s.client.EnqueueContext(ctx, t)
	if err != nil {
		logger.Ctx(ctx).Warn("enqueue legacy sync failed", zap.String("task_id", taskID.String()), zap.Error(err))
		return
	}
	logger.Ctx(ctx).Debug("legacy sync enqueued", zap.String("task_id", taskID.String()), zap.String("job_id", info.ID))
}
