package repository

import (
	"context"
	"time"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LegacyTaskColumns is the legacy projection of a task's universal properties.
type LegacyTaskColumns struct {
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
	DueDate    *time.Time `json:"due_date"`
}

type TaskRepository interface {
	BaseRepository[models.TaskItem]
	ListByBlock(ctx context.Context, blockID uuid.UUID) ([]models.TaskItem, error)
	// ApplyLegacy overwrites the legacy columns of one task item.
	ApplyLegacy(ctx context.Context, taskID uuid.UUID, cols LegacyTaskColumns) error

	CreateSubtask(ctx context.Context, s *models.Subtask) error
	GetSubtask(ctx context.Context, id uuid.UUID, dest *models.Subtask) error
	ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]models.Subtask, error)
}

type taskRepository struct {
	BaseRepository[models.TaskItem]
	subtasks BaseRepository[models.Subtask]
	db       *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{
		BaseRepository: NewBaseRepository[models.TaskItem](db, "task not found"),
		subtasks:       NewBaseRepository[models.Subtask](db, "subtask not found"),
		db:             db,
	}
}

func (r *taskRepository) ListByBlock(ctx context.Context, blockID uuid.UUID) ([]models.TaskItem, error) {
	return findAll[models.TaskItem](ctx, r.db, "position ASC, created_at ASC", "task_block_id = ?", blockID)
}

func (r *taskRepository) ApplyLegacy(ctx context.Context, taskID uuid.UUID, cols LegacyTaskColumns) error {
	res := r.db.WithContext(ctx).Model(&models.TaskItem{}).Where("id = ?", taskID).Updates(map[string]any{
		"status":      cols.Status,
		"priority":    cols.Priority,
		"assignee_id": cols.AssigneeID,
		"due_date":    cols.DueDate,
	})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update legacy task columns failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "task not found")
	}
	return nil
}

func (r *taskRepository) CreateSubtask(ctx context.Context, s *models.Subtask) error {
	return r.subtasks.Create(ctx, s)
}

func (r *taskRepository) GetSubtask(ctx context.Context, id uuid.UUID, dest *models.Subtask) error {
	return r.subtasks.GetByID(ctx, id, dest)
}

func (r *taskRepository) ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]models.Subtask, error) {
	return findAll[models.Subtask](ctx, r.db, "created_at ASC", "task_id = ?", taskID)
}

type TableRowRepository interface {
	BaseRepository[models.TableRow]
	ListByBlock(ctx context.Context, blockID uuid.UUID) ([]models.TableRow, error)
}

type tableRowRepository struct {
	BaseRepository[models.TableRow]
	db *gorm.DB
}

func NewTableRowRepository(db *gorm.DB) TableRowRepository {
	return &tableRowRepository{BaseRepository: NewBaseRepository[models.TableRow](db, "row not found"), db: db}
}

func (r *tableRowRepository) ListByBlock(ctx context.Context, blockID uuid.UUID) ([]models.TableRow, error) {
	return findAll[models.TableRow](ctx, r.db, "position ASC, created_at ASC", "table_block_id = ?", blockID)
}
