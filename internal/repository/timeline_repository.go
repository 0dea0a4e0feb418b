package repository

import (
	"context"
	"errors"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/schedule"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimelineRepository interface {
	BaseRepository[models.TimelineEvent]
	ListEvents(ctx context.Context, blockID uuid.UUID) ([]models.TimelineEvent, error)

	CreateDependency(ctx context.Context, d *models.TimelineDependency) error
	GetDependency(ctx context.Context, id uuid.UUID, dest *models.TimelineDependency) error
	ListDependencies(ctx context.Context, blockID uuid.UUID) ([]models.TimelineDependency, error)
	DeleteDependency(ctx context.Context, id uuid.UUID) error

	// ApplySchedule persists auto-schedule moves in one transaction.
	ApplySchedule(ctx context.Context, changes []schedule.Change) error
	// ListTimelineBlocks returns the ids of blocks that own dependencies.
	ListTimelineBlocks(ctx context.Context) ([]uuid.UUID, error)
}

type timelineRepository struct {
	BaseRepository[models.TimelineEvent]
	deps BaseRepository[models.TimelineDependency]
	db   *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) TimelineRepository {
	return &timelineRepository{
		BaseRepository: NewBaseRepository[models.TimelineEvent](db, "timeline event not found"),
		deps:           NewBaseRepository[models.TimelineDependency](db, "dependency not found"),
		db:             db,
	}
}

func (r *timelineRepository) ListEvents(ctx context.Context, blockID uuid.UUID) ([]models.TimelineEvent, error) {
	return findAll[models.TimelineEvent](ctx, r.db, "start_date ASC, created_at ASC", "timeline_block_id = ?", blockID)
}

func (r *timelineRepository) CreateDependency(ctx context.Context, d *models.TimelineDependency) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return appErr.Wrap(err, appErr.CodeConflict, appErr.MsgDependencyExists)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create dependency failed")
	}
	return nil
}

func (r *timelineRepository) GetDependency(ctx context.Context, id uuid.UUID, dest *models.TimelineDependency) error {
	return r.deps.GetByID(ctx, id, dest)
}

func (r *timelineRepository) ListDependencies(ctx context.Context, blockID uuid.UUID) ([]models.TimelineDependency, error) {
	return findAll[models.TimelineDependency](ctx, r.db, "created_at ASC", "timeline_block_id = ?", blockID)
}

func (r *timelineRepository) DeleteDependency(ctx context.Context, id uuid.UUID) error {
	return r.deps.Delete(ctx, id)
}

func (r *timelineRepository) ApplySchedule(ctx context.Context, changes []schedule.Change) error {
	if len(changes) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}
	for _, c := range changes {
		res := tx.Model(&models.TimelineEvent{}).Where("id = ?", c.EventID).Updates(map[string]any{
			"start_date": c.NewStart,
			"end_date":   c.NewEnd,
		})
		if res.Error != nil {
			tx.Rollback()
			return appErr.Wrap(res.Error, appErr.CodeInternal, "reschedule event failed")
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return appErr.New(appErr.CodeNotFound, "timeline event not found")
		}
	}
	if err := tx.Commit().Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}
	return nil
}

func (r *timelineRepository) ListTimelineBlocks(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.TimelineDependency{}).Distinct().Pluck("timeline_block_id", &ids).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list timeline blocks failed")
	}
	return ids, nil
}
