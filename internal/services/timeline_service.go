package services

import (
	"context"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/internal/schedule"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimelineService manages timeline events, their dependencies and auto-scheduling.
type TimelineService interface {
	CreateEvent(ctx context.Context, blockID, userID uuid.UUID, input *EventInput) (*models.TimelineEvent, error)
	ListEvents(ctx context.Context, blockID, userID uuid.UUID) ([]models.TimelineEvent, error)
	UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, input *UpdateEventInput) (*models.TimelineEvent, error)
	DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) error

	CreateDependency(ctx context.Context, blockID, userID uuid.UUID, input *DependencyInput) (*models.TimelineDependency, error)
	ListDependencies(ctx context.Context, blockID, userID uuid.UUID) ([]models.TimelineDependency, error)
	DeleteDependency(ctx context.Context, dependencyID, userID uuid.UUID) error

	AutoSchedule(ctx context.Context, blockID, userID uuid.UUID) ([]schedule.Change, error)
}

type EventInput struct {
	Title      string
	StartDate  time.Time
	EndDate    time.Time
	Progress   int
	Status     string
	AssigneeID *uuid.UUID
	Color      string
}

type UpdateEventInput struct {
	Title     *string
	StartDate *time.Time
	EndDate   *time.Time
	Progress  *int
	Status    *string
	Color     *string
}

type DependencyInput struct {
	FromID uuid.UUID
	ToID   uuid.UUID
	Kind   models.DependencyKind
}

type timelineService struct {
	guard    accessGuard
	blocks   repository.BlockRepository
	timeline repository.TimelineRepository
	entities repository.EntityRepository
}

func NewTimelineService(
	workspaces repository.WorkspaceRepository,
	entities repository.EntityRepository,
	blocks repository.BlockRepository,
	timeline repository.TimelineRepository,
) TimelineService {
	return &timelineService{
		guard:    accessGuard{workspaces: workspaces, entities: entities},
		blocks:   blocks,
		timeline: timeline,
		entities: entities,
	}
}

var _ TimelineService = (*timelineService)(nil)

func (s *timelineService) timelineBlock(ctx context.Context, blockID, userID uuid.UUID) (uuid.UUID, error) {
	wsID, err := s.guard.entity(ctx, userID, models.Ref(models.EntityBlock, blockID))
	if err != nil {
		return uuid.Nil, err
	}
	var b models.Block
	if err := s.blocks.GetByID(ctx, blockID, &b); err != nil {
		return uuid.Nil, err
	}
	if b.Type != models.BlockTimeline {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "block is not a timeline block")
	}
	return wsID, nil
}

func validateSpan(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return appErr.New(appErr.CodeInvalid, "start_date and end_date are required")
	}
	if end.Before(start) {
		return appErr.New(appErr.CodeInvalid, "end_date must not be before start_date")
	}
	return nil
}

func (s *timelineService) CreateEvent(ctx context.Context, blockID, userID uuid.UUID, input *EventInput) (*models.TimelineEvent, error) {
	wsID, err := s.timelineBlock(ctx, blockID, userID)
	if err != nil {
		return nil, err
	}
	if err := validateSpan(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.Progress < 0 || input.Progress > 100 {
		return nil, appErr.New(appErr.CodeInvalid, "progress must be between 0 and 100")
	}
	if input.AssigneeID != nil {
		if err := s.guard.assignable(ctx, wsID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}
	status := input.Status
	if status == "" {
		status = "planned"
	}
	e := &models.TimelineEvent{
		TimelineBlockID: blockID,
		Title:           input.Title,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Progress:        input.Progress,
		Status:          status,
		AssigneeID:      input.AssigneeID,
		Color:           input.Color,
	}
	if err := s.timeline.Create(ctx, e); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("timeline event created", zap.String("event_id", e.ID.String()), zap.String("block_id", blockID.String()))
	return e, nil
}

func (s *timelineService) ListEvents(ctx context.Context, blockID, userID uuid.UUID) ([]models.TimelineEvent, error) {
	if _, err := s.timelineBlock(ctx, blockID, userID); err != nil {
		return nil, err
	}
	return s.timeline.ListEvents(ctx, blockID)
}

func (s *timelineService) UpdateEvent(ctx context.Context, eventID, userID uuid.UUID, input *UpdateEventInput) (*models.TimelineEvent, error) {
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityTimelineEvent, eventID)); err != nil {
		return nil, err
	}
	var e models.TimelineEvent
	if err := s.timeline.GetByID(ctx, eventID, &e); err != nil {
		return nil, err
	}
	if input.Title != nil {
		e.Title = *input.Title
	}
	if input.StartDate != nil {
		e.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		e.EndDate = *input.EndDate
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, appErr.New(appErr.CodeInvalid, "progress must be between 0 and 100")
		}
		e.Progress = *input.Progress
	}
	if input.Status != nil {
		e.Status = *input.Status
	}
	if input.Color != nil {
		e.Color = *input.Color
	}
	if err := validateSpan(e.StartDate, e.EndDate); err != nil {
		return nil, err
	}
	if err := s.timeline.Update(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *timelineService) DeleteEvent(ctx context.Context, eventID, userID uuid.UUID) error {
	ref := models.Ref(models.EntityTimelineEvent, eventID)
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return err
	}
	if err := s.entities.Purge(ctx, []models.EntityRef{ref}); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("timeline event deleted", zap.String("event_id", eventID.String()), zap.String("user_id", userID.String()))
	return nil
}

func (s *timelineService) CreateDependency(ctx context.Context, blockID, userID uuid.UUID, input *DependencyInput) (*models.TimelineDependency, error) {
	if _, err := s.timelineBlock(ctx, blockID, userID); err != nil {
		return nil, err
	}
	kind := input.Kind
	if kind == "" {
		kind = models.FinishToStart
	}
	if !kind.Valid() {
		return nil, appErr.Newf(appErr.CodeInvalid, "invalid dependency kind %q", kind)
	}
	if input.FromID == input.ToID {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgSelfDependency)
	}
	for _, id := range []uuid.UUID{input.FromID, input.ToID} {
		var e models.TimelineEvent
		if err := s.timeline.GetByID(ctx, id, &e); err != nil {
			return nil, err
		}
		if e.TimelineBlockID != blockID {
			return nil, appErr.New(appErr.CodeInvalid, "both events must belong to this timeline")
		}
	}

	existing, err := s.timeline.ListDependencies(ctx, blockID)
	if err != nil {
		return nil, err
	}
	edges := make([]schedule.Edge, 0, len(existing))
	for _, d := range existing {
		if d.FromID == input.FromID && d.ToID == input.ToID {
			return nil, appErr.New(appErr.CodeConflict, appErr.MsgDependencyExists)
		}
		edges = append(edges, schedule.Edge{From: d.FromID, To: d.ToID})
	}
	if schedule.WouldCreateCycle(edges, schedule.Edge{From: input.FromID, To: input.ToID}) {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgDependencyCycle)
	}

	d := &models.TimelineDependency{TimelineBlockID: blockID, FromID: input.FromID, ToID: input.ToID, Kind: kind}
	if err := s.timeline.CreateDependency(ctx, d); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("dependency created",
		zap.String("dependency_id", d.ID.String()),
		zap.String("from_id", d.FromID.String()),
		zap.String("to_id", d.ToID.String()),
		zap.String("kind", string(kind)))
	return d, nil
}

func (s *timelineService) ListDependencies(ctx context.Context, blockID, userID uuid.UUID) ([]models.TimelineDependency, error) {
	if _, err := s.timelineBlock(ctx, blockID, userID); err != nil {
		return nil, err
	}
	return s.timeline.ListDependencies(ctx, blockID)
}

func (s *timelineService) DeleteDependency(ctx context.Context, dependencyID, userID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	var d models.TimelineDependency
	if err := s.timeline.GetDependency(ctx, dependencyID, &d); err != nil {
		return err
	}
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityBlock, d.TimelineBlockID)); err != nil {
		return err
	}
	return s.timeline.DeleteDependency(ctx, dependencyID)
}

func (s *timelineService) AutoSchedule(ctx context.Context, blockID, userID uuid.UUID) ([]schedule.Change, error) {
	if _, err := s.timelineBlock(ctx, blockID, userID); err != nil {
		return nil, err
	}
	events, err := s.timeline.ListEvents(ctx, blockID)
	if err != nil {
		return nil, err
	}
	deps, err := s.timeline.ListDependencies(ctx, blockID)
	if err != nil {
		return nil, err
	}

	in := make([]schedule.Event, 0, len(events))
	for _, e := range events {
		in = append(in, schedule.Event{ID: e.ID, Start: e.StartDate, End: e.EndDate})
	}
	edges := make([]schedule.Dependency, 0, len(deps))
	for _, d := range deps {
		edges = append(edges, schedule.Dependency{From: d.FromID, To: d.ToID, Kind: d.Kind})
	}

	changes := schedule.AutoSchedule(in, edges)
	if err := s.timeline.ApplySchedule(ctx, changes); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("timeline auto-scheduled", zap.String("block_id", blockID.String()), zap.Int("moved", len(changes)))
	if changes == nil {
		changes = []schedule.Change{}
	}
	return changes, nil
}
