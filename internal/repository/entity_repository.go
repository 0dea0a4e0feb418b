package repository

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// entityPath is how an entity type's table reaches projects.workspace_id.
type entityPath struct {
	table string
	joins []string
}

var (
	blockToProject = []string{
		"JOIN tabs ON tabs.id = blocks.tab_id",
		"JOIN projects ON projects.id = tabs.project_id",
	}

	entityPaths = map[models.EntityType]entityPath{
		models.EntityBlock: {table: "blocks", joins: blockToProject},
		models.EntityTask: {table: "task_items", joins: append([]string{
			"JOIN blocks ON blocks.id = task_items.task_block_id",
		}, blockToProject...)},
		models.EntityTimelineEvent: {table: "timeline_events", joins: append([]string{
			"JOIN blocks ON blocks.id = timeline_events.timeline_block_id",
		}, blockToProject...)},
		models.EntityTableRow: {table: "table_rows", joins: append([]string{
			"JOIN blocks ON blocks.id = table_rows.table_block_id",
		}, blockToProject...)},
		models.EntitySubtask: {table: "subtasks", joins: append([]string{
			"JOIN task_items ON task_items.id = subtasks.task_id",
			"JOIN blocks ON blocks.id = task_items.task_block_id",
		}, blockToProject...)},
	}
)

// EntityRepository answers questions that span entity types: which workspace an
// entity lives in, what hangs below it, and removing all of that at once.
type EntityRepository interface {
	ResolveWorkspace(ctx context.Context, ref models.EntityRef) (uuid.UUID, error)
	TabWorkspace(ctx context.Context, tabID uuid.UUID) (uuid.UUID, error)
	// Subtree returns ref followed by every entity owned by it.
	Subtree(ctx context.Context, ref models.EntityRef) ([]models.EntityRef, error)
	// Purge deletes the entities and everything attached to them in one transaction.
	Purge(ctx context.Context, refs []models.EntityRef) error
	// PurgeProject deletes a project with its tabs, blocks and their entities.
	PurgeProject(ctx context.Context, projectID uuid.UUID) error
}

type entityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) ResolveWorkspace(ctx context.Context, ref models.EntityRef) (uuid.UUID, error) {
	path, ok := entityPaths[ref.Type]
	if !ok {
		return uuid.Nil, appErr.Newf(appErr.CodeInvalid, "unknown entity type %q", ref.Type)
	}
	q := r.db.WithContext(ctx).Table(path.table)
	for _, j := range path.joins {
		q = q.Joins(j)
	}
	var ids []uuid.UUID
	if err := q.Where(path.table+".id = ?", ref.ID).Limit(1).Pluck("projects.workspace_id", &ids).Error; err != nil {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeInternal, "resolve entity workspace failed")
	}
	if len(ids) == 0 {
		return uuid.Nil, appErr.New(appErr.CodeNotFound, appErr.MsgEntityNotFound).WithMeta("entity", ref.String())
	}
	return ids[0], nil
}

func (r *entityRepository) TabWorkspace(ctx context.Context, tabID uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Table("tabs").
		Joins("JOIN projects ON projects.id = tabs.project_id").
		Where("tabs.id = ?", tabID).Limit(1).
		Pluck("projects.workspace_id", &ids).Error
	if err != nil {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeInternal, "resolve tab workspace failed")
	}
	if len(ids) == 0 {
		return uuid.Nil, appErr.New(appErr.CodeNotFound, "tab not found")
	}
	return ids[0], nil
}

func (r *entityRepository) Subtree(ctx context.Context, ref models.EntityRef) ([]models.EntityRef, error) {
	out := []models.EntityRef{ref}
	db := r.db.WithContext(ctx)

	pluck := func(model any, column string, ids ...uuid.UUID) ([]uuid.UUID, error) {
		var found []uuid.UUID
		if len(ids) == 0 {
			return nil, nil
		}
		if err := db.Model(model).Where(column+" IN ?", ids).Pluck("id", &found).Error; err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "collect child entities failed")
		}
		return found, nil
	}
	appendRefs := func(t models.EntityType, ids []uuid.UUID) {
		for _, id := range ids {
			out = append(out, models.Ref(t, id))
		}
	}

	var taskIDs []uuid.UUID
	switch ref.Type {
	case models.EntityBlock:
		tasks, err := pluck(&models.TaskItem{}, "task_block_id", ref.ID)
		if err != nil {
			return nil, err
		}
		appendRefs(models.EntityTask, tasks)
		taskIDs = tasks

		events, err := pluck(&models.TimelineEvent{}, "timeline_block_id", ref.ID)
		if err != nil {
			return nil, err
		}
		appendRefs(models.EntityTimelineEvent, events)

		rows, err := pluck(&models.TableRow{}, "table_block_id", ref.ID)
		if err != nil {
			return nil, err
		}
		appendRefs(models.EntityTableRow, rows)
	case models.EntityTask:
		taskIDs = []uuid.UUID{ref.ID}
	}

	subtasks, err := pluck(&models.Subtask{}, "task_id", taskIDs...)
	if err != nil {
		return nil, err
	}
	appendRefs(models.EntitySubtask, subtasks)
	return out, nil
}

func (r *entityRepository) Purge(ctx context.Context, refs []models.EntityRef) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return purge(tx, refs)
	})
}

func (r *entityRepository) PurgeProject(ctx context.Context, projectID uuid.UUID) error {
	var blockIDs []uuid.UUID
	err := r.db.WithContext(ctx).Table("blocks").
		Joins("JOIN tabs ON tabs.id = blocks.tab_id").
		Where("tabs.project_id = ?", projectID).
		Pluck("blocks.id", &blockIDs).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "collect project blocks failed")
	}

	var refs []models.EntityRef
	for _, id := range blockIDs {
		sub, err := r.Subtree(ctx, models.Ref(models.EntityBlock, id))
		if err != nil {
			return err
		}
		refs = append(refs, sub...)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := purge(tx, refs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Tab{}).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "delete project tabs failed")
		}
		res := tx.Delete(&models.Project{}, "id = ?", projectID)
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "delete project failed")
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "project not found")
		}
		return nil
	})
}

var entityModels = map[models.EntityType]any{
	models.EntityBlock:         &models.Block{},
	models.EntityTask:          &models.TaskItem{},
	models.EntityTimelineEvent: &models.TimelineEvent{},
	models.EntityTableRow:      &models.TableRow{},
	models.EntitySubtask:       &models.Subtask{},
}

type purgeStep struct {
	model any
	where string
	args  []any
}

func purge(tx *gorm.DB, refs []models.EntityRef) error {
	byType := make(map[models.EntityType][]uuid.UUID)
	for _, ref := range refs {
		byType[ref.Type] = append(byType[ref.Type], ref.ID)
	}

	for t, ids := range byType {
		steps := []purgeStep{
			{&models.EntityProperties{}, "entity_type = ? AND entity_id IN ?", []any{t, ids}},
			{&models.EntityPropertyValue{}, "entity_type = ? AND entity_id IN ?", []any{t, ids}},
			{&models.EntityLink{}, "(source_type = ? AND source_id IN ?) OR (target_type = ? AND target_id IN ?)", []any{t, ids, t, ids}},
			{&models.InheritedDisplay{}, "(source_type = ? AND source_id IN ?) OR (target_type = ? AND target_id IN ?)", []any{t, ids, t, ids}},
		}
		switch t {
		case models.EntityTimelineEvent:
			steps = append(steps, purgeStep{&models.TimelineDependency{}, "from_id IN ? OR to_id IN ?", []any{ids, ids}})
		case models.EntityBlock:
			steps = append(steps, purgeStep{&models.TimelineDependency{}, "timeline_block_id IN ?", []any{ids}})
		}
		steps = append(steps, purgeStep{entityModels[t], "id IN ?", []any{ids}})

		for _, s := range steps {
			if err := tx.Where(s.where, s.args...).Delete(s.model).Error; err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "purge entities failed").WithMeta("entity_type", string(t))
			}
		}
	}
	return nil
}
