package repository

import (
	"context"
	"errors"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns of entity_properties a partial update may touch.
const (
	ColStatus     = "status"
	ColPriority   = "priority"
	ColAssigneeID = "assignee_id"
	ColDueDate    = "due_date"
	ColTags       = "tags"
)

type PropertyRepository interface {
	Get(ctx context.Context, ref models.EntityRef, dest *models.EntityProperties) error
	// Upsert inserts row, or on conflict with the entity's existing row overwrites
	// only the listed columns. The merge happens inside the database.
	Upsert(ctx context.Context, row *models.EntityProperties, columns []string) error
	ReplaceTags(ctx context.Context, id uuid.UUID, tags []string) error
	Delete(ctx context.Context, ref models.EntityRef) error
	ListForEntities(ctx context.Context, refs []models.EntityRef) (map[models.EntityRef]models.EntityProperties, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Get(ctx context.Context, ref models.EntityRef, dest *models.EntityProperties) error {
	err := r.db.WithContext(ctx).Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, appErr.MsgPropsNotFound)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get entity properties failed")
	}
	return nil
}

func (r *propertyRepository) Upsert(ctx context.Context, row *models.EntityProperties, columns []string) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
	}
	if len(columns) == 0 {
		onConflict.DoNothing = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(append(append([]string{}, columns...), "updated_at"))
	}
	if row.Tags == nil {
		row.Tags = datatypes.JSONSlice[string]{}
	}
	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(row).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert entity properties failed")
	}
	return nil
}

func (r *propertyRepository) ReplaceTags(ctx context.Context, id uuid.UUID, tags []string) error {
	res := r.db.WithContext(ctx).Model(&models.EntityProperties{}).Where("id = ?", id).
		Update(ColTags, datatypes.JSONSlice[string](tags))
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update tags failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, appErr.MsgPropsNotFound)
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, ref models.EntityRef) error {
	err := r.db.WithContext(ctx).Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).Delete(&models.EntityProperties{}).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete entity properties failed")
	}
	return nil
}

func (r *propertyRepository) ListForEntities(ctx context.Context, refs []models.EntityRef) (map[models.EntityRef]models.EntityProperties, error) {
	out := make(map[models.EntityRef]models.EntityProperties, len(refs))
	if len(refs) == 0 {
		return out, nil
	}
	var rows []models.EntityProperties
	if err := whereRefs(r.db.WithContext(ctx), refs).Find(&rows).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list entity properties failed")
	}
	for _, row := range rows {
		out[row.Ref()] = row
	}
	return out, nil
}

// whereRefs narrows q to rows whose (entity_type, entity_id) is one of refs.
func whereRefs(q *gorm.DB, refs []models.EntityRef) *gorm.DB {
	byType := make(map[models.EntityType][]uuid.UUID)
	var types []models.EntityType
	for _, ref := range refs {
		if _, ok := byType[ref.Type]; !ok {
			types = append(types, ref.Type)
		}
		byType[ref.Type] = append(byType[ref.Type], ref.ID)
	}
	cond := q.Session(&gorm.Session{NewDB: true})
	for i, t := range types {
		if i == 0 {
			cond = cond.Where("entity_type = ? AND entity_id IN ?", t, byType[t])
			continue
		}
		cond = cond.Or("entity_type = ? AND entity_id IN ?", t, byType[t])
	}
	return q.Where(cond)
}
