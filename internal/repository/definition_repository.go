package repository

import (
	"context"
	"errors"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefinitionRepository interface {
	BaseRepository[models.PropertyDefinition]
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.PropertyDefinition, error)
	// DeleteCascade removes the definition, its values and its display overrides.
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	UpsertValue(ctx context.Context, v *models.EntityPropertyValue) error
	GetValue(ctx context.Context, ref models.EntityRef, definitionID uuid.UUID, dest *models.EntityPropertyValue) error
	DeleteValue(ctx context.Context, ref models.EntityRef, definitionID uuid.UUID) error
	ListValues(ctx context.Context, refs []models.EntityRef) ([]models.EntityPropertyValue, error)
}

type definitionRepository struct {
	BaseRepository[models.PropertyDefinition]
	db *gorm.DB
}

func NewDefinitionRepository(db *gorm.DB) DefinitionRepository {
	return &definitionRepository{BaseRepository: NewBaseRepository[models.PropertyDefinition](db, "property definition not found"), db: db}
}

func (r *definitionRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.PropertyDefinition, error) {
	return findAll[models.PropertyDefinition](ctx, r.db, "name ASC", "workspace_id = ?", workspaceID)
}

func (r *definitionRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_definition_id = ?", id).Delete(&models.EntityPropertyValue{}).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "delete property values failed")
		}
		if err := tx.Where("property_key = ?", id.String()).Delete(&models.InheritedDisplay{}).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "delete display overrides failed")
		}
		res := tx.Delete(&models.PropertyDefinition{}, "id = ?", id)
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "delete property definition failed")
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "property definition not found")
		}
		return nil
	})
}

func (r *definitionRepository) UpsertValue(ctx context.Context, v *models.EntityPropertyValue) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "property_definition_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert property value failed")
	}
	return nil
}

func (r *definitionRepository) GetValue(ctx context.Context, ref models.EntityRef, definitionID uuid.UUID, dest *models.EntityPropertyValue) error {
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND property_definition_id = ?", ref.Type, ref.ID, definitionID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "property value not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get property value failed")
	}
	return nil
}

func (r *definitionRepository) DeleteValue(ctx context.Context, ref models.EntityRef, definitionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND property_definition_id = ?", ref.Type, ref.ID, definitionID).
		Delete(&models.EntityPropertyValue{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete property value failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "property value not found")
	}
	return nil
}

func (r *definitionRepository) ListValues(ctx context.Context, refs []models.EntityRef) ([]models.EntityPropertyValue, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var out []models.EntityPropertyValue
	if err := whereRefs(r.db.WithContext(ctx), refs).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list property values failed")
	}
	return out, nil
}
