package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// DefinitionService manages workspace property definitions and the values
// entities carry for them.
type DefinitionService interface {
	CreateDefinition(ctx context.Context, workspaceID, userID uuid.UUID, input *DefinitionInput) (*models.PropertyDefinition, error)
	ListDefinitions(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.PropertyDefinition, error)
	UpdateDefinition(ctx context.Context, definitionID, userID uuid.UUID, input *UpdateDefinitionInput) (*models.PropertyDefinition, error)
	DeleteDefinition(ctx context.Context, definitionID, userID uuid.UUID) error

	SetValue(ctx context.Context, userID uuid.UUID, ref models.EntityRef, definitionID uuid.UUID, value json.RawMessage) (*models.EntityPropertyValue, error)
	ClearValue(ctx context.Context, userID uuid.UUID, ref models.EntityRef, definitionID uuid.UUID) error
	ListValues(ctx context.Context, userID uuid.UUID, ref models.EntityRef) ([]models.EntityPropertyValue, error)
}

type DefinitionInput struct {
	Name    string
	Type    models.PropertyType
	Options []models.PropertyOption
}

type UpdateDefinitionInput struct {
	Name    *string
	Options []models.PropertyOption
}

const dateOnly = "2006-01-02"

type definitionService struct {
	guard accessGuard
	defs  repository.DefinitionRepository
}

func NewDefinitionService(workspaces repository.WorkspaceRepository, entities repository.EntityRepository, defs repository.DefinitionRepository) DefinitionService {
	return &definitionService{
		guard: accessGuard{workspaces: workspaces, entities: entities},
		defs:  defs,
	}
}

var _ DefinitionService = (*definitionService)(nil)

func validateOptions(t models.PropertyType, options []models.PropertyOption) error {
	switch t {
	case models.PropertySelect, models.PropertyMultiSelect:
		if len(options) == 0 {
			return appErr.Newf(appErr.CodeInvalid, "%s properties need at least one option", t)
		}
	default:
		if len(options) > 0 {
			return appErr.Newf(appErr.CodeInvalid, "%s properties take no options", t)
		}
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if o.ID == "" || o.Label == "" {
			return appErr.New(appErr.CodeInvalid, "options need an id and a label")
		}
		if seen[o.ID] {
			return appErr.Newf(appErr.CodeInvalid, "duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

func (s *definitionService) CreateDefinition(ctx context.Context, workspaceID, userID uuid.UUID, input *DefinitionInput) (*models.PropertyDefinition, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, appErr.Newf(appErr.CodeInvalid, "invalid property type %q", input.Type)
	}
	if err := validateOptions(input.Type, input.Options); err != nil {
		return nil, err
	}
	d := &models.PropertyDefinition{
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Type:        input.Type,
		Options:     datatypes.JSONSlice[models.PropertyOption](input.Options),
	}
	if d.Options == nil {
		d.Options = datatypes.JSONSlice[models.PropertyOption]{}
	}
	if err := s.defs.Create(ctx, d); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, appErr.Wrap(err, appErr.CodeConflict, "a property with this name already exists")
		}
		return nil, err
	}
	logger.Ctx(ctx).Info("property definition created",
		zap.String("definition_id", d.ID.String()),
		zap.String("workspace_id", workspaceID.String()),
		zap.String("type", string(d.Type)))
	return d, nil
}

func (s *definitionService) ListDefinitions(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.PropertyDefinition, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.defs.ListByWorkspace(ctx, workspaceID)
}

func (s *definitionService) definition(ctx context.Context, definitionID, userID uuid.UUID) (*models.PropertyDefinition, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var d models.PropertyDefinition
	if err := s.defs.GetByID(ctx, definitionID, &d); err != nil {
		return nil, err
	}
	if _, err := s.guard.member(ctx, d.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *definitionService) UpdateDefinition(ctx context.Context, definitionID, userID uuid.UUID, input *UpdateDefinitionInput) (*models.PropertyDefinition, error) {
	d, err := s.definition(ctx, definitionID, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		d.Name = *input.Name
	}
	if input.Options != nil {
		if err := validateOptions(d.Type, input.Options); err != nil {
			return nil, err
		}
		d.Options = datatypes.JSONSlice[models.PropertyOption](input.Options)
	}
	if err := s.defs.Update(ctx, d); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, appErr.Wrap(err, appErr.CodeConflict, "a property with this name already exists")
		}
		return nil, err
	}
	return d, nil
}

func (s *definitionService) DeleteDefinition(ctx context.Context, definitionID, userID uuid.UUID) error {
	if _, err := s.definition(ctx, definitionID, userID); err != nil {
		return err
	}
	if err := s.defs.DeleteCascade(ctx, definitionID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("property definition deleted", zap.String("definition_id", definitionID.String()), zap.String("user_id", userID.String()))
	return nil
}

func (s *definitionService) SetValue(ctx context.Context, userID uuid.UUID, ref models.EntityRef, definitionID uuid.UUID, value json.RawMessage) (*models.EntityPropertyValue, error) {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	var d models.PropertyDefinition
	if err := s.defs.GetByID(ctx, definitionID, &d); err != nil {
		return nil, err
	}
	if d.WorkspaceID != wsID {
		return nil, appErr.New(appErr.CodeInvalid, "property definition belongs to another workspace")
	}
	normalized, err := s.validateValue(ctx, wsID, &d, value)
	if err != nil {
		return nil, err
	}

	v := &models.EntityPropertyValue{
		WorkspaceID:          wsID,
		EntityType:           ref.Type,
		EntityID:             ref.ID,
		PropertyDefinitionID: definitionID,
		Value:                normalized,
	}
	if err := s.defs.UpsertValue(ctx, v); err != nil {
		return nil, err
	}
	var stored models.EntityPropertyValue
	if err := s.defs.GetValue(ctx, ref, definitionID, &stored); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("property value set",
		zap.String("entity", ref.String()),
		zap.String("definition_id", definitionID.String()),
		zap.String("user_id", userID.String()))
	return &stored, nil
}

// validateValue checks value against the definition's type and returns its
// canonical encoding.
func (s *definitionService) validateValue(ctx context.Context, workspaceID uuid.UUID, d *models.PropertyDefinition, value json.RawMessage) (datatypes.JSON, error) {
	var canonical any
	switch d.Type {
	case models.PropertySelect:
		var id string
		if err := json.Unmarshal(value, &id); err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "select value must be an option id")
		}
		if !d.HasOption(id) {
			return nil, appErr.Newf(appErr.CodeInvalid, "unknown option %q", id)
		}
		canonical = id
	case models.PropertyMultiSelect:
		var ids []string
		if err := json.Unmarshal(value, &ids); err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "multi_select value must be a list of option ids")
		}
		out := make([]string, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if !d.HasOption(id) {
				return nil, appErr.Newf(appErr.CodeInvalid, "unknown option %q", id)
			}
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		canonical = out
	case models.PropertyDate:
		var raw string
		if err := json.Unmarshal(value, &raw); err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "date value must be a string")
		}
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			if _, err := time.Parse(dateOnly, raw); err != nil {
				return nil, appErr.Newf(appErr.CodeInvalid, "invalid date %q", raw)
			}
		}
		canonical = raw
	case models.PropertyPerson:
		var ids []uuid.UUID
		if err := json.Unmarshal(value, &ids); err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "person value must be a list of user ids")
		}
		for _, id := range ids {
			if err := s.guard.assignable(ctx, workspaceID, id); err != nil {
				return nil, err
			}
		}
		canonical = ids
	default:
		return nil, appErr.Newf(appErr.CodeInvalid, "invalid property type %q", d.Type)
	}
	b, err := json.Marshal(canonical)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "encode property value failed")
	}
	return datatypes.JSON(b), nil
}

func (s *definitionService) ClearValue(ctx context.Context, userID uuid.UUID, ref models.EntityRef, definitionID uuid.UUID) error {
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return err
	}
	return s.defs.DeleteValue(ctx, ref, definitionID)
}

func (s *definitionService) ListValues(ctx context.Context, userID uuid.UUID, ref models.EntityRef) ([]models.EntityPropertyValue, error) {
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return nil, err
	}
	values, err := s.defs.ListValues(ctx, []models.EntityRef{ref})
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []models.EntityPropertyValue{}
	}
	return values, nil
}
