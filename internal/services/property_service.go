package services

import (
	"context"
	"strings"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/blockwork/engine/pkg/patch"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PropertyService reads and writes universal properties and resolves what an
// entity inherits over incoming links.
type PropertyService interface {
	GetProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*models.EntityProperties, error)
	SetProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef, p PropertyPatch) (*models.EntityProperties, error)
	ClearProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef) error

	AddTag(ctx context.Context, userID uuid.UUID, ref models.EntityRef, tag string) (*models.EntityProperties, error)
	RemoveTag(ctx context.Context, userID uuid.UUID, ref models.EntityRef, tag string) (*models.EntityProperties, error)

	GetWithInheritance(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*PropertiesWithInheritance, error)
	SetInheritedVisibility(ctx context.Context, userID uuid.UUID, input *VisibilityInput) (*models.InheritedDisplay, error)
}

// PropertyPatch is a partial update. Absent fields keep their stored value,
// null clears it.
type PropertyPatch struct {
	Status     patch.Field[string]    `json:"status"`
	Priority   patch.Field[string]    `json:"priority"`
	AssigneeID patch.Field[uuid.UUID] `json:"assignee_id"`
	DueDate    patch.Field[time.Time] `json:"due_date"`
	Tags       patch.Field[[]string]  `json:"tags"`
}

type VisibilityInput struct {
	Target      models.EntityRef
	Source      models.EntityRef
	PropertyKey string
	Visible     bool
}

// PropertiesWithInheritance is an entity's own properties plus, per incoming
// link, what the link's source carries. Inherited sets are never merged into Direct.
type PropertiesWithInheritance struct {
	Direct    *models.EntityProperties     `json:"direct"`
	Values    []models.EntityPropertyValue `json:"values"`
	Inherited []InheritedProperties        `json:"inherited"`
}

type InheritedProperties struct {
	LinkID     uuid.UUID                `json:"link_id"`
	Source     models.EntityRef         `json:"source"`
	Properties *models.EntityProperties `json:"properties"`
	Values     []InheritedValue         `json:"values"`
	Visible    bool                     `json:"visible"`
}

type InheritedValue struct {
	models.EntityPropertyValue
	Visible bool `json:"visible"`
}

var (
	validStatuses   = map[string]bool{models.StatusTodo: true, models.StatusInProgress: true, models.StatusDone: true, models.StatusBlocked: true}
	validPriorities = map[string]bool{models.PriorityLow: true, models.PriorityMedium: true, models.PriorityHigh: true, models.PriorityUrgent: true}
	mirroredColumns = map[string]bool{repository.ColStatus: true, repository.ColPriority: true, repository.ColAssigneeID: true, repository.ColDueDate: true}
)

type propertyService struct {
	guard  accessGuard
	props  repository.PropertyRepository
	links  repository.LinkRepository
	defs   repository.DefinitionRepository
	legacy LegacySyncer
}

func NewPropertyService(
	workspaces repository.WorkspaceRepository,
	entities repository.EntityRepository,
	props repository.PropertyRepository,
	links repository.LinkRepository,
	defs repository.DefinitionRepository,
	legacy LegacySyncer,
) PropertyService {
	return &propertyService{
		guard:  accessGuard{workspaces: workspaces, entities: entities},
		props:  props,
		links:  links,
		defs:   defs,
		legacy: legacy,
	}
}

var _ PropertyService = (*propertyService)(nil)

// emptyProperties is what an entity without a property row reads as.
func emptyProperties(workspaceID uuid.UUID, ref models.EntityRef) *models.EntityProperties {
	return &models.EntityProperties{
		WorkspaceID: workspaceID,
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		Tags:        datatypes.JSONSlice[string]{},
	}
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (s *propertyService) GetProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*models.EntityProperties, error) {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	var row models.EntityProperties
	if err := s.props.Get(ctx, ref, &row); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return emptyProperties(wsID, ref), nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *propertyService) SetProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef, p PropertyPatch) (*models.EntityProperties, error) {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	row := emptyProperties(wsID, ref)
	var columns []string
	if p.Status.Set {
		if p.Status.HasValue() && !validStatuses[p.Status.Value] {
			return nil, appErr.Newf(appErr.CodeInvalid, "invalid status %q", p.Status.Value)
		}
		row.Status = p.Status.Ptr()
		columns = append(columns, repository.ColStatus)
	}
	if p.Priority.Set {
		if p.Priority.HasValue() && !validPriorities[p.Priority.Value] {
			return nil, appErr.Newf(appErr.CodeInvalid, "invalid priority %q", p.Priority.Value)
		}
		row.Priority = p.Priority.Ptr()
		columns = append(columns, repository.ColPriority)
	}
	if p.AssigneeID.Set {
		if p.AssigneeID.HasValue() {
			if err := s.guard.assignable(ctx, wsID, p.AssigneeID.Value); err != nil {
				return nil, err
			}
		}
		row.AssigneeID = p.AssigneeID.Ptr()
		columns = append(columns, repository.ColAssigneeID)
	}
	if p.DueDate.Set {
		row.DueDate = p.DueDate.Ptr()
		columns = append(columns, repository.ColDueDate)
	}
	if p.Tags.Set {
		tags, err := normalizeTags(p.Tags.Value)
		if err != nil {
			return nil, err
		}
		row.Tags = tags
		columns = append(columns, repository.ColTags)
	}

	if err := s.props.Upsert(ctx, row, columns); err != nil {
		return nil, err
	}
	var stored models.EntityProperties
	if err := s.props.Get(ctx, ref, &stored); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("properties updated",
		zap.String("entity", ref.String()),
		zap.Strings("columns", columns),
		zap.String("user_id", userID.String()))

	if ref.Type == models.EntityTask && touchesMirror(columns) {
		s.legacy.Sync(ctx, ref.ID, stored)
	}
	return &stored, nil
}

func touchesMirror(columns []string) bool {
	for _, c := range columns {
		if mirroredColumns[c] {
			return true
		}
	}
	return false
}

func normalizeTags(in []string) (datatypes.JSONSlice[string], error) {
	out := datatypes.JSONSlice[string]{}
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		n := NormalizeTag(t)
		if n == "" {
			return nil, appErr.New(appErr.CodeInvalid, appErr.MsgTagEmpty)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

func (s *propertyService) ClearProperties(ctx context.Context, userID uuid.UUID, ref models.EntityRef) error {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return err
	}
	if err := s.props.Delete(ctx, ref); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("properties cleared", zap.String("entity", ref.String()), zap.String("user_id", userID.String()))
	if ref.Type == models.EntityTask {
		s.legacy.Sync(ctx, ref.ID, *emptyProperties(wsID, ref))
	}
	return nil
}

func (s *propertyService) AddTag(ctx context.Context, userID uuid.UUID, ref models.EntityRef, tag string) (*models.EntityProperties, error) {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgTagEmpty)
	}

	var row models.EntityProperties
	err = s.props.Get(ctx, ref, &row)
	switch {
	case appErr.IsCode(err, appErr.CodeNotFound):
		fresh := emptyProperties(wsID, ref)
		fresh.Tags = datatypes.JSONSlice[string]{tag}
		if err := s.props.Upsert(ctx, fresh, []string{repository.ColTags}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case row.HasTag(tag):
		return nil, appErr.New(appErr.CodeConflict, appErr.MsgTagExists)
	default:
		tags := append(append([]string{}, row.Tags...), tag)
		if err := s.props.ReplaceTags(ctx, row.ID, tags); err != nil {
			return nil, err
		}
	}

	var stored models.EntityProperties
	if err := s.props.Get(ctx, ref, &stored); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("tag added", zap.String("entity", ref.String()), zap.String("tag", tag))
	return &stored, nil
}

func (s *propertyService) RemoveTag(ctx context.Context, userID uuid.UUID, ref models.EntityRef, tag string) (*models.EntityProperties, error) {
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return nil, err
	}
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgTagEmpty)
	}

	var row models.EntityProperties
	if err := s.props.Get(ctx, ref, &row); err != nil {
		return nil, err
	}
	if !row.HasTag(tag) {
		return &row, nil
	}
	kept := make([]string, 0, len(row.Tags))
	for _, t := range row.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	if err := s.props.ReplaceTags(ctx, row.ID, kept); err != nil {
		return nil, err
	}
	row.Tags = kept
	logger.Ctx(ctx).Info("tag removed", zap.String("entity", ref.String()), zap.String("tag", tag))
	return &row, nil
}

type displayKey struct {
	source models.EntityRef
	key    string
}

func (s *propertyService) GetWithInheritance(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*PropertiesWithInheritance, error) {
	wsID, err := s.guard.entity(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	incoming, err := s.links.ListIncoming(ctx, ref)
	if err != nil {
		return nil, err
	}
	refs := make([]models.EntityRef, 0, len(incoming)+1)
	refs = append(refs, ref)
	for _, l := range incoming {
		refs = append(refs, l.Source())
	}

	props, err := s.props.ListForEntities(ctx, refs)
	if err != nil {
		return nil, err
	}
	values, err := s.defs.ListValues(ctx, refs)
	if err != nil {
		return nil, err
	}
	valuesByEntity := make(map[models.EntityRef][]models.EntityPropertyValue)
	for _, v := range values {
		r := models.Ref(v.EntityType, v.EntityID)
		valuesByEntity[r] = append(valuesByEntity[r], v)
	}

	prefs, err := s.links.ListDisplay(ctx, ref)
	if err != nil {
		return nil, err
	}
	visible := make(map[displayKey]bool, len(prefs))
	for _, p := range prefs {
		visible[displayKey{models.Ref(p.SourceType, p.SourceID), p.PropertyKey}] = p.IsVisible
	}

	out := &PropertiesWithInheritance{
		Direct:    emptyProperties(wsID, ref),
		Values:    valuesByEntity[ref],
		Inherited: make([]InheritedProperties, 0, len(incoming)),
	}
	if row, ok := props[ref]; ok {
		out.Direct = &row
	}
	if out.Values == nil {
		out.Values = []models.EntityPropertyValue{}
	}

	for _, l := range incoming {
		src := l.Source()
		setVisible, ok := visible[displayKey{src, ""}]
		if !ok {
			setVisible = true
		}
		item := InheritedProperties{LinkID: l.ID, Source: src, Visible: setVisible, Values: []InheritedValue{}}
		if row, ok := props[src]; ok {
			item.Properties = &row
		}
		for _, v := range valuesByEntity[src] {
			vis, ok := visible[displayKey{src, v.PropertyDefinitionID.String()}]
			if !ok {
				vis = setVisible
			}
			item.Values = append(item.Values, InheritedValue{EntityPropertyValue: v, Visible: vis})
		}
		out.Inherited = append(out.Inherited, item)
	}
	return out, nil
}

func (s *propertyService) SetInheritedVisibility(ctx context.Context, userID uuid.UUID, input *VisibilityInput) (*models.InheritedDisplay, error) {
	wsID, err := s.guard.entity(ctx, userID, input.Target)
	if err != nil {
		return nil, err
	}
	if !input.Source.Type.Valid() {
		return nil, appErr.Newf(appErr.CodeInvalid, "unknown entity type %q", input.Source.Type)
	}
	srcWS, err := s.guard.entities.ResolveWorkspace(ctx, input.Source)
	if err != nil {
		return nil, err
	}
	if srcWS != wsID {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgCrossWorkspace)
	}
	if input.PropertyKey != "" {
		defID, err := uuid.Parse(input.PropertyKey)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "property_key must be empty or a property definition id")
		}
		var def models.PropertyDefinition
		if err := s.defs.GetByID(ctx, defID, &def); err != nil {
			return nil, err
		}
		if def.WorkspaceID != wsID {
			return nil, appErr.New(appErr.CodeInvalid, "property definition belongs to another workspace")
		}
		input.PropertyKey = defID.String()
	}

	d := &models.InheritedDisplay{
		WorkspaceID: wsID,
		TargetType:  input.Target.Type,
		TargetID:    input.Target.ID,
		SourceType:  input.Source.Type,
		SourceID:    input.Source.ID,
		PropertyKey: input.PropertyKey,
		IsVisible:   input.Visible,
	}
	if err := s.links.UpsertDisplay(ctx, d); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("inherited visibility set",
		zap.String("target", input.Target.String()),
		zap.String("source", input.Source.String()),
		zap.String("property_key", input.PropertyKey),
		zap.Bool("visible", input.Visible))
	return d, nil
}
