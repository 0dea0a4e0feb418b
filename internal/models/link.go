package models

import "github.com/google/uuid"

// EntityLink is an @mention from Source to Target. Properties are inherited
// along it, from source to target, one hop only.
type EntityLink struct {
	Base
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index;not null" json:"workspace_id"`
	SourceType  EntityType `gorm:"type:varchar(24);not null;uniqueIndex:idx_entity_link_pair" json:"source_type"`
	SourceID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_entity_link_pair" json:"source_id"`
	TargetType  EntityType `gorm:"type:varchar(24);not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_target" json:"target_type"`
	TargetID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_entity_link_pair;index:idx_entity_link_target" json:"target_id"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid" json:"created_by"`
}

func (l EntityLink) Source() EntityRef { return EntityRef{Type: l.SourceType, ID: l.SourceID} }

// InheritedDisplay overrides whether a target shows what it inherits from a source.
// PropertyKey "" addresses the whole inherited set, otherwise a property definition id.
type InheritedDisplay struct {
	Base
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index;not null" json:"workspace_id"`
	TargetType  EntityType `gorm:"type:varchar(24);not null;uniqueIndex:idx_inherited_display_key" json:"target_type"`
	TargetID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_inherited_display_key" json:"target_id"`
	SourceType  EntityType `gorm:"type:varchar(24);not null;uniqueIndex:idx_inherited_display_key" json:"source_type"`
	SourceID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_inherited_display_key" json:"source_id"`
	PropertyKey string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_inherited_display_key" json:"property_key"`
	IsVisible   bool       `gorm:"not null" json:"is_visible"`
}

func (InheritedDisplay) TableName() string { return "entity_inherited_display" }
