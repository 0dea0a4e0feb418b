package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusBlocked    = "blocked"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// EntityProperties is the fixed-column universal property row of one entity.
// Nil pointers mean "not set".
type EntityProperties struct {
	Base
	WorkspaceID uuid.UUID                   `gorm:"type:uuid;index;not null" json:"workspace_id"`
	EntityType  EntityType                  `gorm:"type:varchar(24);not null;uniqueIndex:idx_entity_properties_entity" json:"entity_type"`
	EntityID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_entity_properties_entity" json:"entity_id"`
	Status      *string                     `gorm:"type:varchar(16)" json:"status"`
	Priority    *string                     `gorm:"type:varchar(16)" json:"priority"`
	AssigneeID  *uuid.UUID                  `gorm:"type:uuid;index" json:"assignee_id"`
	DueDate     *time.Time                  `json:"due_date"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
}

func (EntityProperties) TableName() string { return "entity_properties" }

// Ref returns the entity the row belongs to.
func (p EntityProperties) Ref() EntityRef {
	return EntityRef{Type: p.EntityType, ID: p.EntityID}
}

// HasTag reports whether the already-normalized tag is present.
func (p EntityProperties) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
