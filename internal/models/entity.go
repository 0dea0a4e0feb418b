package models

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityType names the kinds of rows universal properties can attach to.
type EntityType string

const (
	EntityBlock         EntityType = "block"
	EntityTask          EntityType = "task"
	EntityTimelineEvent EntityType = "timeline_event"
	EntityTableRow      EntityType = "table_row"
	EntitySubtask       EntityType = "subtask"
)

// EntityTypes lists every addressable entity type.
var EntityTypes = []EntityType{EntityBlock, EntityTask, EntityTimelineEvent, EntityTableRow, EntitySubtask}

func (t EntityType) Valid() bool {
	for _, et := range EntityTypes {
		if t == et {
			return true
		}
	}
	return false
}

// EntityRef addresses one entity.
type EntityRef struct {
	Type EntityType `json:"entity_type"`
	ID   uuid.UUID  `json:"entity_id"`
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// Ref builds an EntityRef.
func Ref(t EntityType, id uuid.UUID) EntityRef {
	return EntityRef{Type: t, ID: id}
}
