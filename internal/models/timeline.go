package models

import (
	"time"

	"github.com/google/uuid"
)

// TimelineEvent is a bar on a timeline block.
type TimelineEvent struct {
	Base
	TimelineBlockID uuid.UUID  `gorm:"type:uuid;index;not null" json:"timeline_block_id"`
	Title           string     `gorm:"not null" json:"title"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         time.Time  `gorm:"not null" json:"end_date"`
	Progress        int        `gorm:"not null;default:0" json:"progress"`
	Status          string     `gorm:"type:varchar(16);not null;default:'planned'" json:"status"`
	AssigneeID      *uuid.UUID `gorm:"type:uuid" json:"assignee_id,omitempty"`
	Color           string     `json:"color,omitempty"`
}

// Duration is the span between start and end.
func (e TimelineEvent) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

type DependencyKind string

const (
	FinishToStart  DependencyKind = "finish-to-start"
	StartToStart   DependencyKind = "start-to-start"
	FinishToFinish DependencyKind = "finish-to-finish"
	StartToFinish  DependencyKind = "start-to-finish"
)

// Valid reports whether k is one of the four dependency kinds.
func (k DependencyKind) Valid() bool {
	switch k {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// TimelineDependency says ToID is constrained by FromID according to Kind.
type TimelineDependency struct {
	Base
	TimelineBlockID uuid.UUID      `gorm:"type:uuid;index;not null" json:"timeline_block_id"`
	FromID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_dependency_from_to" json:"from_id"`
	ToID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_dependency_from_to;index" json:"to_id"`
	Kind            DependencyKind `gorm:"type:varchar(24);not null;default:'finish-to-start'" json:"kind"`
}
