package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectNotStarted = "not_started"
	ProjectInProgress = "in_progress"
	ProjectComplete   = "complete"
)

// Project groups tabs inside a workspace, optionally for a client.
type Project struct {
	Base
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index;not null" json:"workspace_id"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Status      string     `gorm:"type:varchar(32);not null;default:'not_started'" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Tab is a page inside a project. Tabs may nest one level via ParentTabID.
type Tab struct {
	Base
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	ParentTabID *uuid.UUID `gorm:"type:uuid;index" json:"parent_tab_id,omitempty"`
	Name        string     `gorm:"not null" json:"name"`
	Position    int        `gorm:"not null;default:0" json:"position"`
}
