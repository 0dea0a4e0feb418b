package models

import (
	"time"

	"github.com/google/uuid"
)

// Legacy task columns. Universal properties are mirrored onto these.
const (
	LegacyStatusTodo       = "todo"
	LegacyStatusInProgress = "in-progress"
	LegacyStatusDone       = "done"

	LegacyPriorityNone = "none"
)

// TaskItem is a row of a task block. Its Status/Priority/AssigneeID/DueDate
// columns predate universal properties and are kept in sync best-effort.
type TaskItem struct {
	Base
	TaskBlockID uuid.UUID  `gorm:"type:uuid;index;not null" json:"task_block_id"`
	Text        string     `gorm:"not null" json:"text"`
	Status      string     `gorm:"type:varchar(16);not null;default:'todo'" json:"status"`
	Priority    string     `gorm:"type:varchar(16);not null;default:'none'" json:"priority"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Position    int        `gorm:"not null;default:0" json:"position"`
}

// Subtask is a checklist entry under a task item.
type Subtask struct {
	Base
	TaskID uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	Text   string    `gorm:"not null" json:"text"`
	Done   bool      `gorm:"not null;default:false" json:"done"`
}
