package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BlockType string

const (
	BlockTask     BlockType = "task"
	BlockTable    BlockType = "table"
	BlockTimeline BlockType = "timeline"
	BlockText     BlockType = "text"
	BlockDocument BlockType = "document"
)

// Block is a content unit on a tab. Task, table and timeline blocks own child rows.
type Block struct {
	Base
	TabID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"tab_id"`
	Type     BlockType      `gorm:"type:varchar(16);not null" json:"type"`
	Content  datatypes.JSON `json:"content,omitempty"`
	Position int            `gorm:"not null;default:0" json:"position"`
}
