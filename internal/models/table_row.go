package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TableRow is a row of a table block; cell values live in Data keyed by column id.
type TableRow struct {
	Base
	TableBlockID uuid.UUID      `gorm:"type:uuid;index;not null" json:"table_block_id"`
	Data         datatypes.JSON `json:"data,omitempty"`
	Position     int            `gorm:"not null;default:0" json:"position"`
}
