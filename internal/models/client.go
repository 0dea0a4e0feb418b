package models

import "github.com/google/uuid"

// Client is a customer a workspace runs projects for.
type Client struct {
	Base
	WorkspaceID uuid.UUID `gorm:"type:uuid;index;not null" json:"workspace_id"`
	Name        string    `gorm:"not null" json:"name"`
	Company     string    `json:"company,omitempty"`
	Email       string    `json:"email,omitempty"`
}
