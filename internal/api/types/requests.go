package types

import (
	"encoding/json"
	"time"

	"github.com/blockwork/engine/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type WorkspaceCreateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type MemberAddRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member viewer"`
}

type ClientCreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type ProjectCreateRequest struct {
	Name     string     `json:"name" validate:"required"`
	ClientID *string    `json:"client_id" validate:"omitempty,uuid"`
	Status   string     `json:"status" validate:"omitempty,oneof=not_started in_progress complete"`
	DueDate  *time.Time `json:"due_date"`
}

type TabCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	ParentTabID *string `json:"parent_tab_id" validate:"omitempty,uuid"`
	Position    int     `json:"position" validate:"gte=0"`
}

type BlockCreateRequest struct {
	Type     string                 `json:"type" validate:"required,oneof=task table timeline text document"`
	Content  map[string]interface{} `json:"content"`
	Position int                    `json:"position" validate:"gte=0"`
}

type TaskCreateRequest struct {
	Text     string `json:"text" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

type TaskUpdateRequest struct {
	Text     *string `json:"text" validate:"omitempty,min=1"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
}

type SubtaskCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

type RowCreateRequest struct {
	Data     map[string]interface{} `json:"data"`
	Position int                    `json:"position" validate:"gte=0"`
}

type EventCreateRequest struct {
	Title      string    `json:"title" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	Progress   int       `json:"progress" validate:"gte=0,lte=100"`
	Status     string    `json:"status"`
	AssigneeID *string   `json:"assignee_id" validate:"omitempty,uuid"`
	Color      string    `json:"color"`
}

type EventUpdateRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=1"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Progress  *int       `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Status    *string    `json:"status"`
	Color     *string    `json:"color"`
}

type DependencyCreateRequest struct {
	FromID string `json:"from_id" validate:"required,uuid"`
	ToID   string `json:"to_id" validate:"required,uuid"`
	Kind   string `json:"kind" validate:"omitempty,oneof=finish-to-start start-to-start finish-to-finish start-to-finish"`
}

type TagRequest struct {
	Tag string `json:"tag"`
}

type LinkCreateRequest struct {
	TargetType string `json:"target_type" validate:"required,entity_type"`
	TargetID   string `json:"target_id" validate:"required,uuid"`
}

type VisibilityRequest struct {
	SourceType  string `json:"source_type" validate:"required,entity_type"`
	SourceID    string `json:"source_id" validate:"required,uuid"`
	PropertyKey string `json:"property_key"`
	IsVisible   *bool  `json:"is_visible" validate:"required"`
}

type DefinitionCreateRequest struct {
	Name    string                  `json:"name" validate:"required,max=100"`
	Type    string                  `json:"type" validate:"required,oneof=select multi_select date person"`
	Options []models.PropertyOption `json:"options" validate:"dive"`
}

type DefinitionUpdateRequest struct {
	Name    *string                 `json:"name" validate:"omitempty,min=1,max=100"`
	Options []models.PropertyOption `json:"options" validate:"omitempty,dive"`
}

type ValueSetRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}
