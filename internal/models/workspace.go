package models

import "github.com/google/uuid"

// Workspace is the tenant boundary. Everything else hangs off one.
type Workspace struct {
	Base
	Name    string    `gorm:"not null" json:"name" validate:"required"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// CanManageMembers reports whether the role may add or remove members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// WorkspaceMember grants a user access to a workspace.
type WorkspaceMember struct {
	Base
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_workspace_user" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_workspace_user;index" json:"user_id"`
	Role        Role      `gorm:"type:varchar(16);not null;default:'member'" json:"role"`
}
