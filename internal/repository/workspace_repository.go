package repository

import (
	"context"
	"errors"

	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRepository interface {
	BaseRepository[models.Workspace]
	// CreateWithOwner inserts the workspace and its owner membership together.
	CreateWithOwner(ctx context.Context, ws *models.Workspace) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error)
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID, dest *models.WorkspaceMember) error
	AddMember(ctx context.Context, m *models.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error)
}

type workspaceRepository struct {
	BaseRepository[models.Workspace]
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{BaseRepository: NewBaseRepository[models.Workspace](db, "workspace not found"), db: db}
}

func (r *workspaceRepository) CreateWithOwner(ctx context.Context, ws *models.Workspace) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return translate(err, "create workspace failed")
		}
		owner := &models.WorkspaceMember{WorkspaceID: ws.ID, UserID: ws.OwnerID, Role: models.RoleOwner}
		if err := tx.Create(owner).Error; err != nil {
			return translate(err, "create owner membership failed")
		}
		return nil
	})
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	var out []models.Workspace
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members wm ON wm.workspace_id = workspaces.id").
		Where("wm.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list workspaces failed")
	}
	return out, nil
}

func (r *workspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID, dest *models.WorkspaceMember) error {
	err := r.db.WithContext(ctx).Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeForbidden, appErr.MsgNotMember)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get workspace member failed")
	}
	return nil
}

func (r *workspaceRepository) AddMember(ctx context.Context, m *models.WorkspaceMember) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err, "add workspace member failed")
	}
	return nil
}

func (r *workspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("workspace_id = ? AND user_id = ?", workspaceID, userID).Delete(&models.WorkspaceMember{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "remove workspace member failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "member not found")
	}
	return nil
}

func (r *workspaceRepository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMember, error) {
	var out []models.WorkspaceMember
	if err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list workspace members failed")
	}
	return out, nil
}
