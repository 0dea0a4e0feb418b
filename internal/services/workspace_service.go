package services

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID uuid.UUID, name string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error)
	ListMembers(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.WorkspaceMember, error)
	AddMember(ctx context.Context, workspaceID, userID uuid.UUID, input *AddMemberInput) (*models.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID, memberID uuid.UUID) error
}

type AddMemberInput struct {
	UserID uuid.UUID
	Role   models.Role
}

type workspaceService struct {
	guard      accessGuard
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
}

func NewWorkspaceService(workspaces repository.WorkspaceRepository, users repository.UserRepository, entities repository.EntityRepository) WorkspaceService {
	return &workspaceService{
		guard:      accessGuard{workspaces: workspaces, entities: entities},
		workspaces: workspaces,
		users:      users,
	}
}

var _ WorkspaceService = (*workspaceService)(nil)

func (s *workspaceService) CreateWorkspace(ctx context.Context, userID uuid.UUID, name string) (*models.Workspace, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ws := &models.Workspace{Name: name, OwnerID: userID}
	if err := s.workspaces.CreateWithOwner(ctx, ws); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("workspace created", zap.String("workspace_id", ws.ID.String()), zap.String("user_id", userID.String()))
	return ws, nil
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.workspaces.ListForUser(ctx, userID)
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.WorkspaceMember, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.workspaces.ListMembers(ctx, workspaceID)
}

func (s *workspaceService) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, input *AddMemberInput) (*models.WorkspaceMember, error) {
	actor, err := s.guard.member(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageMembers() {
		return nil, appErr.New(appErr.CodeForbidden, "only owners and admins can manage members")
	}
	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if role == models.RoleOwner {
		return nil, appErr.New(appErr.CodeInvalid, "a workspace has exactly one owner")
	}

	var u models.User
	if err := s.users.GetByID(ctx, input.UserID, &u); err != nil {
		return nil, err
	}
	m := &models.WorkspaceMember{WorkspaceID: workspaceID, UserID: input.UserID, Role: role}
	if err := s.workspaces.AddMember(ctx, m); err != nil {
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, appErr.Wrap(err, appErr.CodeConflict, "user is already a member")
		}
		return nil, err
	}
	logger.Ctx(ctx).Info("member added",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("member_id", input.UserID.String()),
		zap.String("role", string(role)))
	return m, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, userID, memberID uuid.UUID) error {
	actor, err := s.guard.member(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageMembers() && userID != memberID {
		return appErr.New(appErr.CodeForbidden, "only owners and admins can manage members")
	}
	var ws models.Workspace
	if err := s.workspaces.GetByID(ctx, workspaceID, &ws); err != nil {
		return err
	}
	if ws.OwnerID == memberID {
		return appErr.New(appErr.CodeInvalid, "the owner cannot be removed")
	}
	if err := s.workspaces.RemoveMember(ctx, workspaceID, memberID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("member removed", zap.String("workspace_id", workspaceID.String()), zap.String("member_id", memberID.String()))
	return nil
}
