package services

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
)

// accessGuard resolves the workspace that owns something and checks the caller
// belongs to it. Every mutation goes through it first.
type accessGuard struct {
	workspaces repository.WorkspaceRepository
	entities   repository.EntityRepository
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return appErr.New(appErr.CodeUnauthorized, appErr.MsgUnauthorized)
	}
	return nil
}

func (g accessGuard) member(ctx context.Context, workspaceID, userID uuid.UUID) (*models.WorkspaceMember, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var m models.WorkspaceMember
	if err := g.workspaces.GetMember(ctx, workspaceID, userID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// entity returns the workspace of ref once the caller is known to be a member of it.
func (g accessGuard) entity(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return uuid.Nil, err
	}
	if !ref.Type.Valid() {
		return uuid.Nil, appErr.Newf(appErr.CodeInvalid, "unknown entity type %q", ref.Type)
	}
	wsID, err := g.entities.ResolveWorkspace(ctx, ref)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := g.member(ctx, wsID, userID); err != nil {
		return uuid.Nil, err
	}
	return wsID, nil
}

func (g accessGuard) tab(ctx context.Context, userID, tabID uuid.UUID) (uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return uuid.Nil, err
	}
	wsID, err := g.entities.TabWorkspace(ctx, tabID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := g.member(ctx, wsID, userID); err != nil {
		return uuid.Nil, err
	}
	return wsID, nil
}

// assignable checks that assignee belongs to the workspace.
func (g accessGuard) assignable(ctx context.Context, workspaceID, assignee uuid.UUID) error {
	var m models.WorkspaceMember
	if err := g.workspaces.GetMember(ctx, workspaceID, assignee, &m); err != nil {
		if appErr.IsCode(err, appErr.CodeForbidden) {
			return appErr.New(appErr.CodeInvalid, "assignee is not a member of this workspace").WithMeta("assignee_id", assignee.String())
		}
		return err
	}
	return nil
}
