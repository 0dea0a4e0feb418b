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

// LinkService manages @mention links between entities.
type LinkService interface {
	CreateLink(ctx context.Context, userID uuid.UUID, source, target models.EntityRef) (*models.EntityLink, error)
	DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error
	ListLinks(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*EntityLinks, error)
}

type EntityLinks struct {
	Incoming []models.EntityLink `json:"incoming"`
	Outgoing []models.EntityLink `json:"outgoing"`
}

type linkService struct {
	guard accessGuard
	links repository.LinkRepository
}

func NewLinkService(workspaces repository.WorkspaceRepository, entities repository.EntityRepository, links repository.LinkRepository) LinkService {
	return &linkService{
		guard: accessGuard{workspaces: workspaces, entities: entities},
		links: links,
	}
}

var _ LinkService = (*linkService)(nil)

func (s *linkService) CreateLink(ctx context.Context, userID uuid.UUID, source, target models.EntityRef) (*models.EntityLink, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if source == target {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgSelfLink)
	}
	for _, ref := range []models.EntityRef{source, target} {
		if !ref.Type.Valid() {
			return nil, appErr.Newf(appErr.CodeInvalid, "unknown entity type %q", ref.Type)
		}
	}

	srcWS, err := s.guard.entities.ResolveWorkspace(ctx, source)
	if err != nil {
		return nil, err
	}
	dstWS, err := s.guard.entities.ResolveWorkspace(ctx, target)
	if err != nil {
		return nil, err
	}
	if srcWS != dstWS {
		return nil, appErr.New(appErr.CodeInvalid, appErr.MsgCrossWorkspace)
	}
	if _, err := s.guard.member(ctx, srcWS, userID); err != nil {
		return nil, err
	}

	l := &models.EntityLink{
		WorkspaceID: srcWS,
		SourceType:  source.Type,
		SourceID:    source.ID,
		TargetType:  target.Type,
		TargetID:    target.ID,
		CreatedBy:   userID,
	}
	if err := s.links.Create(ctx, l); err != nil {
		return nil, err
	}

	display := &models.InheritedDisplay{
		WorkspaceID: srcWS,
		TargetType:  target.Type,
		TargetID:    target.ID,
		SourceType:  source.Type,
		SourceID:    source.ID,
		IsVisible:   true,
	}
	if err := s.links.EnsureDisplay(ctx, display); err != nil {
		logger.Ctx(ctx).Warn("create inherited display failed", zap.String("link_id", l.ID.String()), zap.Error(err))
	}

	logger.Ctx(ctx).Info("link created",
		zap.String("link_id", l.ID.String()),
		zap.String("source", source.String()),
		zap.String("target", target.String()),
		zap.String("user_id", userID.String()))
	return l, nil
}

func (s *linkService) DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	var l models.EntityLink
	if err := s.links.GetByID(ctx, linkID, &l); err != nil {
		return err
	}
	if _, err := s.guard.member(ctx, l.WorkspaceID, userID); err != nil {
		return err
	}
	if err := s.links.Delete(ctx, linkID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("link deleted", zap.String("link_id", linkID.String()), zap.String("user_id", userID.String()))
	return nil
}

func (s *linkService) ListLinks(ctx context.Context, userID uuid.UUID, ref models.EntityRef) (*EntityLinks, error) {
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return nil, err
	}
	in, err := s.links.ListIncoming(ctx, ref)
	if err != nil {
		return nil, err
	}
	out, err := s.links.ListOutgoing(ctx, ref)
	if err != nil {
		return nil, err
	}
	if in == nil {
		in = []models.EntityLink{}
	}
	if out == nil {
		out = []models.EntityLink{}
	}
	return &EntityLinks{Incoming: in, Outgoing: out}, nil
}
