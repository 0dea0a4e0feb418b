package repository

import (
	"context"

	"github.com/blockwork/engine/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error)
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db, "project not found"), db: db}
}

func (r *projectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Project, error) {
	return findAll[models.Project](ctx, r.db, "created_at DESC", "workspace_id = ?", workspaceID)
}

type ClientRepository interface {
	BaseRepository[models.Client]
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Client, error)
}

type clientRepository struct {
	BaseRepository[models.Client]
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{BaseRepository: NewBaseRepository[models.Client](db, "client not found"), db: db}
}

func (r *clientRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Client, error) {
	return findAll[models.Client](ctx, r.db, "name ASC", "workspace_id = ?", workspaceID)
}

type TabRepository interface {
	BaseRepository[models.Tab]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Tab, error)
}

type tabRepository struct {
	BaseRepository[models.Tab]
	db *gorm.DB
}

func NewTabRepository(db *gorm.DB) TabRepository {
	return &tabRepository{BaseRepository: NewBaseRepository[models.Tab](db, "tab not found"), db: db}
}

func (r *tabRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Tab, error) {
	return findAll[models.Tab](ctx, r.db, "position ASC, created_at ASC", "project_id = ?", projectID)
}

type BlockRepository interface {
	BaseRepository[models.Block]
	ListByTab(ctx context.Context, tabID uuid.UUID) ([]models.Block, error)
}

type blockRepository struct {
	BaseRepository[models.Block]
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{BaseRepository: NewBaseRepository[models.Block](db, "block not found"), db: db}
}

func (r *blockRepository) ListByTab(ctx context.Context, tabID uuid.UUID) ([]models.Block, error) {
	return findAll[models.Block](ctx, r.db, "position ASC, created_at ASC", "tab_id = ?", tabID)
}
