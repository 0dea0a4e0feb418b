package api

import (
	"context"

	"github.com/blockwork/engine/internal/api/handlers"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/internal/services"
	"github.com/blockwork/engine/pkg/database"
	"gorm.io/gorm"
)

// BuildDependencies wires every repository, service and handler on db.
func BuildDependencies(db *gorm.DB, legacy services.LegacySyncer, secret []byte) Dependencies {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	definitionRepo := repository.NewDefinitionRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)

	content := services.NewContentService(services.ContentRepos{
		Workspaces: workspaceRepo,
		Entities:   entityRepo,
		Clients:    repository.NewClientRepository(db),
		Projects:   repository.NewProjectRepository(db),
		Tabs:       repository.NewTabRepository(db),
		Blocks:     blockRepo,
		Tasks:      taskRepo,
		Rows:       repository.NewTableRowRepository(db),
	})

	return Dependencies{
		HMACSecret:        secret,
		HealthHandler:     handlers.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }),
		AuthHandler:       handlers.NewAuthHandler(services.NewAuthService(userRepo, secret)),
		WorkspacesHandler: handlers.NewWorkspacesHandler(services.NewWorkspaceService(workspaceRepo, userRepo, entityRepo)),
		ProjectsHandler:   handlers.NewProjectsHandler(content),
		TasksHandler:      handlers.NewTasksHandler(content),
		TimelineHandler: handlers.NewTimelineHandler(
			services.NewTimelineService(workspaceRepo, entityRepo, blockRepo, timelineRepo),
		),
		PropertiesHandler: handlers.NewPropertiesHandler(
			services.NewPropertyService(workspaceRepo, entityRepo, propertyRepo, linkRepo, definitionRepo, legacy),
		),
		LinksHandler: handlers.NewLinksHandler(services.NewLinkService(workspaceRepo, entityRepo, linkRepo)),
		DefinitionsHandler: handlers.NewDefinitionsHandler(
			services.NewDefinitionService(workspaceRepo, entityRepo, definitionRepo),
		),
	}
}
