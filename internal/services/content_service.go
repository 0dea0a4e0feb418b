package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ContentService manages everything below a workspace: clients, projects, tabs,
// blocks and the rows task and table blocks own.
type ContentService interface {
	CreateClient(ctx context.Context, workspaceID, userID uuid.UUID, input *CreateClientInput) (*models.Client, error)
	ListClients(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.Client, error)

	CreateProject(ctx context.Context, workspaceID, userID uuid.UUID, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.Project, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error

	CreateTab(ctx context.Context, projectID, userID uuid.UUID, input *CreateTabInput) (*models.Tab, error)
	ListTabs(ctx context.Context, projectID, userID uuid.UUID) ([]models.Tab, error)

	CreateBlock(ctx context.Context, tabID, userID uuid.UUID, input *CreateBlockInput) (*models.Block, error)
	ListBlocks(ctx context.Context, tabID, userID uuid.UUID) ([]models.Block, error)
	DeleteBlock(ctx context.Context, blockID, userID uuid.UUID) error

	CreateTask(ctx context.Context, blockID, userID uuid.UUID, input *CreateTaskInput) (*models.TaskItem, error)
	ListTasks(ctx context.Context, blockID, userID uuid.UUID) ([]models.TaskItem, error)
	UpdateTask(ctx context.Context, taskID, userID uuid.UUID, input *UpdateTaskInput) (*models.TaskItem, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
	CreateSubtask(ctx context.Context, taskID, userID uuid.UUID, text string) (*models.Subtask, error)
	ListSubtasks(ctx context.Context, taskID, userID uuid.UUID) ([]models.Subtask, error)

	CreateRow(ctx context.Context, blockID, userID uuid.UUID, input *CreateRowInput) (*models.TableRow, error)
	ListRows(ctx context.Context, blockID, userID uuid.UUID) ([]models.TableRow, error)
	DeleteRow(ctx context.Context, rowID, userID uuid.UUID) error
}

type CreateClientInput struct {
	Name    string
	Company string
	Email   string
}

type CreateProjectInput struct {
	Name     string
	ClientID *uuid.UUID
	Status   string
	DueDate  *time.Time
}

type CreateTabInput struct {
	Name        string
	ParentTabID *uuid.UUID
	Position    int
}

type CreateBlockInput struct {
	Type     models.BlockType
	Content  map[string]interface{}
	Position int
}

type CreateTaskInput struct {
	Text     string
	Position int
}

type UpdateTaskInput struct {
	Text     *string
	Position *int
}

type CreateRowInput struct {
	Data     map[string]interface{}
	Position int
}

// ContentRepos bundles the repositories ContentService works on.
type ContentRepos struct {
	Workspaces repository.WorkspaceRepository
	Entities   repository.EntityRepository
	Clients    repository.ClientRepository
	Projects   repository.ProjectRepository
	Tabs       repository.TabRepository
	Blocks     repository.BlockRepository
	Tasks      repository.TaskRepository
	Rows       repository.TableRowRepository
}

type contentService struct {
	guard accessGuard
	repos ContentRepos
}

func NewContentService(repos ContentRepos) ContentService {
	return &contentService{
		guard: accessGuard{workspaces: repos.Workspaces, entities: repos.Entities},
		repos: repos,
	}
}

var _ ContentService = (*contentService)(nil)

func (s *contentService) CreateClient(ctx context.Context, workspaceID, userID uuid.UUID, input *CreateClientInput) (*models.Client, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	c := &models.Client{WorkspaceID: workspaceID, Name: input.Name, Company: input.Company, Email: input.Email}
	if err := s.repos.Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("client created", zap.String("client_id", c.ID.String()), zap.String("workspace_id", workspaceID.String()))
	return c, nil
}

func (s *contentService) ListClients(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.Client, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.repos.Clients.ListByWorkspace(ctx, workspaceID)
}

func (s *contentService) CreateProject(ctx context.Context, workspaceID, userID uuid.UUID, input *CreateProjectInput) (*models.Project, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	if input.ClientID != nil {
		var c models.Client
		if err := s.repos.Clients.GetByID(ctx, *input.ClientID, &c); err != nil {
			return nil, err
		}
		if c.WorkspaceID != workspaceID {
			return nil, appErr.New(appErr.CodeInvalid, "client belongs to another workspace")
		}
	}
	status := input.Status
	if status == "" {
		status = models.ProjectNotStarted
	}
	p := &models.Project{
		WorkspaceID: workspaceID,
		ClientID:    input.ClientID,
		Name:        input.Name,
		Status:      status,
		DueDate:     input.DueDate,
	}
	if err := s.repos.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("project created", zap.String("project_id", p.ID.String()), zap.String("user_id", userID.String()))
	return p, nil
}

func (s *contentService) project(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var p models.Project
	if err := s.repos.Projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if _, err := s.guard.member(ctx, p.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *contentService) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	return s.project(ctx, projectID, userID)
}

func (s *contentService) ListProjects(ctx context.Context, workspaceID, userID uuid.UUID) ([]models.Project, error) {
	if _, err := s.guard.member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.repos.Projects.ListByWorkspace(ctx, workspaceID)
}

func (s *contentService) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := s.project(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.repos.Entities.PurgeProject(ctx, projectID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("project deleted", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))
	return nil
}

func (s *contentService) CreateTab(ctx context.Context, projectID, userID uuid.UUID, input *CreateTabInput) (*models.Tab, error) {
	if _, err := s.project(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if input.ParentTabID != nil {
		var parent models.Tab
		if err := s.repos.Tabs.GetByID(ctx, *input.ParentTabID, &parent); err != nil {
			return nil, err
		}
		if parent.ProjectID != projectID {
			return nil, appErr.New(appErr.CodeInvalid, "parent tab belongs to another project")
		}
	}
	t := &models.Tab{ProjectID: projectID, ParentTabID: input.ParentTabID, Name: input.Name, Position: input.Position}
	if err := s.repos.Tabs.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *contentService) ListTabs(ctx context.Context, projectID, userID uuid.UUID) ([]models.Tab, error) {
	if _, err := s.project(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repos.Tabs.ListByProject(ctx, projectID)
}

func (s *contentService) CreateBlock(ctx context.Context, tabID, userID uuid.UUID, input *CreateBlockInput) (*models.Block, error) {
	if _, err := s.guard.tab(ctx, userID, tabID); err != nil {
		return nil, err
	}
	content, err := marshalJSON(input.Content, "invalid block content")
	if err != nil {
		return nil, err
	}
	b := &models.Block{TabID: tabID, Type: input.Type, Content: content, Position: input.Position}
	if err := s.repos.Blocks.Create(ctx, b); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("block created", zap.String("block_id", b.ID.String()), zap.String("type", string(b.Type)))
	return b, nil
}

func (s *contentService) ListBlocks(ctx context.Context, tabID, userID uuid.UUID) ([]models.Block, error) {
	if _, err := s.guard.tab(ctx, userID, tabID); err != nil {
		return nil, err
	}
	return s.repos.Blocks.ListByTab(ctx, tabID)
}

func (s *contentService) DeleteBlock(ctx context.Context, blockID, userID uuid.UUID) error {
	return s.purge(ctx, userID, models.Ref(models.EntityBlock, blockID))
}

// block loads a block the caller can access and checks its type.
func (s *contentService) block(ctx context.Context, blockID, userID uuid.UUID, want models.BlockType) (*models.Block, error) {
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityBlock, blockID)); err != nil {
		return nil, err
	}
	var b models.Block
	if err := s.repos.Blocks.GetByID(ctx, blockID, &b); err != nil {
		return nil, err
	}
	if b.Type != want {
		return nil, appErr.Newf(appErr.CodeInvalid, "block is not a %s block", want)
	}
	return &b, nil
}

func (s *contentService) CreateTask(ctx context.Context, blockID, userID uuid.UUID, input *CreateTaskInput) (*models.TaskItem, error) {
	if _, err := s.block(ctx, blockID, userID, models.BlockTask); err != nil {
		return nil, err
	}
	t := &models.TaskItem{
		TaskBlockID: blockID,
		Text:        input.Text,
		Status:      models.LegacyStatusTodo,
		Priority:    models.LegacyPriorityNone,
		Position:    input.Position,
	}
	if err := s.repos.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *contentService) ListTasks(ctx context.Context, blockID, userID uuid.UUID) ([]models.TaskItem, error) {
	if _, err := s.block(ctx, blockID, userID, models.BlockTask); err != nil {
		return nil, err
	}
	return s.repos.Tasks.ListByBlock(ctx, blockID)
}

func (s *contentService) UpdateTask(ctx context.Context, taskID, userID uuid.UUID, input *UpdateTaskInput) (*models.TaskItem, error) {
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityTask, taskID)); err != nil {
		return nil, err
	}
	var t models.TaskItem
	if err := s.repos.Tasks.GetByID(ctx, taskID, &t); err != nil {
		return nil, err
	}
	if input.Text != nil {
		t.Text = *input.Text
	}
	if input.Position != nil {
		t.Position = *input.Position
	}
	if err := s.repos.Tasks.Update(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *contentService) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	return s.purge(ctx, userID, models.Ref(models.EntityTask, taskID))
}

func (s *contentService) CreateSubtask(ctx context.Context, taskID, userID uuid.UUID, text string) (*models.Subtask, error) {
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityTask, taskID)); err != nil {
		return nil, err
	}
	st := &models.Subtask{TaskID: taskID, Text: text}
	if err := s.repos.Tasks.CreateSubtask(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *contentService) ListSubtasks(ctx context.Context, taskID, userID uuid.UUID) ([]models.Subtask, error) {
	if _, err := s.guard.entity(ctx, userID, models.Ref(models.EntityTask, taskID)); err != nil {
		return nil, err
	}
	return s.repos.Tasks.ListSubtasks(ctx, taskID)
}

func (s *contentService) CreateRow(ctx context.Context, blockID, userID uuid.UUID, input *CreateRowInput) (*models.TableRow, error) {
	if _, err := s.block(ctx, blockID, userID, models.BlockTable); err != nil {
		return nil, err
	}
	data, err := marshalJSON(input.Data, "invalid row data")
	if err != nil {
		return nil, err
	}
	row := &models.TableRow{TableBlockID: blockID, Data: data, Position: input.Position}
	if err := s.repos.Rows.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *contentService) ListRows(ctx context.Context, blockID, userID uuid.UUID) ([]models.TableRow, error) {
	if _, err := s.block(ctx, blockID, userID, models.BlockTable); err != nil {
		return nil, err
	}
	return s.repos.Rows.ListByBlock(ctx, blockID)
}

func (s *contentService) DeleteRow(ctx context.Context, rowID, userID uuid.UUID) error {
	return s.purge(ctx, userID, models.Ref(models.EntityTableRow, rowID))
}

// purge deletes ref with everything it owns and everything attached to it.
func (s *contentService) purge(ctx context.Context, userID uuid.UUID, ref models.EntityRef) error {
	if _, err := s.guard.entity(ctx, userID, ref); err != nil {
		return err
	}
	refs, err := s.repos.Entities.Subtree(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repos.Entities.Purge(ctx, refs); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("entity deleted",
		zap.String("entity", ref.String()),
		zap.Int("cascade", len(refs)-1),
		zap.String("user_id", userID.String()))
	return nil
}

func marshalJSON(v map[string]interface{}, message string) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, message)
	}
	return datatypes.JSON(b), nil
}
