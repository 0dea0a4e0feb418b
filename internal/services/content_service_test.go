package services

import (
	"testing"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/testutil"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/patch"
	"github.com/stretchr/testify/require"
)

func TestDeleteTask_CascadesAttachedRows(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	row := e.newRow(t)

	sub, err := e.content.CreateSubtask(e.ctx, e.fx.Task.ID, uid, "step one")
	require.NoError(t, err)
	_, err = e.props.SetProperties(e.ctx, uid, models.Ref(models.EntitySubtask, sub.ID), PropertyPatch{Status: patch.Value(models.StatusDone)})
	require.NoError(t, err)
	_, err = e.props.AddTag(e.ctx, uid, e.taskRef(), "docs")
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, uid, e.taskRef(), row)
	require.NoError(t, err)

	require.NoError(t, e.content.DeleteTask(e.ctx, e.fx.Task.ID, uid))

	for _, model := range []any{&models.TaskItem{}, &models.Subtask{}, &models.EntityProperties{}, &models.EntityLink{}, &models.InheritedDisplay{}} {
		var n int64
		require.NoError(t, e.db.Model(model).Count(&n).Error)
		require.Zero(t, n, "%T rows left", model)
	}

	_, err = e.props.GetProperties(e.ctx, uid, e.taskRef())
	requireAppErr(t, err, appErr.CodeNotFound, appErr.MsgEntityNotFound)
}

func TestDeleteProject_PurgesContent(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	_, err := e.props.AddTag(e.ctx, uid, e.taskRef(), "x")
	require.NoError(t, err)

	require.NoError(t, e.content.DeleteProject(e.ctx, e.fx.Project.ID, uid))

	for _, model := range []any{&models.Project{}, &models.Tab{}, &models.Block{}, &models.TaskItem{}, &models.EntityProperties{}} {
		var n int64
		require.NoError(t, e.db.Model(model).Count(&n).Error)
		require.Zero(t, n, "%T rows left", model)
	}
}

func TestContent_MembershipAndBlockType(t *testing.T) {
	e := newTestEnv(t)
	stranger := testutil.NewUser(t, e.db, "stranger@example.com")

	_, err := e.content.ListProjects(e.ctx, e.fx.Workspace.ID, stranger.ID)
	requireAppErr(t, err, appErr.CodeForbidden, appErr.MsgNotMember)

	_, err = e.content.CreateTask(e.ctx, e.fx.TableBlock.ID, e.fx.Owner.ID, &CreateTaskInput{Text: "nope"})
	requireAppErr(t, err, appErr.CodeInvalid, "")

	task, err := e.content.CreateTask(e.ctx, e.fx.TaskBlock.ID, e.fx.Owner.ID, &CreateTaskInput{Text: "second", Position: 1})
	require.NoError(t, err)
	require.Equal(t, models.LegacyStatusTodo, task.Status)

	tasks, err := e.content.ListTasks(e.ctx, e.fx.TaskBlock.ID, e.fx.Owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	text := "renamed"
	updated, err := e.content.UpdateTask(e.ctx, task.ID, e.fx.Owner.ID, &UpdateTaskInput{Text: &text})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Text)
}

func TestCreateProject_ClientMustShareWorkspace(t *testing.T) {
	e := newTestEnv(t)
	other := testutil.Seed(t, e.db, "other@example.com")
	foreign, err := e.content.CreateClient(e.ctx, other.Workspace.ID, other.Owner.ID, &CreateClientInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = e.content.CreateProject(e.ctx, e.fx.Workspace.ID, e.fx.Owner.ID, &CreateProjectInput{Name: "p", ClientID: &foreign.ID})
	requireAppErr(t, err, appErr.CodeInvalid, "")

	own, err := e.content.CreateClient(e.ctx, e.fx.Workspace.ID, e.fx.Owner.ID, &CreateClientInput{Name: "Globex"})
	require.NoError(t, err)
	p, err := e.content.CreateProject(e.ctx, e.fx.Workspace.ID, e.fx.Owner.ID, &CreateProjectInput{Name: "p", ClientID: &own.ID})
	require.NoError(t, err)
	require.Equal(t, models.ProjectNotStarted, p.Status)
}
