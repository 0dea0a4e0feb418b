package services

import (
	"encoding/json"
	"testing"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/testutil"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/patch"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) newRow(t *testing.T) models.EntityRef {
	t.Helper()
	row, err := e.content.CreateRow(e.ctx, e.fx.TableBlock.ID, e.fx.Owner.ID, &CreateRowInput{Data: map[string]interface{}{"name": "row"}})
	require.NoError(t, err)
	return models.Ref(models.EntityTableRow, row.ID)
}

func TestCreateLink_SelfRejectedRegardlessOfMembership(t *testing.T) {
	e := newTestEnv(t)
	stranger := testutil.NewUser(t, e.db, "stranger@example.com")

	_, err := e.links.CreateLink(e.ctx, stranger.ID, e.taskRef(), e.taskRef())
	requireAppErr(t, err, appErr.CodeInvalid, appErr.MsgSelfLink)

	_, err = e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), e.taskRef())
	requireAppErr(t, err, appErr.CodeInvalid, appErr.MsgSelfLink)
}

func TestCreateLink_CrossWorkspaceRejectedForMemberOfBoth(t *testing.T) {
	e := newTestEnv(t)
	other := testutil.Seed(t, e.db, "other@example.com")
	testutil.AddMember(t, e.db, other.Workspace, e.fx.Owner, models.RoleMember)

	_, err := e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), models.Ref(models.EntityTask, other.Task.ID))
	requireAppErr(t, err, appErr.CodeInvalid, appErr.MsgCrossWorkspace)
}

func TestCreateLink_Errors(t *testing.T) {
	e := newTestEnv(t)
	target := e.newRow(t)

	_, err := e.links.CreateLink(e.ctx, e.fx.Owner.ID, models.Ref(models.EntityTask, uuid.New()), target)
	requireAppErr(t, err, appErr.CodeNotFound, appErr.MsgEntityNotFound)

	stranger := testutil.NewUser(t, e.db, "stranger@example.com")
	_, err = e.links.CreateLink(e.ctx, stranger.ID, e.taskRef(), target)
	requireAppErr(t, err, appErr.CodeForbidden, appErr.MsgNotMember)

	_, err = e.links.CreateLink(e.ctx, uuid.Nil, e.taskRef(), target)
	requireAppErr(t, err, appErr.CodeUnauthorized, appErr.MsgUnauthorized)

	_, err = e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), target)
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), target)
	requireAppErr(t, err, appErr.CodeConflict, appErr.MsgLinkExists)
}

func TestCreateLink_InsertsVisibleDisplayRow(t *testing.T) {
	e := newTestEnv(t)
	target := e.newRow(t)

	l, err := e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), target)
	require.NoError(t, err)
	require.Equal(t, e.fx.Workspace.ID, l.WorkspaceID)

	rows, err := e.linkRepo.ListDisplay(e.ctx, target)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsVisible)
	require.Equal(t, "", rows[0].PropertyKey)

	links, err := e.links.ListLinks(e.ctx, e.fx.Owner.ID, target)
	require.NoError(t, err)
	require.Len(t, links.Incoming, 1)
	require.Empty(t, links.Outgoing)

	require.NoError(t, e.links.DeleteLink(e.ctx, e.fx.Owner.ID, l.ID))
	links, err = e.links.ListLinks(e.ctx, e.fx.Owner.ID, target)
	require.NoError(t, err)
	require.Empty(t, links.Incoming)
}

func TestSetInheritedVisibility_ReturnsStoredRow(t *testing.T) {
	e := newTestEnv(t)
	target := e.newRow(t)
	_, err := e.links.CreateLink(e.ctx, e.fx.Owner.ID, e.taskRef(), target)
	require.NoError(t, err)

	rows, err := e.linkRepo.ListDisplay(e.ctx, target)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	d, err := e.props.SetInheritedVisibility(e.ctx, e.fx.Owner.ID, &VisibilityInput{Target: target, Source: e.taskRef(), Visible: false})
	require.NoError(t, err)
	require.Equal(t, rows[0].ID, d.ID)
	require.WithinDuration(t, rows[0].CreatedAt, d.CreatedAt, 0)
	require.False(t, d.IsVisible)

	rows, err = e.linkRepo.ListDisplay(e.ctx, target)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].IsVisible)
}

func TestGetWithInheritance_Visibility(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	target := e.newRow(t)

	_, err := e.props.SetProperties(e.ctx, uid, e.taskRef(), PropertyPatch{Status: patch.Value(models.StatusBlocked)})
	require.NoError(t, err)
	_, err = e.props.SetProperties(e.ctx, uid, target, PropertyPatch{Priority: patch.Value(models.PriorityLow)})
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, uid, e.taskRef(), target)
	require.NoError(t, err)

	got, err := e.props.GetWithInheritance(e.ctx, uid, target)
	require.NoError(t, err)
	require.Equal(t, models.PriorityLow, *got.Direct.Priority)
	require.Nil(t, got.Direct.Status)
	require.Len(t, got.Inherited, 1)
	require.Equal(t, e.taskRef(), got.Inherited[0].Source)
	require.True(t, got.Inherited[0].Visible)
	require.Equal(t, models.StatusBlocked, *got.Inherited[0].Properties.Status)

	_, err = e.props.SetInheritedVisibility(e.ctx, uid, &VisibilityInput{Target: target, Source: e.taskRef(), Visible: false})
	require.NoError(t, err)

	got, err = e.props.GetWithInheritance(e.ctx, uid, target)
	require.NoError(t, err)
	require.Len(t, got.Inherited, 1)
	require.False(t, got.Inherited[0].Visible)
}

func TestGetWithInheritance_OneHopOnly(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	middle := e.newRow(t)
	last := e.newRow(t)

	_, err := e.links.CreateLink(e.ctx, uid, e.taskRef(), middle)
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, uid, middle, last)
	require.NoError(t, err)

	got, err := e.props.GetWithInheritance(e.ctx, uid, last)
	require.NoError(t, err)
	require.Len(t, got.Inherited, 1)
	require.Equal(t, middle, got.Inherited[0].Source)
	require.Nil(t, got.Inherited[0].Properties)
}

func TestGetWithInheritance_PerPropertyVisibility(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	target := e.newRow(t)

	def, err := e.defs.CreateDefinition(e.ctx, e.fx.Workspace.ID, uid, &DefinitionInput{
		Name:    "Stage",
		Type:    models.PropertySelect,
		Options: []models.PropertyOption{{ID: "alpha", Label: "Alpha"}},
	})
	require.NoError(t, err)
	_, err = e.defs.SetValue(e.ctx, uid, e.taskRef(), def.ID, json.RawMessage(`"alpha"`))
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, uid, e.taskRef(), target)
	require.NoError(t, err)

	_, err = e.props.SetInheritedVisibility(e.ctx, uid, &VisibilityInput{Target: target, Source: e.taskRef(), Visible: false})
	require.NoError(t, err)
	got, err := e.props.GetWithInheritance(e.ctx, uid, target)
	require.NoError(t, err)
	require.Len(t, got.Inherited[0].Values, 1)
	require.False(t, got.Inherited[0].Values[0].Visible)

	_, err = e.props.SetInheritedVisibility(e.ctx, uid, &VisibilityInput{
		Target: target, Source: e.taskRef(), PropertyKey: def.ID.String(), Visible: true,
	})
	require.NoError(t, err)
	got, err = e.props.GetWithInheritance(e.ctx, uid, target)
	require.NoError(t, err)
	require.False(t, got.Inherited[0].Visible)
	require.True(t, got.Inherited[0].Values[0].Visible)

	_, err = e.props.SetInheritedVisibility(e.ctx, uid, &VisibilityInput{
		Target: target, Source: e.taskRef(), PropertyKey: "status", Visible: true,
	})
	requireAppErr(t, err, appErr.CodeInvalid, "")
}
