package services

import (
	"testing"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/internal/testutil"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspace_CreatorBecomesOwner(t *testing.T) {
	e := newTestEnv(t)
	u := testutil.NewUser(t, e.db, "new@example.com")

	ws, err := e.workspaces.CreateWorkspace(e.ctx, u.ID, "Studio")
	require.NoError(t, err)

	members, err := e.workspaces.ListMembers(e.ctx, ws.ID, u.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, models.RoleOwner, members[0].Role)

	list, err := e.workspaces.ListWorkspaces(e.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Studio", list[0].Name)

	_, err = e.workspaces.CreateWorkspace(e.ctx, uuid.Nil, "nobody")
	requireAppErr(t, err, appErr.CodeUnauthorized, appErr.MsgUnauthorized)
}

func TestMembers_RoleRules(t *testing.T) {
	e := newTestEnv(t)
	ws := e.fx.Workspace.ID
	member := testutil.NewUser(t, e.db, "member@example.com")
	other := testutil.NewUser(t, e.db, "other@example.com")

	m, err := e.workspaces.AddMember(e.ctx, ws, e.fx.Owner.ID, &AddMemberInput{UserID: member.ID})
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, m.Role)

	_, err = e.workspaces.AddMember(e.ctx, ws, e.fx.Owner.ID, &AddMemberInput{UserID: member.ID})
	requireAppErr(t, err, appErr.CodeConflict, "")

	_, err = e.workspaces.AddMember(e.ctx, ws, member.ID, &AddMemberInput{UserID: other.ID})
	requireAppErr(t, err, appErr.CodeForbidden, "")

	err = e.workspaces.RemoveMember(e.ctx, ws, e.fx.Owner.ID, e.fx.Owner.ID)
	requireAppErr(t, err, appErr.CodeInvalid, "")

	require.NoError(t, e.workspaces.RemoveMember(e.ctx, ws, member.ID, member.ID))
	_, err = e.workspaces.ListMembers(e.ctx, ws, member.ID)
	requireAppErr(t, err, appErr.CodeForbidden, appErr.MsgNotMember)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)
	secret := []byte("test-secret")
	auth := NewAuthService(repository.NewUserRepository(e.db), secret)

	u, err := auth.Register(e.ctx, "Ada@Example.com", "correct horse", "Ada")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = auth.Register(e.ctx, "ada@example.com", "another one", "Ada")
	requireAppErr(t, err, appErr.CodeConflict, "")

	_, _, err = auth.Login(e.ctx, "ada@example.com", "wrong")
	requireAppErr(t, err, appErr.CodeUnauthorized, "")

	token, got, err := auth.Login(e.ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return secret, nil })
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), sub)
}
