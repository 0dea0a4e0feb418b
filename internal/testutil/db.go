// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database in a temp dir that lives as long as t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), database.Options{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is a workspace with one project, one tab and one block of each kind
// that owns rows.
type Fixture struct {
	Owner      models.User
	Workspace  models.Workspace
	Project    models.Project
	Tab        models.Tab
	TaskBlock  models.Block
	TableBlock models.Block
	Timeline   models.Block
	Task       models.TaskItem
}

// NewUser inserts a user with a placeholder password hash.
func NewUser(t testing.TB, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{Email: email, Name: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// AddMember grants u access to ws.
func AddMember(t testing.TB, db *gorm.DB, ws models.Workspace, u models.User, role models.Role) {
	t.Helper()
	require.NoError(t, db.Create(&models.WorkspaceMember{WorkspaceID: ws.ID, UserID: u.ID, Role: role}).Error)
}

// Seed creates a Fixture owned by a fresh user.
func Seed(t testing.TB, db *gorm.DB, ownerEmail string) Fixture {
	t.Helper()
	var f Fixture
	f.Owner = NewUser(t, db, ownerEmail)

	f.Workspace = models.Workspace{Name: "ws " + ownerEmail, OwnerID: f.Owner.ID}
	require.NoError(t, db.Create(&f.Workspace).Error)
	AddMember(t, db, f.Workspace, f.Owner, models.RoleOwner)

	f.Project = models.Project{WorkspaceID: f.Workspace.ID, Name: "project", Status: models.ProjectNotStarted}
	require.NoError(t, db.Create(&f.Project).Error)
	f.Tab = models.Tab{ProjectID: f.Project.ID, Name: "tab"}
	require.NoError(t, db.Create(&f.Tab).Error)

	f.TaskBlock = models.Block{TabID: f.Tab.ID, Type: models.BlockTask}
	f.TableBlock = models.Block{TabID: f.Tab.ID, Type: models.BlockTable, Position: 1}
	f.Timeline = models.Block{TabID: f.Tab.ID, Type: models.BlockTimeline, Position: 2}
	for _, b := range []*models.Block{&f.TaskBlock, &f.TableBlock, &f.Timeline} {
		require.NoError(t, db.Create(b).Error)
	}

	f.Task = models.TaskItem{
		TaskBlockID: f.TaskBlock.ID,
		Text:        "write docs",
		Status:      models.LegacyStatusTodo,
		Priority:    models.LegacyPriorityNone,
	}
	require.NoError(t, db.Create(&f.Task).Error)
	return f
}
