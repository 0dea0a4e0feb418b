package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/internal/testutil"
	"github.com/blockwork/engine/pkg/database"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := database.OpenSQLite(context.Background(), database.Options{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)

	require.NoError(t, runMigrations(db, "sqlite"))
	// Idempotent.
	require.NoError(t, runMigrations(db, "sqlite"))
	require.True(t, db.Migrator().HasTable(&models.EntityProperties{}))
	require.True(t, db.Migrator().HasIndex("entity_properties", "idx_entity_properties_workspace_status"))
}

func TestVerifyDependenciesReportsCycles(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, "owner@example.com")
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mk := func(title string) models.TimelineEvent {
		ev := models.TimelineEvent{
			TimelineBlockID: fx.Timeline.ID,
			Title:           title,
			StartDate:       start,
			EndDate:         start.Add(24 * time.Hour),
		}
		require.NoError(t, db.Create(&ev).Error)
		return ev
	}
	a, b := mk("a"), mk("b")
	repo := repository.NewTimelineRepository(db)

	reports, err := verifyDependencies(ctx, repo)
	require.NoError(t, err)
	require.Empty(t, reports)

	// Written directly, bypassing the service's cycle check.
	for _, d := range []models.TimelineDependency{
		{TimelineBlockID: fx.Timeline.ID, FromID: a.ID, ToID: b.ID, Kind: models.FinishToStart},
		{TimelineBlockID: fx.Timeline.ID, FromID: b.ID, ToID: a.ID, Kind: models.FinishToStart},
	} {
		require.NoError(t, db.Create(&d).Error)
	}

	reports, err = verifyDependencies(ctx, repo)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, fx.Timeline.ID, reports[0].BlockID)
	require.Len(t, reports[0].Cycle, 3)
	require.Equal(t, reports[0].Cycle[0], reports[0].Cycle[2])
}
