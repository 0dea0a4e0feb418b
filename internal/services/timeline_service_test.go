package services

import (
	"testing"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/testutil"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func (e *testEnv) newEvent(t *testing.T, blockID uuid.UUID, title string, startDay, days int) *models.TimelineEvent {
	t.Helper()
	start := day0.AddDate(0, 0, startDay)
	ev, err := e.timeline.CreateEvent(e.ctx, blockID, e.fx.Owner.ID, &EventInput{
		Title:     title,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
	})
	require.NoError(t, err)
	return ev
}

func (e *testEnv) depend(blockID, from, to uuid.UUID) error {
	_, err := e.timeline.CreateDependency(e.ctx, blockID, e.fx.Owner.ID, &DependencyInput{FromID: from, ToID: to})
	return err
}

func TestCreateDependency_RejectsCycle(t *testing.T) {
	e := newTestEnv(t)
	blk := e.fx.Timeline.ID
	a := e.newEvent(t, blk, "A", 0, 1)
	b := e.newEvent(t, blk, "B", 1, 1)
	c := e.newEvent(t, blk, "C", 2, 1)
	d := e.newEvent(t, blk, "D", 3, 1)

	require.NoError(t, e.depend(blk, a.ID, b.ID))
	require.NoError(t, e.depend(blk, b.ID, c.ID))
	requireAppErr(t, e.depend(blk, c.ID, a.ID), appErr.CodeInvalid, appErr.MsgDependencyCycle)
	require.NoError(t, e.depend(blk, c.ID, d.ID))

	deps, err := e.timeline.ListDependencies(e.ctx, blk, e.fx.Owner.ID)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	require.Equal(t, models.FinishToStart, deps[0].Kind)
}

func TestCreateDependency_Rejections(t *testing.T) {
	e := newTestEnv(t)
	blk := e.fx.Timeline.ID
	a := e.newEvent(t, blk, "A", 0, 1)
	b := e.newEvent(t, blk, "B", 1, 1)

	requireAppErr(t, e.depend(blk, a.ID, a.ID), appErr.CodeInvalid, appErr.MsgSelfDependency)

	require.NoError(t, e.depend(blk, a.ID, b.ID))
	requireAppErr(t, e.depend(blk, a.ID, b.ID), appErr.CodeConflict, appErr.MsgDependencyExists)

	other, err := e.content.CreateBlock(e.ctx, e.fx.Tab.ID, e.fx.Owner.ID, &CreateBlockInput{Type: models.BlockTimeline})
	require.NoError(t, err)
	x := e.newEvent(t, other.ID, "X", 0, 1)
	requireAppErr(t, e.depend(blk, a.ID, x.ID), appErr.CodeInvalid, "")

	_, err = e.timeline.CreateDependency(e.ctx, blk, e.fx.Owner.ID, &DependencyInput{FromID: b.ID, ToID: a.ID, Kind: "before"})
	requireAppErr(t, err, appErr.CodeInvalid, "")

	stranger := testutil.NewUser(t, e.db, "stranger@example.com")
	_, err = e.timeline.CreateDependency(e.ctx, blk, stranger.ID, &DependencyInput{FromID: b.ID, ToID: a.ID})
	requireAppErr(t, err, appErr.CodeForbidden, appErr.MsgNotMember)
}

func TestCreateEvent_RequiresTimelineBlock(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.timeline.CreateEvent(e.ctx, e.fx.TaskBlock.ID, e.fx.Owner.ID, &EventInput{
		Title: "x", StartDate: day0, EndDate: day0,
	})
	requireAppErr(t, err, appErr.CodeInvalid, "")

	_, err = e.timeline.CreateEvent(e.ctx, e.fx.Timeline.ID, e.fx.Owner.ID, &EventInput{
		Title: "x", StartDate: day0, EndDate: day0.AddDate(0, 0, -1),
	})
	requireAppErr(t, err, appErr.CodeInvalid, "")
}

func TestAutoSchedule_PersistsAndPreservesDuration(t *testing.T) {
	e := newTestEnv(t)
	blk := e.fx.Timeline.ID
	a := e.newEvent(t, blk, "A", 0, 4)
	b := e.newEvent(t, blk, "B", 1, 2)
	require.NoError(t, e.depend(blk, a.ID, b.ID))

	changes, err := e.timeline.AutoSchedule(e.ctx, blk, e.fx.Owner.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, b.ID, changes[0].EventID)
	require.True(t, changes[0].NewStart.Equal(a.EndDate))

	events, err := e.timeline.ListEvents(e.ctx, blk, e.fx.Owner.ID)
	require.NoError(t, err)
	for _, ev := range events {
		if ev.ID == b.ID {
			require.True(t, ev.StartDate.Equal(a.EndDate))
			require.Equal(t, 48*time.Hour, ev.Duration())
		}
	}

	changes, err = e.timeline.AutoSchedule(e.ctx, blk, e.fx.Owner.ID)
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestDeleteEvent_RemovesDependencies(t *testing.T) {
	e := newTestEnv(t)
	blk := e.fx.Timeline.ID
	a := e.newEvent(t, blk, "A", 0, 1)
	b := e.newEvent(t, blk, "B", 1, 1)
	require.NoError(t, e.depend(blk, a.ID, b.ID))

	require.NoError(t, e.timeline.DeleteEvent(e.ctx, a.ID, e.fx.Owner.ID))
	deps, err := e.timeline.ListDependencies(e.ctx, blk, e.fx.Owner.ID)
	require.NoError(t, err)
	require.Empty(t, deps)
}
