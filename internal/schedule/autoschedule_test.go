package schedule

import (
	"testing"
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func days(n int) time.Time { return day0.AddDate(0, 0, n) }

func event(start, end int) Event {
	return Event{ID: uuid.New(), Start: days(start), End: days(end)}
}

func TestAutoScheduleKinds(t *testing.T) {
	tests := []struct {
		name      string
		kind      models.DependencyKind
		src, dst  Event
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"finish-to-start", models.FinishToStart, event(0, 5), event(2, 4), days(5), days(7)},
		{"start-to-start", models.StartToStart, event(3, 5), event(1, 2), days(3), days(4)},
		{"finish-to-finish", models.FinishToFinish, event(0, 10), event(1, 4), days(7), days(10)},
		{"start-to-finish", models.StartToFinish, event(6, 9), event(0, 2), days(4), days(6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := AutoSchedule([]Event{tt.src, tt.dst}, []Dependency{{From: tt.src.ID, To: tt.dst.ID, Kind: tt.kind}})
			require.Len(t, changes, 1)
			c := changes[0]
			assert.Equal(t, tt.dst.ID, c.EventID)
			assert.Equal(t, tt.wantStart, c.NewStart)
			assert.Equal(t, tt.wantEnd, c.NewEnd)
			assert.Equal(t, tt.dst.End.Sub(tt.dst.Start), c.NewEnd.Sub(c.NewStart))
		})
	}
}

func TestAutoScheduleLeavesSatisfiedEdges(t *testing.T) {
	a, b := event(0, 2), event(3, 4)
	changes := AutoSchedule([]Event{a, b}, []Dependency{{From: a.ID, To: b.ID, Kind: models.FinishToStart}})
	assert.Empty(t, changes)
}

func TestAutoScheduleIsSinglePass(t *testing.T) {
	a, b, c := event(0, 5), event(0, 2), event(0, 1)

	// in dependency order the chain propagates within one pass
	inOrder := AutoSchedule([]Event{a, b, c}, []Dependency{
		{From: a.ID, To: b.ID, Kind: models.FinishToStart},
		{From: b.ID, To: c.ID, Kind: models.FinishToStart},
	})
	require.Len(t, inOrder, 2)
	assert.Equal(t, days(7), inOrder[1].NewStart)

	// listed in reverse, c is only checked against b's old position
	reversed := AutoSchedule([]Event{a, b, c}, []Dependency{
		{From: b.ID, To: c.ID, Kind: models.FinishToStart},
		{From: a.ID, To: b.ID, Kind: models.FinishToStart},
	})
	require.Len(t, reversed, 2)
	assert.Equal(t, c.ID, reversed[0].EventID)
	assert.Equal(t, days(2), reversed[0].NewStart)
	assert.Equal(t, b.ID, reversed[1].EventID)
	assert.Equal(t, days(5), reversed[1].NewStart)
}

func TestAutoScheduleKeepsFirstOldPosition(t *testing.T) {
	a, b, target := event(0, 3), event(0, 6), event(0, 1)
	changes := AutoSchedule([]Event{a, b, target}, []Dependency{
		{From: a.ID, To: target.ID, Kind: models.FinishToStart},
		{From: b.ID, To: target.ID, Kind: models.FinishToStart},
	})
	require.Len(t, changes, 1)
	assert.Equal(t, days(0), changes[0].OldStart)
	assert.Equal(t, days(6), changes[0].NewStart)
	assert.Equal(t, days(7), changes[0].NewEnd)
}

func TestAutoScheduleSkipsUnknownEvents(t *testing.T) {
	a := event(0, 1)
	changes := AutoSchedule([]Event{a}, []Dependency{{From: a.ID, To: uuid.New(), Kind: models.FinishToStart}})
	assert.Empty(t, changes)
}
