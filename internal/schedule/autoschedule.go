package schedule

import (
	"time"

	"github.com/blockwork/engine/internal/models"
	"github.com/google/uuid"
)

// Event is the scheduling view of a timeline event.
type Event struct {
	ID    uuid.UUID
	Start time.Time
	End   time.Time
}

// Dependency is a typed edge: To is constrained by From.
type Dependency struct {
	From uuid.UUID
	To   uuid.UUID
	Kind models.DependencyKind
}

// Change records how an event moved. Only the final position is kept when an
// event moves more than once in a pass.
type Change struct {
	EventID  uuid.UUID `json:"event_id"`
	OldStart time.Time `json:"old_start"`
	OldEnd   time.Time `json:"old_end"`
	NewStart time.Time `json:"new_start"`
	NewEnd   time.Time `json:"new_end"`
}

// AutoSchedule walks deps once, in the given order, and pushes each target
// forward until it satisfies its constraint, preserving the target's duration.
// Moves made earlier in the pass are seen by later edges, but edges are not
// revisited: a chain listed out of dependency order needs another pass.
// Targets are never pulled earlier.
func AutoSchedule(events []Event, deps []Dependency) []Change {
	current := make(map[uuid.UUID]Event, len(events))
	for _, e := range events {
		current[e.ID] = e
	}

	changes := make(map[uuid.UUID]*Change)
	var order []uuid.UUID

	for _, d := range deps {
		src, ok := current[d.From]
		if !ok {
			continue
		}
		dst, ok := current[d.To]
		if !ok {
			continue
		}
		moved, ok := constrain(src, dst, d.Kind)
		if !ok {
			continue
		}
		c, seen := changes[dst.ID]
		if !seen {
			c = &Change{EventID: dst.ID, OldStart: dst.Start, OldEnd: dst.End}
			changes[dst.ID] = c
			order = append(order, dst.ID)
		}
		c.NewStart, c.NewEnd = moved.Start, moved.End
		current[dst.ID] = moved
	}

	out := make([]Change, 0, len(order))
	for _, id := range order {
		out = append(out, *changes[id])
	}
	return out
}

// constrain returns dst shifted to satisfy the edge, and false when it already does.
func constrain(src, dst Event, kind models.DependencyKind) (Event, bool) {
	duration := dst.End.Sub(dst.Start)
	switch kind {
	case models.FinishToStart:
		if dst.Start.Before(src.End) {
			return Event{ID: dst.ID, Start: src.End, End: src.End.Add(duration)}, true
		}
	case models.StartToStart:
		if dst.Start.Before(src.Start) {
			return Event{ID: dst.ID, Start: src.Start, End: src.Start.Add(duration)}, true
		}
	case models.FinishToFinish:
		if dst.End.Before(src.End) {
			return Event{ID: dst.ID, Start: src.End.Add(-duration), End: src.End}, true
		}
	case models.StartToFinish:
		if dst.End.Before(src.Start) {
			return Event{ID: dst.ID, Start: src.Start.Add(-duration), End: src.Start}, true
		}
	}
	return dst, false
}
