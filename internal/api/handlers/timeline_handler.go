package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
	"github.com/google/uuid"
)

type TimelineHandler struct {
	timeline services.TimelineService
}

func NewTimelineHandler(timeline services.TimelineService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

func (h *TimelineHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.timeline.ListEvents(r.Context(), blockID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *TimelineHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.EventCreateRequest
	if !decode(w, r, &req) {
		return
	}
	ev, err := h.timeline.CreateEvent(r.Context(), blockID, userID(r), &services.EventInput{
		Title:      req.Title,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Progress:   req.Progress,
		Status:     req.Status,
		AssigneeID: optionalUUID(req.AssigneeID),
		Color:      req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, ev)
}

func (h *TimelineHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.EventUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	ev, err := h.timeline.UpdateEvent(r.Context(), id, userID(r), &services.UpdateEventInput{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Progress:  req.Progress,
		Status:    req.Status,
		Color:     req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, ev)
}

func (h *TimelineHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.timeline.DeleteEvent(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TimelineHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.timeline.ListDependencies(r.Context(), blockID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *TimelineHandler) CreateDependency(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.DependencyCreateRequest
	if !decode(w, r, &req) {
		return
	}
	dep, err := h.timeline.CreateDependency(r.Context(), blockID, userID(r), &services.DependencyInput{
		FromID: uuid.MustParse(req.FromID),
		ToID:   uuid.MustParse(req.ToID),
		Kind:   models.DependencyKind(req.Kind),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, dep)
}

func (h *TimelineHandler) DeleteDependency(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.timeline.DeleteDependency(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Schedule shifts dependent events forward and returns what moved.
func (h *TimelineHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	changes, err := h.timeline.AutoSchedule(r.Context(), blockID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]any{"changes": changes})
}
