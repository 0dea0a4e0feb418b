package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/services"
)

// TasksHandler serves the rows of task and table blocks.
type TasksHandler struct {
	content services.ContentService
}

func NewTasksHandler(content services.ContentService) *TasksHandler {
	return &TasksHandler{content: content}
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListTasks(r.Context(), blockID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.TaskCreateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.content.CreateTask(r.Context(), blockID, userID(r), &services.CreateTaskInput{
		Text:     req.Text,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, t)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.TaskUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.content.UpdateTask(r.Context(), id, userID(r), &services.UpdateTaskInput{
		Text:     req.Text,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, t)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteTask(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TasksHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListSubtasks(r.Context(), id, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *TasksHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.SubtaskCreateRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.content.CreateSubtask(r.Context(), id, userID(r), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, st)
}

func (h *TasksHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListRows(r.Context(), blockID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *TasksHandler) CreateRow(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.RowCreateRequest
	if !decode(w, r, &req) {
		return
	}
	row, err := h.content.CreateRow(r.Context(), blockID, userID(r), &services.CreateRowInput{
		Data:     req.Data,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, row)
}

func (h *TasksHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteRow(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
