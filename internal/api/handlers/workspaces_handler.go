package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
	"github.com/google/uuid"
)

type WorkspacesHandler struct {
	workspaces services.WorkspaceService
}

func NewWorkspacesHandler(workspaces services.WorkspaceService) *WorkspacesHandler {
	return &WorkspacesHandler{workspaces: workspaces}
}

func (h *WorkspacesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.workspaces.ListWorkspaces(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *WorkspacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.WorkspaceCreateRequest
	if !decode(w, r, &req) {
		return
	}
	ws, err := h.workspaces.CreateWorkspace(r.Context(), userID(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, ws)
}

func (h *WorkspacesHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.workspaces.ListMembers(r.Context(), wsID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, members)
}

func (h *WorkspacesHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.MemberAddRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.workspaces.AddMember(r.Context(), wsID, userID(r), &services.AddMemberInput{
		UserID: uuid.MustParse(req.UserID),
		Role:   models.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, m)
}

func (h *WorkspacesHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.workspaces.RemoveMember(r.Context(), wsID, userID(r), memberID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
