package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
)

// ProjectsHandler serves clients, projects, tabs and blocks.
type ProjectsHandler struct {
	content services.ContentService
}

func NewProjectsHandler(content services.ContentService) *ProjectsHandler {
	return &ProjectsHandler{content: content}
}

func (h *ProjectsHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListClients(r.Context(), wsID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *ProjectsHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.ClientCreateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.content.CreateClient(r.Context(), wsID, userID(r), &services.CreateClientInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, c)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListProjects(r.Context(), wsID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, meta := paginate(r, items)
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: page, Meta: meta})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.ProjectCreateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.content.CreateProject(r.Context(), wsID, userID(r), &services.CreateProjectInput{
		Name:     req.Name,
		ClientID: optionalUUID(req.ClientID),
		Status:   req.Status,
		DueDate:  req.DueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, p)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.content.GetProject(r.Context(), id, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteProject(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) ListTabs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListTabs(r.Context(), id, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *ProjectsHandler) CreateTab(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.TabCreateRequest
	if !decode(w, r, &req) {
		return
	}
	tab, err := h.content.CreateTab(r.Context(), id, userID(r), &services.CreateTabInput{
		Name:        req.Name,
		ParentTabID: optionalUUID(req.ParentTabID),
		Position:    req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, tab)
}

func (h *ProjectsHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.content.ListBlocks(r.Context(), id, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *ProjectsHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.BlockCreateRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.content.CreateBlock(r.Context(), id, userID(r), &services.CreateBlockInput{
		Type:     models.BlockType(req.Type),
		Content:  req.Content,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, b)
}

func (h *ProjectsHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteBlock(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
