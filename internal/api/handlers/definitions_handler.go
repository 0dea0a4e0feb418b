package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
)

// DefinitionsHandler serves workspace property definitions and entity values.
type DefinitionsHandler struct {
	defs services.DefinitionService
}

func NewDefinitionsHandler(defs services.DefinitionService) *DefinitionsHandler {
	return &DefinitionsHandler{defs: defs}
}

func (h *DefinitionsHandler) List(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.defs.ListDefinitions(r.Context(), wsID, userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *DefinitionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.DefinitionCreateRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.defs.CreateDefinition(r.Context(), wsID, userID(r), &services.DefinitionInput{
		Name:    req.Name,
		Type:    models.PropertyType(req.Type),
		Options: req.Options,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, d)
}

func (h *DefinitionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req types.DefinitionUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.defs.UpdateDefinition(r.Context(), id, userID(r), &services.UpdateDefinitionInput{
		Name:    req.Name,
		Options: req.Options,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, d)
}

func (h *DefinitionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.defs.DeleteDefinition(r.Context(), id, userID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DefinitionsHandler) ListValues(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	items, err := h.defs.ListValues(r.Context(), userID(r), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, items)
}

func (h *DefinitionsHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	defID, ok := pathUUID(w, r, "definitionID")
	if !ok {
		return
	}
	var req types.ValueSetRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.defs.SetValue(r.Context(), userID(r), ref, defID, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, v)
}

func (h *DefinitionsHandler) ClearValue(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	defID, ok := pathUUID(w, r, "definitionID")
	if !ok {
		return
	}
	if err := h.defs.ClearValue(r.Context(), userID(r), ref, defID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
