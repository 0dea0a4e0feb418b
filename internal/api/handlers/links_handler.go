package handlers

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
	"github.com/google/uuid"
)

type LinksHandler struct {
	links services.LinkService
}

func NewLinksHandler(links services.LinkService) *LinksHandler {
	return &LinksHandler{links: links}
}

func (h *LinksHandler) List(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	out, err := h.links.ListLinks(r.Context(), userID(r), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, out)
}

// Create links the entity in the path (source) to the one in the body (target).
func (h *LinksHandler) Create(w http.ResponseWriter, r *http.Request) {
	source, ok := entityRef(w, r)
	if !ok {
		return
	}
	var req types.LinkCreateRequest
	if !decode(w, r, &req) {
		return
	}
	target := models.Ref(models.EntityType(req.TargetType), uuid.MustParse(req.TargetID))
	link, err := h.links.CreateLink(r.Context(), userID(r), source, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, link)
}

func (h *LinksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.links.DeleteLink(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
