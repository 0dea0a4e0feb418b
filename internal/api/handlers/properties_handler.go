package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PropertiesHandler serves universal properties, tags and inherited display.
type PropertiesHandler struct {
	props services.PropertyService
}

func NewPropertiesHandler(props services.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{props: props}
}

func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	p, err := h.props.GetProperties(r.Context(), userID(r), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, p)
}

// Patch merges the body into the stored row. Keys left out are untouched,
// explicit nulls clear the column.
func (h *PropertiesHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	var body services.PropertyPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorStr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.props.SetProperties(r.Context(), userID(r), ref, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, p)
}

func (h *PropertiesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	if err := h.props.ClearProperties(r.Context(), userID(r), ref); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertiesHandler) Inherited(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	out, err := h.props.GetWithInheritance(r.Context(), userID(r), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, out)
}

func (h *PropertiesHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	var req types.TagRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.props.AddTag(r.Context(), userID(r), ref, req.Tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, p)
}

func (h *PropertiesHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	tag, err := url.PathUnescape(chi.URLParam(r, "tag"))
	if err != nil {
		writeErrorStr(w, r, http.StatusBadRequest, "invalid tag")
		return
	}
	p, err := h.props.RemoveTag(r.Context(), userID(r), ref, tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, p)
}

func (h *PropertiesHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	ref, ok := entityRef(w, r)
	if !ok {
		return
	}
	var req types.VisibilityRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.props.SetInheritedVisibility(r.Context(), userID(r), &services.VisibilityInput{
		Target:      ref,
		Source:      models.Ref(models.EntityType(req.SourceType), uuid.MustParse(req.SourceID)),
		PropertyKey: req.PropertyKey,
		Visible:     *req.IsVisible,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, d)
}
