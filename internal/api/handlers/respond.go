package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/blockwork/engine/internal/api/middleware"
	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/api/validators"
	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, types.APIResponse{
		Success: true,
		Data:    data,
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// writeError renders err with the status its code maps to.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeErrorStr(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: "invalid", Message: msg},
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// decode reads a JSON body into dst and validates it. It writes the 400 itself
// and reports whether the handler should go on.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorStr(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := validators.New().Struct(dst); err != nil {
		writeErrorStr(w, r, http.StatusBadRequest, validators.Message(err))
		return false
	}
	return true
}

// pathUUID parses the named URL parameter.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorStr(w, r, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// entityRef reads /entities/{type}/{id}.
func entityRef(w http.ResponseWriter, r *http.Request) (models.EntityRef, bool) {
	t := models.EntityType(chi.URLParam(r, "type"))
	if !t.Valid() {
		writeErrorStr(w, r, http.StatusBadRequest, "invalid entity type")
		return models.EntityRef{}, false
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return models.EntityRef{}, false
	}
	return models.Ref(t, id), true
}

// optionalUUID parses s when present.
func optionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func userID(r *http.Request) uuid.UUID {
	return middleware.GetUserID(r.Context())
}

// paginate slices items by the page and page_size query parameters.
func paginate[T any](r *http.Request, items []T) ([]T, *types.Meta) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	start := len(items)
	if page-1 <= len(items)/size {
		start = min((page-1)*size, len(items))
	}
	end := min(start+size, len(items))
	return items[start:end], &types.Meta{
		RequestID: middleware.GetRequestID(r.Context()),
		Page:      page,
		PageSize:  size,
		Total:     int64(len(items)),
	}
}
