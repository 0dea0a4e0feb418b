package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/blockwork/engine/internal/api/middleware"
	"github.com/blockwork/engine/internal/api/types"
	"github.com/blockwork/engine/internal/models"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	logger.Replace(zap.NewNop())
	os.Exit(m.Run())
}

func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := paginate(httptest.NewRequest(http.MethodGet, "/?page=2&page_size=2", nil), items)
	require.Equal(t, []int{3, 4}, page)
	require.Equal(t, 2, meta.Page)
	require.EqualValues(t, 5, meta.Total)

	page, meta = paginate(httptest.NewRequest(http.MethodGet, "/?page=9&page_size=2", nil), items)
	require.Empty(t, page)
	require.Equal(t, 9, meta.Page)

	page, meta = paginate(httptest.NewRequest(http.MethodGet, "/?page=461168601842738792&page_size=20", nil), items)
	require.Empty(t, page)
	require.Equal(t, 461168601842738792, meta.Page)

	_, meta = paginate(httptest.NewRequest(http.MethodGet, "/?page_size=500", nil), items)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 20, meta.PageSize)
}

func TestEntityRef(t *testing.T) {
	id := uuid.New()

	rr := httptest.NewRecorder()
	ref, ok := entityRef(rr, withParams(httptest.NewRequest(http.MethodGet, "/", nil), "type", "task", "id", id.String()))
	require.True(t, ok)
	require.Equal(t, models.Ref(models.EntityTask, id), ref)

	rr = httptest.NewRecorder()
	_, ok = entityRef(rr, withParams(httptest.NewRequest(http.MethodGet, "/", nil), "type", "planet", "id", id.String()))
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	_, ok = entityRef(rr, withParams(httptest.NewRequest(http.MethodGet, "/", nil), "type", "task", "id", "nope"))
	require.False(t, ok)
	require.Contains(t, rr.Body.String(), "invalid id")
}

func TestValidationErrorCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))

	rr := httptest.NewRecorder()
	_, ok := entityRef(rr, withParams(req, "type", "planet", "id", uuid.NewString()))
	require.False(t, ok)

	var env types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.NotNil(t, env.Meta)
	require.Equal(t, "req-42", env.Meta.RequestID)
}

func TestServerErrorsAreLoggedWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(zap.NewNop()) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-7"))
	rr := httptest.NewRecorder()
	writeError(rr, req, appErr.New(appErr.CodeInternal, "boom"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "req-7", entries[0].ContextMap()["request_id"])

	writeError(httptest.NewRecorder(), req, appErr.New(appErr.CodeInvalid, "nope"))
	require.Equal(t, 1, logs.Len())
}
