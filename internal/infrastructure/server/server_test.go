package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/core/internal/adapters/repository"
	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/config"
	"github.com/scholarsync/core/internal/infrastructure/database"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/infrastructure/metrics"
	"github.com/scholarsync/core/internal/ports"
)

type staticGenerator struct {
	text   string
	err    error
	panics bool
}

func (g staticGenerator) Generate(context.Context, []string) (string, error) {
	if g.panics {
		panic("generator exploded")
	}
	return g.text, g.err
}

type testEnv struct {
	handler http.Handler
	db      *database.DB
	store   *repository.ProfessorStore
}

// slowGenerator answers after delay unless its context ends first.
type slowGenerator struct {
	delay time.Duration
	seen  chan error
}

func (g slowGenerator) Generate(ctx context.Context, _ []string) (string, error) {
	select {
	case <-time.After(g.delay):
		g.seen <- nil
		return "Finished anyway.", nil
	case <-ctx.Done():
		g.seen <- ctx.Err()
		return "", ctx.Err()
	}
}

func newTestEnv(t *testing.T, seed string, gen ports.DescriptionGenerator) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "ScholarSync", Version: "test", Environment: "test"},
		Storage:   config.StorageConfig{Path: path, AtomicWrite: true},
		Generator: config.GeneratorConfig{Timeout: 5 * time.Second, MaxLength: 256},
		Security:  config.SecurityConfig{CORSAllowedOrigins: "*"},
	}

	db, err := database.New(cfg.Storage)
	require.NoError(t, err)
	professors, err := db.Load()
	require.NoError(t, err)

	m := metrics.New()
	store := repository.NewProfessorStore(professors, db, gen, m, logger.NewNop())

	srv, err := New(cfg, db, store, m, logger.NewNop())
	require.NoError(t, err)

	return &testEnv{handler: srv.Handler(), db: db, store: store}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateThenListPersists(t *testing.T) {
	env := newTestEnv(t, "[]", staticGenerator{})

	rec := env.do(t, http.MethodPost, "/api/professors", `{"name":"A","dept":"CS","desc":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[entities.Professor](t, rec)
	assert.Equal(t, uint32(1), created.ID)
	assert.Empty(t, created.Papers)

	rec = env.do(t, http.MethodGet, "/api/professors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]entities.Professor](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "A", listed[0].Name)

	onDisk, err := env.db.Load()
	require.NoError(t, err)
	assert.Equal(t, listed, onDisk)
}

func TestIDReuseThroughAPI(t *testing.T) {
	env := newTestEnv(t, `[
  {"id": 1, "name": "A", "dept": "CS", "desc": "", "papers": []},
  {"id": 2, "name": "B", "dept": "Math", "desc": "", "papers": []}
]`, staticGenerator{})

	rec := env.do(t, http.MethodDelete, "/api/professors/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/professors", `{"name":"C","dept":"Phys"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(3), decode[entities.Professor](t, rec).ID)

	rec = env.do(t, http.MethodDelete, "/api/professors/3", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/professors", `{"name":"D","dept":"Bio"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(3), decode[entities.Professor](t, rec).ID)
}

func TestPaperRoutes(t *testing.T) {
	env := newTestEnv(t, `[{"id": 2, "name": "B", "dept": "Math", "desc": "", "papers": []}]`, staticGenerator{})

	rec := env.do(t, http.MethodPost, "/api/professors/2/papers", `{"title":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.Paper{ID: 1, Title: "X"}, decode[entities.Paper](t, rec))

	rec = env.do(t, http.MethodPost, "/api/professors/2/papers", `{"title":"Y"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(2), decode[entities.Paper](t, rec).ID)

	rec = env.do(t, http.MethodPut, "/api/professors/2/papers/1", `{"title":"X2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/professors/2/papers/2", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/professors/2/papers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []entities.Paper{{ID: 1, Title: "X2"}}, decode[[]entities.Paper](t, rec))

	rec = env.do(t, http.MethodPost, "/api/professors/9/papers", `{"title":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfessorPreservesPapers(t *testing.T) {
	env := newTestEnv(t, `[{"id": 3, "name": "old", "dept": "old", "desc": "d", "papers": [{"id": 1, "title": "t"}]}]`, staticGenerator{})

	rec := env.do(t, http.MethodPatch, "/api/professors/3", `{"name":"new","dept":"Math"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[entities.Professor](t, rec)
	assert.Equal(t, uint32(3), got.ID)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "d", got.Desc)
	assert.Equal(t, []entities.Paper{{ID: 1, Title: "t"}}, got.Papers)

	rec = env.do(t, http.MethodPut, "/api/professors/3", `{"name":"put","dept":"Phys","desc":"replaced"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got = decode[entities.Professor](t, rec)
	assert.Equal(t, uint32(3), got.ID)
	assert.Equal(t, "put", got.Name)
	assert.Equal(t, "Phys", got.Dept)
	assert.Equal(t, "replaced", got.Desc)
	assert.Equal(t, []entities.Paper{{ID: 1, Title: "t"}}, got.Papers)

	rec = env.do(t, http.MethodPut, "/api/professors/4", `{"name":"put","dept":"Phys"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAnswersInternalErrorWhenIDsExhausted(t *testing.T) {
	env := newTestEnv(t, `[
  {"id": 0, "name": "Zero", "dept": "CS", "desc": "", "papers": []},
  {"id": 4294967295, "name": "Max", "dept": "CS", "desc": "", "papers": []}
]`, staticGenerator{})

	rec := env.do(t, http.MethodPost, "/api/professors", `{"name":"New","dept":"CS"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/professors/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Zero", decode[entities.Professor](t, rec).Name)
}

func TestNotFoundAndBadIDs(t *testing.T) {
	env := newTestEnv(t, "[]", staticGenerator{})

	rec := env.do(t, http.MethodGet, "/api/professors/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Professor not found.", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/api/professors/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDescriptionRoute(t *testing.T) {
	seed := `[{"id": 1, "name": "A", "dept": "CS", "desc": "", "papers": [{"id": 1, "title": "Concurrency in Swift"}]}]`

	env := newTestEnv(t, seed, staticGenerator{text: "Works on Swift."})
	rec := env.do(t, http.MethodGet, "/api/professors/1/description", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Works on Swift.", decode[map[string]string](t, rec)["description"])

	rec = env.do(t, http.MethodGet, "/api/professors/1", "")
	assert.Equal(t, "Works on Swift.", decode[entities.Professor](t, rec).Desc)

	failing := newTestEnv(t, seed, staticGenerator{err: errors.New("upstream down")})
	rec = failing.do(t, http.MethodGet, "/api/professors/1/description", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = failing.do(t, http.MethodGet, "/api/professors/1", "")
	assert.Empty(t, decode[entities.Professor](t, rec).Desc)
}

func TestDescriptionSurvivesClientCancellation(t *testing.T) {
	seed := `[{"id": 1, "name": "A", "dept": "CS", "desc": "old", "papers": [{"id": 1, "title": "Concurrency in Swift"}]}]`
	gen := slowGenerator{delay: 300 * time.Millisecond, seen: make(chan error, 1)}
	env := newTestEnv(t, seed, gen)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/professors/1/description", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.NoError(t, <-gen.seen, "generator call was aborted")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/professors/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Finished anyway.", decode[entities.Professor](t, rec).Desc)

	onDisk, err := env.db.Load()
	require.NoError(t, err)
	assert.Equal(t, "Finished anyway.", onDisk[0].Desc)
}

func TestUncommittedWriteAnswersAccepted(t *testing.T) {
	env := newTestEnv(t, "[]", staticGenerator{})
	require.NoError(t, os.Remove(env.db.Path()))
	require.NoError(t, os.Remove(filepath.Dir(env.db.Path())))

	rec := env.do(t, http.MethodPost, "/api/professors", `{"name":"A","dept":"CS"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["message"], "has not been committed")

	rec = env.do(t, http.MethodGet, "/api/professors/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, "[]", staticGenerator{})

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestReadyFailsOnceStoreIsDegraded(t *testing.T) {
	env := newTestEnv(t, `[{"id": 1, "name": "A", "dept": "CS", "desc": "", "papers": []}]`, staticGenerator{panics: true})

	rec := env.do(t, http.MethodGet, "/api/professors/1/description", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, env.store.Healthy())

	rec = env.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/professors", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	env := newTestEnv(t, "[]", staticGenerator{})

	env.do(t, http.MethodPost, "/api/professors", `{"name":"A","dept":"CS"}`)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `store_snapshots_total{result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "store_professors 1")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
