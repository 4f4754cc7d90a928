package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sprint-board-api/internal/database"
	"sprint-board-api/internal/metrics"
)

const testSecret = "test-secret"

// setupTestRouter creates a router over an in-memory database with an
// isolated metrics registry
func setupTestRouter(t *testing.T) (*Config, *prometheus.Registry) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	registry := prometheus.NewRegistry()
	logger := zap.NewNop()

	return &Config{
		DB:           db,
		Logger:       logger,
		JWTSecret:    testSecret,
		BasePath:     "/api",
		Metrics:      metrics.NewWithRegistry(registry, logger),
		Gatherer:     registry,
		WIPLimit:     3,
		UndoWindow:   10 * time.Second,
		ReauthWindow: 12 * time.Hour,
	}, registry
}

func bearer(t *testing.T, userID uuid.UUID, authAge time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   userID.String(),
		"auth_time": float64(time.Now().Add(-authAge).Unix()),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func (a apiClient) do(method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	v, ok := resp.Data[field].(string)
	require.True(t, ok, "missing %s in %s", field, w.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	cfg, _ := setupTestRouter(t)
	client := apiClient{t: t, router: Setup(*cfg)}

	w := client.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = client.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_NoDatabase(t *testing.T) {
	r := Setup(Config{Logger: zap.NewNop(), BasePath: "/api"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestMetricsEndpoint_NoAuthentication tests that /metrics is public and in Prometheus format
func TestMetricsEndpoint_NoAuthentication(t *testing.T) {
	cfg, _ := setupTestRouter(t)
	client := apiClient{t: t, router: Setup(*cfg)}

	w := client.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "# HELP") && strings.Contains(body, "# TYPE"))

	for _, metric := range []string{
		"sprint_board_db_connections_open",
		"sprint_board_db_connections_max",
		"sprint_board_boards_total",
		"sprint_board_active_sprints_total",
		"sprint_board_open_work_items_total",
		"sprint_board_board_created_total",
		"sprint_board_work_item_created_total",
		"sprint_board_scheduler_run_duration_seconds",
	} {
		assert.Contains(t, body, metric)
	}
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	cfg, _ := setupTestRouter(t)
	client := apiClient{t: t, router: Setup(*cfg)}

	w := client.do(http.MethodPost, "/api/boards", "", map[string]string{"name": "Platform"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_BoardFlow(t *testing.T) {
	cfg, _ := setupTestRouter(t)
	client := apiClient{t: t, router: Setup(*cfg)}
	owner := uuid.New()
	outsider := uuid.New()
	fresh := bearer(t, owner, time.Minute)
	stale := bearer(t, owner, 13*time.Hour)

	w := client.do(http.MethodPost, "/api/boards", fresh, map[string]string{"name": "Platform"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	boardID := dataField(t, w, "boardId")

	// outsiders cannot read the board
	w = client.do(http.MethodGet, "/api/boards/"+boardID, bearer(t, outsider, time.Minute), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = client.do(http.MethodPost, "/api/boards/"+boardID+"/work-items", fresh, map[string]interface{}{
		"title": "Fix login", "type": "TASK", "estimationPoints": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := dataField(t, w, "workItemId")
	assert.Equal(t, "BACKLOG", dataField(t, w, "status"))

	w = client.do(http.MethodPatch, "/api/work-items/"+itemID+"/status", fresh, map[string]string{"status": "DONE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = client.do(http.MethodPatch, "/api/work-items/"+itemID+"/status", fresh, map[string]string{"status": "TODO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"changed":true`)

	w = client.do(http.MethodGet, "/api/boards/"+boardID+"/spotlight", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, itemID, dataField(t, w, "itemId"))

	w = client.do(http.MethodPost, "/api/boards/"+boardID+"/epics", fresh, map[string]interface{}{"name": "Checkout"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	epicID := dataField(t, w, "epicId")

	w = client.do(http.MethodDelete, "/api/epics/"+epicID, stale, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "REAUTH_REQUIRED")

	w = client.do(http.MethodDelete, "/api/epics/"+epicID, fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = client.do(http.MethodPost, "/api/epics/"+epicID+"/restore", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ACTIVE", dataField(t, w, "status"))

	w = client.do(http.MethodGet, "/api/boards/"+boardID+"/reports/workload", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
