package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/database"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestApplicationStartup(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("REDIS_HOST", "localhost")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("REDIS_HOST")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg == nil {
		t.Fatal("Configuration should not be nil")
	}
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.RateLimit.Enabled = false

	// Memory-only cache: the redis level is optional by design.
	multiCache := cache.NewMultiLevelCache(nil)
	taskService := services.NewCachedTaskService(services.NewTaskService(), multiCache)
	userService := services.NewUserService()

	pool := &database.DatabasePool{DB: db}

	return setupRouter(cfg, log, pool, taskService, userService, nil)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTaskLifecycleEndToEnd(t *testing.T) {
	router := setupTestServer(t)

	// Resolve a user; the call is idempotent per email.
	w := doJSON(router, "POST", "/api/user", map[string]string{
		"name":  "Dana",
		"email": "dana@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve user failed: %d %s", w.Code, w.Body.String())
	}
	var user models.User
	json.Unmarshal(w.Body.Bytes(), &user)

	w = doJSON(router, "POST", "/api/user", map[string]string{
		"name":  "Someone Else",
		"email": "dana@example.com",
	})
	var again models.User
	json.Unmarshal(w.Body.Bytes(), &again)
	if again.ID != user.ID || again.Name != "Dana" {
		t.Errorf("resolve must be idempotent by email, got %+v", again)
	}

	// Create a task with a numeric-string user id.
	w = doJSON(router, "POST", "/api/add", map[string]interface{}{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"userId":      "1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task failed: %d %s", w.Code, w.Body.String())
	}
	var task models.Task
	json.Unmarshal(w.Body.Bytes(), &task)
	if task.Status != "pending" || task.Priority != "low" {
		t.Errorf("expected defaults pending/low, got %s/%s", task.Status, task.Priority)
	}

	// List through the email endpoint.
	w = doJSON(router, "GET", "/api/data?email=dana@example.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", w.Code, w.Body.String())
	}
	var tasks []models.Task
	json.Unmarshal(w.Body.Bytes(), &tasks)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	// Patch the status only.
	w = doJSON(router, "PATCH", "/api/update", map[string]interface{}{
		"id":     task.ID,
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "GET", "/api/task?id=1", nil)
	var patched models.Task
	json.Unmarshal(w.Body.Bytes(), &patched)
	if patched.Status != "completed" {
		t.Errorf("expected completed status, got %s", patched.Status)
	}
	if patched.Title != "Write report" {
		t.Errorf("patch must not touch other fields, got title %q", patched.Title)
	}

	// Full edit erases fields left out of the payload.
	w = doJSON(router, "PUT", "/api/edit?id=1", map[string]interface{}{
		"title":       "Write final report",
		"description": "Numbers plus commentary",
		"status":      "in_progress",
		"priority":    "high",
		"userId":      task.UserID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("edit failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "GET", "/api/task?id=1", nil)
	var edited models.Task
	json.Unmarshal(w.Body.Bytes(), &edited)
	if edited.Title != "Write final report" || edited.Priority != "high" {
		t.Errorf("unexpected task after edit: %+v", edited)
	}

	// Delete, then verify it is gone.
	w = doJSON(router, "DELETE", "/api/delete?id=1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "GET", "/api/task?id=1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}

	w = doJSON(router, "DELETE", "/api/delete?id=1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete should 404, got %d", w.Code)
	}
}

func TestCreateTaskForUnknownUserEndToEnd(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(router, "POST", "/api/add", map[string]interface{}{
		"title":       "Orphan",
		"description": "No owner",
		"userId":      999,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "user not found" {
		t.Errorf("unexpected error message: %s", resp["error"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(router, "GET", "/health/live", nil)
	if w.Code != http.StatusOK {
		t.Errorf("liveness should always be 200, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Errorf("metrics endpoint failed: %d", w.Code)
	}
}
