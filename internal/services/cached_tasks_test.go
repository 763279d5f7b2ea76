package services_test

import (
	"errors"
	"testing"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"
)

func setupCachedService(t *testing.T) (*services.CachedTaskService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)

	mr := miniredis.RunT(t)
	config := cache.DefaultCacheConfig()
	config.Addr = mr.Addr()

	mlc := cache.NewMultiLevelCache(cache.NewRedisCache(config))
	t.Cleanup(func() { mlc.Close() })

	return services.NewCachedTaskService(services.NewTaskService(), mlc), db
}

func TestCachedTaskService_ReadAfterWrite(t *testing.T) {
	svc, db := setupCachedService(t)
	user := createTestUser(t, db, "Ann", "ann@x.com")

	task, err := svc.CreateTask(db, services.CreateTaskInput{
		Title:       "Write spec",
		Description: "Draft v1",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	// Warm the list cache, then mutate and re-read.
	if _, err := svc.GetTasksByUser(db, user.ID); err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}

	if err := svc.PatchTaskStatus(db, task.ID, models.StatusCompleted); err != nil {
		t.Fatalf("Failed to patch status: %v", err)
	}

	got, err := svc.GetTaskByID(db, task.ID)
	if err != nil {
		t.Fatalf("Failed to read task: %v", err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("Expected patched status visible, got '%s'", got.Status)
	}

	tasks, err := svc.GetTasksByUser(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != models.StatusCompleted {
		t.Errorf("Expected invalidated list to show new status, got %+v", tasks)
	}
}

func TestCachedTaskService_DeleteInvalidates(t *testing.T) {
	svc, db := setupCachedService(t)
	user := createTestUser(t, db, "Ann", "ann@x.com")

	task, err := svc.CreateTask(db, services.CreateTaskInput{
		Title:       "Task",
		Description: "Body",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	// Populate both cache keys.
	svc.GetTaskByID(db, task.ID)
	svc.GetTasksByUser(db, user.ID)

	if err := svc.DeleteTask(db, task.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}

	if _, err := svc.GetTaskByID(db, task.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected NotFound after delete, got %v", err)
	}

	tasks, err := svc.GetTasksByUser(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected empty list after delete, got %d tasks", len(tasks))
	}
}

func TestCachedTaskService_PropagatesErrors(t *testing.T) {
	svc, db := setupCachedService(t)

	if _, err := svc.GetTaskByID(db, 999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}

	_, err := svc.CreateTask(db, services.CreateTaskInput{
		Title:       "Task",
		Description: "Body",
		UserID:      999,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected NotFound for unknown user, got %v", err)
	}
}
