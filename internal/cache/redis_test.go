package cache

import (
	"errors"
	"testing"
	"time"

	"tasktrack/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()

	return NewRedisCache(config)
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	task := models.Task{
		ID:          1,
		UserID:      1,
		Title:       "Write spec",
		Description: "Draft v1",
		Status:      models.StatusPending,
		Priority:    models.PriorityLow,
	}

	if err := cache.Set("task:1", task, time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	var cached models.Task
	if err := cache.Get("task:1", &cached); err != nil {
		t.Fatalf("Failed to get from cache: %v", err)
	}

	if cached.Title != task.Title || cached.Status != task.Status {
		t.Errorf("Cached task does not match: %+v", cached)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	var dest models.Task
	err := cache.Get("task:999", &dest)

	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	cache.Set("user_tasks:1", []models.Task{}, time.Minute)
	cache.Set("user_tasks:2", []models.Task{}, time.Minute)
	cache.Set("task:1", models.Task{}, time.Minute)

	if err := cache.DeletePattern("user_tasks:*"); err != nil {
		t.Fatalf("Failed to delete pattern: %v", err)
	}

	var dest []models.Task
	if err := cache.Get("user_tasks:1", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected user_tasks:1 evicted, got %v", err)
	}

	var task models.Task
	if err := cache.Get("task:1", &task); err != nil {
		t.Errorf("Expected task:1 to survive, got %v", err)
	}
}

func TestRedisCache_StatsTrackHitsAndMisses(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	cache.Set("key", "value", time.Minute)

	var dest string
	cache.Get("key", &dest)
	cache.Get("missing", &dest)

	stats := cache.Stats()
	if stats["hits"].(int64) != 1 {
		t.Errorf("Expected 1 hit, got %v", stats["hits"])
	}
	if stats["misses"].(int64) != 1 {
		t.Errorf("Expected 1 miss, got %v", stats["misses"])
	}
}

func TestRedisCache_Health(t *testing.T) {
	cache := setupTestRedis(t)
	defer cache.Close()

	if err := cache.Health(); err != nil {
		t.Errorf("Expected healthy cache, got %v", err)
	}
}
