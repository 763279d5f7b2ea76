package services

import (
	"fmt"
	"time"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/models"

	"gorm.io/gorm"
)

const (
	taskTTL     = 30 * time.Minute
	userListTTL = 15 * time.Minute
)

// CachedTaskService decorates a TaskService with the multi-level cache.
// Every mutation invalidates eagerly so reads issued right after a write
// always observe the new state.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.MultiLevelCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.MultiLevelCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(id int) string {
	return fmt.Sprintf("task:%d", id)
}

func userTasksKey(userID int) string {
	return fmt.Sprintf("user_tasks:%d", userID)
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, in CreateTaskInput) (models.Task, error) {
	task, err := s.taskService.CreateTask(db, in)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(task.ID), task, taskTTL)
	s.cache.Delete(userTasksKey(task.UserID))

	return task, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id int) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(id), &cached); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(taskKey(id), task, taskTTL)

	return task, nil
}

func (s *CachedTaskService) GetTasksByUser(db *gorm.DB, userID int) ([]models.Task, error) {
	var cached []models.Task
	if err := s.cache.Get(userTasksKey(userID), &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.GetTasksByUser(db, userID)
	if err != nil {
		return tasks, err
	}

	s.cache.Set(userTasksKey(userID), tasks, userListTTL)

	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id int, in UpdateTaskInput) error {
	if err := s.taskService.UpdateTask(db, id, in); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))

	// A full update may reassign the task to another user, so every
	// per-user list is suspect.
	s.cache.DeletePattern("user_tasks:*")

	return nil
}

func (s *CachedTaskService) PatchTaskStatus(db *gorm.DB, id int, status string) error {
	task, getErr := s.taskService.GetTaskByID(db, id)

	if err := s.taskService.PatchTaskStatus(db, id, status); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))

	if getErr == nil {
		s.cache.Delete(userTasksKey(task.UserID))
	} else {
		s.cache.DeletePattern("user_tasks:*")
	}

	return nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id int) error {
	task, getErr := s.taskService.GetTaskByID(db, id)

	if err := s.taskService.DeleteTask(db, id); err != nil {
		return err
	}

	s.cache.Delete(taskKey(id))

	if getErr == nil {
		s.cache.Delete(userTasksKey(task.UserID))
	} else {
		s.cache.DeletePattern("user_tasks:*")
	}

	return nil
}

func (s *CachedTaskService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}
