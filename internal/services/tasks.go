package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/models"

	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(db *gorm.DB, in CreateTaskInput) (models.Task, error)
	GetTaskByID(db *gorm.DB, id int) (models.Task, error)
	GetTasksByUser(db *gorm.DB, userID int) ([]models.Task, error)
	UpdateTask(db *gorm.DB, id int, in UpdateTaskInput) error
	PatchTaskStatus(db *gorm.DB, id int, status string) error
	DeleteTask(db *gorm.DB, id int) error
}

// CreateTaskInput carries the raw create payload. ID fields are untyped
// because callers send both JSON numbers and numeric strings; they are
// coerced before persistence.
type CreateTaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	UserID      interface{} `json:"userId"`
	ProjectID   interface{} `json:"projectId"`
	CategoryID  interface{} `json:"categoryId"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	DueDate     string      `json:"dueDate"`
}

// UpdateTaskInput is a full replacement of the editable field set. Fields
// omitted by the caller are written as empty/null, not preserved.
type UpdateTaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	UserID      interface{} `json:"userId"`
	ProjectID   interface{} `json:"projectId"`
	CategoryID  interface{} `json:"categoryId"`
	DueDate     string      `json:"dueDate"`
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, in CreateTaskInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" || description == "" || in.UserID == nil {
		return models.Task{}, apperrors.Validation("title, description and userId are required fields")
	}

	if in.Status != "" && !models.ValidStatus(in.Status) {
		return models.Task{}, apperrors.Validation("status must be one of: pending, in_progress, completed")
	}

	if in.Priority != "" && !models.ValidPriority(in.Priority) {
		return models.Task{}, apperrors.Validation("priority must be one of: low, medium, high")
	}

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	userID, err := coerceID("userId", in.UserID)
	if err != nil {
		return models.Task{}, err
	}
	if userID == nil {
		return models.Task{}, apperrors.Validation("userId must be an integer")
	}

	projectID, err := coerceID("projectId", in.ProjectID)
	if err != nil {
		return models.Task{}, err
	}

	categoryID, err := coerceID("categoryId", in.CategoryID)
	if err != nil {
		return models.Task{}, err
	}

	var user models.User
	if err := db.First(&user, *userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NotFound("user")
		}
		return models.Task{}, apperrors.Storage(err)
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityLow
	}

	task := models.Task{
		Title:       title,
		Description: description,
		UserID:      *userID,
		ProjectID:   projectID,
		CategoryID:  categoryID,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   time.Now(),
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, apperrors.Storage(err)
	}

	return task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id int) (models.Task, error) {
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NotFound("task")
		}
		return models.Task{}, apperrors.Storage(err)
	}

	return task, nil
}

func (s *TaskServiceImpl) GetTasksByUser(db *gorm.DB, userID int) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Where("user_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	return tasks, nil
}

// UpdateTask overwrites every editable field unconditionally. Callers must
// supply the complete current representation; anything omitted is erased.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id int, in UpdateTaskInput) error {
	if _, err := s.GetTaskByID(db, id); err != nil {
		return err
	}

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return err
	}

	userID, err := coerceID("userId", in.UserID)
	if err != nil {
		return err
	}

	projectID, err := coerceID("projectId", in.ProjectID)
	if err != nil {
		return err
	}

	categoryID, err := coerceID("categoryId", in.CategoryID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"status":      in.Status,
		"priority":    in.Priority,
		"user_id":     userID,
		"project_id":  projectID,
		"category_id": categoryID,
		"due_date":    dueDate,
	}

	if err := db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return apperrors.Storage(err)
	}

	return nil
}

// PatchTaskStatus deliberately skips enum validation: the create path
// validates, the status patch path never has.
func (s *TaskServiceImpl) PatchTaskStatus(db *gorm.DB, id int, status string) error {
	if _, err := s.GetTaskByID(db, id); err != nil {
		return err
	}

	if err := db.Model(&models.Task{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return apperrors.Storage(err)
	}

	return nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id int) error {
	if _, err := s.GetTaskByID(db, id); err != nil {
		return err
	}

	if err := db.Delete(&models.Task{}, id).Error; err != nil {
		return apperrors.Storage(err)
	}

	return nil
}

// coerceID accepts JSON numbers, numeric strings and Go ints. nil and ""
// coerce to no reference.
func coerceID(field string, value interface{}) (*int, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case int64:
		id := int(v)
		return &id, nil
	case float64:
		id := int(v)
		if float64(id) != v {
			return nil, apperrors.Validation("%s must be an integer", field)
		}
		return &id, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		id, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, apperrors.Validation("%s must be an integer", field)
		}
		return &id, nil
	case fmt.Stringer:
		return coerceID(field, v.String())
	default:
		return nil, apperrors.Validation("%s must be an integer", field)
	}
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}

	return nil, apperrors.Validation("invalid due date format")
}
