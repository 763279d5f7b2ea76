package handlers

import (
	"net/http"
	"strconv"

	"tasktrack/backend/internal/services"
	"tasktrack/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
	userService services.UserService
	reminders   *worker.JobQueue
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService, userService services.UserService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService, userService: userService}
}

// WithReminderQueue enables due-date reminder jobs on task creation.
func (h *TaskHandler) WithReminderQueue(queue *worker.JobQueue) *TaskHandler {
	h.reminders = queue
	return h
}

// GetTasksByEmail lists every task owned by the user behind the email.
func (h *TaskHandler) GetTasksByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email parameter is required"})
		return
	}

	user, err := h.userService.GetUserByEmail(h.db, email)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.GetTasksByUser(h.db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input services.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	task, err := h.taskService.CreateTask(h.db, input)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.reminders != nil {
		// Best effort: a lost reminder never fails the create.
		h.reminders.EnqueueTaskReminder(task)
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := taskIDFromQuery(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(h.db, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// PatchTaskStatus updates only the status field. The id travels in the
// body, matching the original patch contract.
func (h *TaskHandler) PatchTaskStatus(c *gin.Context) {
	var input struct {
		ID     interface{} `json:"id"`
		Status string      `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if input.ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task ID is required"})
		return
	}

	id, ok := intFromAny(input.ID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID format"})
		return
	}

	if err := h.taskService.PatchTaskStatus(h.db, id, input.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task status updated successfully"})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskIDFromQuery(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(h.db, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// UpdateTask replaces the full editable field set. Fields missing from
// the body are written out as empty, not preserved.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskIDFromQuery(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if err := h.taskService.UpdateTask(h.db, id, input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task updated successfully"})
}

func taskIDFromQuery(c *gin.Context) (int, bool) {
	idStr := c.Query("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task ID is required"})
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID format"})
		return 0, false
	}

	return id, true
}
