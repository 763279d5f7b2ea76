package store

import (
	"context"
	"errors"
	"sync"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/client"
	"tasktrack/backend/internal/models"
)

// Backend is the slice of the API client the store needs. *client.Client
// satisfies it.
type Backend interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int) (models.User, error)
	TasksByUser(ctx context.Context, email string) ([]models.Task, error)
	CreateTask(ctx context.Context, req client.CreateTaskRequest) (models.Task, error)
}

// AddTaskInput is the store-side create payload.
type AddTaskInput struct {
	Title       string
	Description string
	UserID      int
	ProjectID   *int
	CategoryID  *int
	Status      string
	Priority    string
	DueDate     string
}

// Store holds one session's view of a user's tasks. It caches the last
// fetched list together with loading and error state, so a UI can render
// from it directly. Construct one per session; it is never shared
// globally.
//
// Concurrent operations are serialized by sequence number: when an older
// operation finishes after a newer one started, its results are
// discarded. isLoading therefore always reflects the newest operation.
type Store struct {
	mu      sync.Mutex
	backend Backend

	tasks     []models.Task
	userID    *int
	isLoading bool
	errMsg    string
	seq       uint64
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// SetUserID is a pure state update, no I/O.
func (s *Store) SetUserID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = &id
}

// FetchTasks resolves the user behind the email, then loads their tasks.
// An unknown email leaves the current task list untouched and records
// "User not found".
func (s *Store) FetchTasks(ctx context.Context, email string) error {
	seq := s.begin()

	user, err := s.backend.UserByEmail(ctx, email)
	if err != nil {
		s.fail(seq, userErrMessage(err))
		return err
	}

	tasks, err := s.backend.TasksByUser(ctx, email)
	if err != nil {
		s.fail(seq, err.Error())
		return err
	}

	s.finish(seq, func() {
		id := user.ID
		s.userID = &id
		s.tasks = tasks
	})
	return nil
}

// AddTask verifies the user, creates the task, then re-fetches the full
// list for that user instead of appending locally, so the cached view
// carries the server-assigned id and defaults.
func (s *Store) AddTask(ctx context.Context, in AddTaskInput) error {
	seq := s.begin()

	user, err := s.backend.UserByID(ctx, in.UserID)
	if err != nil {
		s.fail(seq, userErrMessage(err))
		return err
	}

	_, err = s.backend.CreateTask(ctx, client.CreateTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
		ProjectID:   idOrNil(in.ProjectID),
		CategoryID:  idOrNil(in.CategoryID),
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	})
	if err != nil {
		s.fail(seq, err.Error())
		return err
	}

	tasks, err := s.backend.TasksByUser(ctx, user.Email)
	if err != nil {
		s.fail(seq, err.Error())
		return err
	}

	s.finish(seq, func() {
		s.tasks = tasks
	})
	return nil
}

// Tasks returns a copy of the cached task list.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the message of the last failed operation, or "" after a
// success. Errors are stored as plain strings.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// UserID returns the session's user id, or nil before the first
// SetUserID or successful fetch.
func (s *Store) UserID() *int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == nil {
		return nil
	}
	id := *s.userID
	return &id
}

// begin marks a new operation as the current one and flips the store
// into its loading state.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.isLoading = true
	s.errMsg = ""
	return s.seq
}

// finish applies an operation's writes unless a newer operation has
// started since, in which case the result is dropped.
func (s *Store) finish(seq uint64, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return
	}

	apply()
	s.isLoading = false
	s.errMsg = ""
}

func (s *Store) fail(seq uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return
	}

	s.isLoading = false
	s.errMsg = msg
}

func userErrMessage(err error) string {
	if errors.Is(err, apperrors.ErrNotFound) {
		return "User not found"
	}
	return err.Error()
}

func idOrNil(id *int) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
