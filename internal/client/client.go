package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Client talks to the task API over HTTP. It maps API error responses
// back onto the shared error taxonomy so callers can use errors.Is and
// errors.As the same way they do against the services layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateTaskRequest mirrors the create payload. ID fields take any JSON
// scalar the API accepts (numbers or numeric strings).
type CreateTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	UserID      interface{} `json:"userId"`
	ProjectID   interface{} `json:"projectId,omitempty"`
	CategoryID  interface{} `json:"categoryId,omitempty"`
	Status      string      `json:"status,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	DueDate     string      `json:"dueDate,omitempty"`
}

func (c *Client) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/api/user", url.Values{"email": {email}}, &user)
	return user, err
}

func (c *Client) UserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/api/user", url.Values{"id": {strconv.Itoa(id)}}, &user)
	return user, err
}

func (c *Client) TasksByUser(ctx context.Context, email string) ([]models.Task, error) {
	var tasks []models.Task
	err := c.get(ctx, "/api/data", url.Values{"email": {email}}, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (models.Task, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.Task{}, apperrors.Storage(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/add", bytes.NewReader(body))
	if err != nil {
		return models.Task{}, apperrors.Storage(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var task models.Task
	if err := c.do(httpReq, http.StatusCreated, &task); err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return apperrors.Storage(err)
	}

	return c.do(req, http.StatusOK, out)
}

func (c *Client) do(req *http.Request, wantStatus int, out interface{}) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"component": "api_client",
			"method":    req.Method,
			"path":      req.URL.Path,
		}).WithError(err).Error("api request failed")
		return apperrors.Storage(err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"component":   "api_client",
		"method":      req.Method,
		"path":        req.URL.Path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("api request completed")

	if resp.StatusCode != wantStatus {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Storage(fmt.Errorf("decoding response: %w", err))
	}

	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
		apiErr.Error = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &apiError{msg: apiErr.Error, kind: apperrors.ErrNotFound}
	case http.StatusBadRequest:
		return apperrors.Validation("%s", apiErr.Error)
	default:
		return apperrors.Storage(fmt.Errorf("api returned %d: %s", resp.StatusCode, apiErr.Error))
	}
}

// apiError keeps the server's message verbatim while staying matchable
// with errors.Is.
type apiError struct {
	msg  string
	kind error
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.kind }
