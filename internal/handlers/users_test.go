package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MockUserService struct {
	ResolveUserFunc    func(name, email string) (models.User, error)
	GetUserByEmailFunc func(email string) (models.User, error)
	GetUserByIDFunc    func(id int) (models.User, error)
}

func (m *MockUserService) ResolveUser(db *gorm.DB, name, email string) (models.User, error) {
	return m.ResolveUserFunc(name, email)
}

func (m *MockUserService) GetUserByEmail(db *gorm.DB, email string) (models.User, error) {
	return m.GetUserByEmailFunc(email)
}

func (m *MockUserService) GetUserByID(db *gorm.DB, id int) (models.User, error) {
	return m.GetUserByIDFunc(id)
}

func setupUserRouter(userService services.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(nil, userService)

	router := gin.New()
	router.POST("/api/user", handler.ResolveUser)
	router.GET("/api/user", handler.GetUser)
	return router
}

func TestResolveUserReturnsUser(t *testing.T) {
	userService := &MockUserService{
		ResolveUserFunc: func(name, email string) (models.User, error) {
			return models.User{ID: 1, Name: name, Email: email}, nil
		},
	}
	router := setupUserRouter(userService)

	body, _ := json.Marshal(map[string]string{"name": "Dana", "email": "dana@example.com"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/user", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var user models.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if user.Email != "dana@example.com" {
		t.Errorf("unexpected email: %s", user.Email)
	}
}

func TestResolveUserInvalidEmail(t *testing.T) {
	userService := &MockUserService{
		ResolveUserFunc: func(name, email string) (models.User, error) {
			return models.User{}, apperrors.Validation("invalid email format")
		},
	}
	router := setupUserRouter(userService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/user", bytes.NewBufferString(`{"name":"Dana","email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "invalid email format" {
		t.Errorf("unexpected error message: %s", resp["error"])
	}
}

func TestResolveUserInvalidJSON(t *testing.T) {
	router := setupUserRouter(&MockUserService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/user", bytes.NewBufferString(`{broken`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetUserByEmail(t *testing.T) {
	userService := &MockUserService{
		GetUserByEmailFunc: func(email string) (models.User, error) {
			return models.User{ID: 2, Name: "Sam", Email: email}, nil
		},
	}
	router := setupUserRouter(userService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/user?email=sam@example.com", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestGetUserByID(t *testing.T) {
	userService := &MockUserService{
		GetUserByIDFunc: func(id int) (models.User, error) {
			return models.User{ID: id, Name: "Sam", Email: "sam@example.com"}, nil
		},
	}
	router := setupUserRouter(userService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/user?id=2", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var user models.User
	json.Unmarshal(w.Body.Bytes(), &user)
	if user.ID != 2 {
		t.Errorf("expected user 2, got %d", user.ID)
	}
}

func TestGetUserMissingParams(t *testing.T) {
	router := setupUserRouter(&MockUserService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/user", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	userService := &MockUserService{
		GetUserByEmailFunc: func(email string) (models.User, error) {
			return models.User{}, apperrors.NotFound("user")
		},
	}
	router := setupUserRouter(userService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/user?email=ghost@example.com", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
