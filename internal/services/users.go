package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"tasktrack/backend/internal/apperrors"
	"tasktrack/backend/internal/models"

	"gorm.io/gorm"
)

type UserService interface {
	ResolveUser(db *gorm.DB, name, email string) (models.User, error)
	GetUserByEmail(db *gorm.DB, email string) (models.User, error)
	GetUserByID(db *gorm.DB, id int) (models.User, error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

// ResolveUser is the only path that creates users. It is idempotent by
// email: a repeat call returns the stored row and never updates the name.
func (s *UserServiceImpl) ResolveUser(db *gorm.DB, name, email string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return models.User{}, apperrors.Validation("name and email are required fields")
	}

	if !emailPattern.MatchString(email) {
		return models.User{}, apperrors.Validation("invalid email format")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperrors.Storage(err)
	}

	user = models.User{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		return models.User{}, apperrors.Storage(err)
	}

	return user, nil
}

func (s *UserServiceImpl) GetUserByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.NotFound("user")
		}
		return models.User{}, apperrors.Storage(err)
	}

	return user, nil
}

func (s *UserServiceImpl) GetUserByID(db *gorm.DB, id int) (models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.NotFound("user")
		}
		return models.User{}, apperrors.Storage(err)
	}

	return user, nil
}
