package models

import (
	"time"
)

// Project and Category are task tags. Tasks reference them by id without
// existence checks, so rows here are catalog entries, not hard parents.
type Project struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	UserID      int       `json:"userId" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Category struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
