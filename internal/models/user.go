package models

import (
	"time"
)

// User rows come into existence only through the resolver's get-or-create
// path. They are never mutated or deleted afterwards.
type User struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:UserID"`
}
