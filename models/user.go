package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"
)

// User is an API account. Only managers may change the catalog.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:255" validate:"required,max=255"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null" validate:"required"`
	Role         UserRole  `json:"role" gorm:"not null;default:'viewer'" validate:"oneof=manager viewer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) Key() uint { return u.ID }
